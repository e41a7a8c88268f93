package markdown

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 64
)

// Event signals that an open issue document changed on disk.
type Event struct {
	Number string
}

// Watcher watches the open collection with fsnotify and emits debounced
// change events. Callers use it to keep cached issue listings fresh when
// documents are edited outside the process.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	debounce map[string]*time.Timer
	events   chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher starts watching the store's open collection. The store must
// be initialized first.
func NewWatcher(store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(store.Root(), openDir)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      dir,
		watcher:  fsw,
		debounce: make(map[string]*time.Timer),
		events:   make(chan Event, eventBufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Events returns the channel change events are delivered on. The channel
// stays open across Close because in-flight debounce timers may still be
// draining; receivers should stop on their own context instead.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops watching. Pending debounce timers are cancelled.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	for _, timer := range w.debounce {
		timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleEvent debounces rapid consecutive writes to the same document so
// editors that write in several syscalls produce a single event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, docExt) || strings.HasPrefix(name, ".") {
		return
	}
	number := strings.TrimSuffix(name, docExt)

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.debounce[number]; ok {
		timer.Stop()
	}
	w.debounce[number] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.debounce, number)
		w.mu.Unlock()

		select {
		case w.events <- Event{Number: number}:
		case <-w.ctx.Done():
		}
	})
}
