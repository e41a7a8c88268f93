// Package markdown implements the issue store over a directory of
// markdown documents: one <number>.md file per issue under open/ or
// closed/, plus a current pointer file beside them.
package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/colonyops/docket/internal/core/issue"
)

const (
	openDir     = "open"
	closedDir   = "closed"
	currentFile = "current"
	docExt      = ".md"
)

// Store implements issue.Store on the local filesystem. Documents are
// replaced wholesale on save (temp file + rename); there is no
// fine-grained locking, the last writer wins at the document level.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ issue.Store = (*Store)(nil)

// NewStore creates a store rooted at the given directory. The directory
// is not created until Init is called.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's base directory.
func (s *Store) Root() string { return s.root }

// Init creates the open and closed collection directories. Calling Init
// on an initialized store is a no-op.
func (s *Store) Init(ctx context.Context) error {
	for _, dir := range []string{openDir, closedDir} {
		if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
			return fmt.Errorf("create %s collection: %w", dir, err)
		}
	}
	return nil
}

// Initialized reports whether the collection directories exist.
func (s *Store) Initialized() bool {
	info, err := os.Stat(filepath.Join(s.root, openDir))
	return err == nil && info.IsDir()
}

func (s *Store) docPath(number string, status issue.Status) string {
	dir := openDir
	if status == issue.StatusClosed {
		dir = closedDir
	}
	return filepath.Join(s.root, dir, number+docExt)
}

// List returns all open issues sorted by number ascending.
func (s *Store) List(ctx context.Context) ([]issue.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.Initialized() {
		return nil, issue.ErrUninitialized
	}

	entries, err := os.ReadDir(filepath.Join(s.root, openDir))
	if err != nil {
		return nil, fmt.Errorf("read open collection: %w", err)
	}

	issues := make([]issue.Issue, 0, len(entries))
	for _, entry := range entries {
		number, ok := docNumber(entry)
		if !ok {
			continue
		}

		content, err := os.ReadFile(filepath.Join(s.root, openDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read issue %s: %w", number, err)
		}

		issues = append(issues, issue.Issue{
			Number:  number,
			Title:   issue.TitleOf(string(content)),
			Status:  issue.StatusOpen,
			Content: string(content),
		})
	}

	slices.SortFunc(issues, func(a, b issue.Issue) int {
		return strings.Compare(a.Number, b.Number)
	})

	return issues, nil
}

// Get returns an issue by number, searching the open collection first and
// the closed collection second.
func (s *Store) Get(ctx context.Context, number string) (issue.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.Initialized() {
		return issue.Issue{}, issue.ErrUninitialized
	}

	for _, status := range []issue.Status{issue.StatusOpen, issue.StatusClosed} {
		content, err := os.ReadFile(s.docPath(number, status))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return issue.Issue{}, fmt.Errorf("read issue %s: %w", number, err)
		}

		return issue.Issue{
			Number:  number,
			Title:   issue.TitleOf(string(content)),
			Status:  status,
			Content: string(content),
		}, nil
	}

	return issue.Issue{}, issue.ErrNotFound
}

// Save writes an open issue's document as one atomic replace.
func (s *Store) Save(ctx context.Context, number, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Initialized() {
		return issue.ErrUninitialized
	}

	return atomicWrite(s.docPath(number, issue.StatusOpen), []byte(content))
}

// Close moves an issue from the open to the closed collection. Returns
// ErrNotFound when the issue is not open.
func (s *Store) Close(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Initialized() {
		return issue.ErrUninitialized
	}

	src := s.docPath(number, issue.StatusOpen)
	dst := s.docPath(number, issue.StatusClosed)

	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return issue.ErrNotFound
		}
		return fmt.Errorf("close issue %s: %w", number, err)
	}

	return nil
}

// NextNumber returns the next unused sequential number. Both collections
// count, so a number is never reused after its issue closes.
func (s *Store) NextNumber(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.Initialized() {
		return "", issue.ErrUninitialized
	}

	max := 0
	for _, dir := range []string{openDir, closedDir} {
		entries, err := os.ReadDir(filepath.Join(s.root, dir))
		if err != nil {
			return "", fmt.Errorf("read %s collection: %w", dir, err)
		}
		for _, entry := range entries {
			number, ok := docNumber(entry)
			if !ok {
				continue
			}
			if n, err := strconv.Atoi(number); err == nil && n > max {
				max = n
			}
		}
	}

	return issue.FormatNumber(max + 1), nil
}

// Current returns the current-issue pointer, or "" when unset.
func (s *Store) Current(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.root, currentFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read current pointer: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// SetCurrent points the tracker at an issue number.
func (s *Store) SetCurrent(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Initialized() {
		return issue.ErrUninitialized
	}

	return atomicWrite(filepath.Join(s.root, currentFile), []byte(number+"\n"))
}

// ClearCurrent removes the pointer. Clearing an unset pointer is a no-op.
func (s *Store) ClearCurrent(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.root, currentFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear current pointer: %w", err)
	}
	return nil
}

// docNumber extracts the issue number from a collection entry, rejecting
// directories and files that are not numbered documents.
func docNumber(entry fs.DirEntry) (string, bool) {
	if entry.IsDir() || !strings.HasSuffix(entry.Name(), docExt) {
		return "", false
	}
	number := strings.TrimSuffix(entry.Name(), docExt)
	if _, err := strconv.Atoi(number); err != nil {
		return "", false
	}
	return number, true
}

// atomicWrite replaces the file at path via a temp file and rename so a
// crash mid-write never leaves a truncated document behind.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
