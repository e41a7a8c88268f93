// Package task parses issue documents into checklist tasks and rewrites
// task completion state in place.
package task

// Tag is an annotation token embedded in a task's display text, such as
// +unit-test or +refactor(parser).
type Tag struct {
	Name string
	Arg  string
}

// Task is one checklist line in an issue document. Tasks are transient:
// they are recomputed from the document text on every parse and never
// stored independently.
type Task struct {
	// Index is the zero-based position within the parsed task list,
	// not the raw line number.
	Index     int
	Text      string
	Completed bool
	Tags      []Tag

	// line is the zero-based source line the task was parsed from.
	line int
}

// CurrentIndex returns the index of the first incomplete task, or -1 if
// every task is complete or the list is empty.
func CurrentIndex(tasks []Task) int {
	for i := range tasks {
		if !tasks[i].Completed {
			return i
		}
	}
	return -1
}

// AllComplete reports whether the list has at least one task and every
// task is complete.
func AllComplete(tasks []Task) bool {
	if len(tasks) == 0 {
		return false
	}
	return CurrentIndex(tasks) == -1
}
