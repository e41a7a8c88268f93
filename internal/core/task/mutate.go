package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfRange is returned when a task index does not correspond to any
// parsed task in the document.
var ErrOutOfRange = errors.New("task index out of range")

// SetCompleted rewrites the completion indicator of the task at index and
// returns the updated document. Only the single bracket character of the
// targeted line changes; all other bytes round-trip untouched. Setting a
// task to its current state returns the input unchanged, so the operation
// is idempotent.
func SetCompleted(doc string, index int, completed bool) (string, error) {
	tasks := Parse(doc)
	if index < 0 || index >= len(tasks) {
		return "", fmt.Errorf("task %d of %d: %w", index, len(tasks), ErrOutOfRange)
	}

	if tasks[index].Completed == completed {
		return doc, nil
	}

	lines := strings.Split(doc, "\n")
	line := lines[tasks[index].line]

	loc := taskLineRe.FindStringSubmatchIndex(line)
	// Parse already matched this line, so loc is never nil here.
	flag := " "
	if completed {
		flag = "x"
	}
	lines[tasks[index].line] = line[:loc[2]] + flag + line[loc[3]:]

	return strings.Join(lines, "\n"), nil
}
