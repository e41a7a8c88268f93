package task

import (
	"regexp"
	"strings"
)

// taskLineRe recognizes a single checklist line: a list marker, a bracketed
// completion indicator, and the task text. It is deliberately narrow so
// that malformed lines in hand- or agent-edited documents are skipped
// rather than failing the whole parse.
var taskLineRe = regexp.MustCompile(`^\s*[-*] \[([ xX])\] (.*)$`)

// tagRe matches tag tokens like +name or +name(arg) at the start of the
// text or after whitespace.
var tagRe = regexp.MustCompile(`(^|\s)\+([A-Za-z][A-Za-z0-9_-]*)(?:\(([^)]*)\))?`)

// Parse extracts the ordered task list from an issue document. Lines that
// do not match the checklist pattern are ignored; a document with no
// checklist lines yields an empty slice, never an error.
func Parse(doc string) []Task {
	var tasks []Task

	for lineNo, line := range strings.Split(doc, "\n") {
		m := taskLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		text := m[2]
		tasks = append(tasks, Task{
			Index:     len(tasks),
			Text:      text,
			Completed: m[1] == "x" || m[1] == "X",
			Tags:      parseTags(text),
			line:      lineNo,
		})
	}

	return tasks
}

// parseTags extracts tag tokens from a task's display text in appearance
// order. The tokens stay part of the text so the original formatting
// round-trips through a parse.
func parseTags(text string) []Tag {
	var tags []Tag
	for _, m := range tagRe.FindAllStringSubmatch(text, -1) {
		tags = append(tags, Tag{Name: m[2], Arg: m[3]})
	}
	return tags
}
