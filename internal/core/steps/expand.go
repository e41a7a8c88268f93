package steps

import (
	"strings"

	"github.com/colonyops/docket/internal/core/task"
)

// argPlaceholder is the substitution token inside step templates.
const argPlaceholder = "{arg}"

// Expander materializes the concrete steps a tagged task implies. The
// result is presentation data recomputed on demand; it is never written
// back into the document and never affects completion tracking.
type Expander struct {
	registry *Registry
}

// NewExpander creates an expander backed by the given registry.
func NewExpander(registry *Registry) *Expander {
	return &Expander{registry: registry}
}

// Expand returns the ordered steps for a task's tags, concatenated in
// tag-appearance order. Tags missing from the registry contribute nothing;
// a task without tags expands to nil. The input task is never mutated.
func (e *Expander) Expand(t task.Task) []string {
	var out []string

	for _, tag := range t.Tags {
		templates, ok := e.registry.TemplatesFor(tag.Name)
		if !ok {
			continue
		}
		for _, tmpl := range templates {
			out = append(out, renderStep(tmpl, tag.Arg))
		}
	}

	return out
}

// renderStep substitutes the tag argument into a template. Templates pass
// through verbatim when no argument was supplied.
func renderStep(tmpl, arg string) string {
	if arg == "" {
		return tmpl
	}
	return strings.ReplaceAll(tmpl, argPlaceholder, arg)
}
