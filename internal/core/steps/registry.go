// Package steps expands tag-annotated tasks into concrete ordered steps
// using reusable step templates.
package steps

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// registryFile is the on-disk YAML shape for step templates.
type registryFile struct {
	Tags map[string][]string `yaml:"tags"`
}

// Registry maps a tag name to an ordered sequence of step templates.
// Lookup is exact-match; the sequence order in the source YAML is the
// display order of produced steps. Reference data loaded once per process.
type Registry struct {
	templates map[string][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: map[string][]string{}}
}

// DefaultRegistry returns a registry populated with the built-in templates.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// The embedded data is validated by tests, a parse failure here is a
	// packaging bug.
	if err := r.Merge(defaultTemplates); err != nil {
		panic(fmt.Sprintf("steps: embedded templates are invalid: %v", err))
	}
	return r
}

// Merge parses YAML template data and overlays it onto the registry.
// Tags already present are replaced wholesale, not appended to.
func (r *Registry) Merge(data []byte) error {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse step templates: %w", err)
	}

	for name, templates := range file.Tags {
		r.templates[name] = templates
	}

	return nil
}

// MergeFile overlays templates from a YAML file onto the registry.
func (r *Registry) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read step templates %s: %w", path, err)
	}
	return r.Merge(data)
}

// TemplatesFor returns the ordered templates for a tag name. The second
// return is false when the tag is unknown; callers treat that as zero
// contributed steps, not an error.
func (r *Registry) TemplatesFor(name string) ([]string, bool) {
	templates, ok := r.templates[name]
	return templates, ok
}
