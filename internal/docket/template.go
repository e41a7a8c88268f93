package docket

import (
	_ "embed"
	"os"

	"github.com/colonyops/docket/pkg/tmpl"
)

//go:embed newissue.md.tmpl
var defaultIssueTemplate string

// DocumentData is the data available to new-issue document templates.
type DocumentData struct {
	Title string
	Body  string
	Tasks []string
}

// RenderDocument renders a fresh issue document. templatePath selects a
// user template file; empty means the built-in one.
func RenderDocument(templatePath string, data DocumentData) (string, error) {
	source := defaultIssueTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return "", err
		}
		source = string(raw)
	}

	return tmpl.Render(source, data)
}
