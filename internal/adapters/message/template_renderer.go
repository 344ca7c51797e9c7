package message

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"activitycheckin/internal/domain"
)

//go:embed templates/*.txt
var templateFS embed.FS

// templateRenderer implements domain.MessageRenderer using embedded template files.
type templateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates folder once.
func NewTemplateRenderer() (domain.MessageRenderer, error) {
	t, err := template.New("").Option("missingkey=error").ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse message templates: %w", err)
	}
	return &templateRenderer{templates: t}, nil
}

// Render executes the named template (one of the domain.Template* names) and returns the trimmed text.
func (r *templateRenderer) Render(templateName string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, templateName+".txt", data); err != nil {
		return "", fmt.Errorf("render %s: %w", templateName, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
