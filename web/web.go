// Package web holds the server-rendered page templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var Templates embed.FS

// ParseTemplates parses every page template; names are the file base names.
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(Templates, "templates/*.tmpl")
}
