package handler

import (
	"embed"
	"html/template"
	"net/url"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
}

// NavItem is one entry of the side panel.
type NavItem struct {
	Label string
	Href  string
}

// pageData is shared by every page rendered inside the layout.
type pageData struct {
	Title     string
	Nav       []NavItem
	Active    string
	Collapsed bool
	Alerts    []string
}
