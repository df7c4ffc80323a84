package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

var registry = map[string]struct{ subject, file string }{
	"welcome":          {"Welcome to TalentLink", "welcome.tmpl"},
	"student_verified": {"Your account was verified by a parent", "student_verified.tmpl"},
}

// Render renders a named template with data and returns subject, text
// and html bodies. Text is derived from the data's Text key when set.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	entry, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	t, err := htmpl.ParseFS(FS, entry.file)
	if err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	if v, ok := data["Text"]; ok {
		text = fmt.Sprintf("%v", v)
	}
	return entry.subject, text, buf.String(), nil
}
