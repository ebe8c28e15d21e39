// Package assets provides the embedded workflow banner and starter configuration.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

// LoadTemplate returns the raw content of an embedded template by file name.
func LoadTemplate(name string) (string, error) {
	data, err := templatesFS.ReadFile(path.Join("templates", name))
	if err != nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	return string(data), nil
}

// RenderTemplate executes an embedded template with data.
func RenderTemplate(name string, data any) (string, error) {
	content, err := LoadTemplate(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %q: %w", name, err)
	}
	return buf.String(), nil
}

// Banner renders the header comment placed at the top of every generated
// workflow, without a trailing newline.
func Banner(version string) (string, error) {
	out, err := RenderTemplate("banner.txt.tmpl", struct{ Version string }{Version: version})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// StarterConfig renders the .upptimerc.yml written by `init`.
func StarterConfig(owner, repo string) (string, error) {
	return RenderTemplate("upptimerc.yml", struct{ Owner, Repo string }{Owner: owner, Repo: repo})
}
