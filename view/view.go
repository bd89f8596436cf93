// Package view renders templates by literal token substitution: every
// occurrence of {{ key }} is replaced by the context value for key.
package view

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Engine loads templates from a directory.
type Engine struct {
	Dir string
}

// New creates a view engine rooted at dir.
func New(dir string) *Engine {
	return &Engine{Dir: dir}
}

// Render loads a template by name and substitutes every {{ key }} token
// with its context value.
func (e *Engine) Render(name string, context map[string]any) (string, error) {
	path := filepath.Join(e.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("template %q not found in %s: %w", name, e.Dir, err)
	}

	out := string(data)
	for key, value := range context {
		re := regexp.MustCompile(`{{\s*` + regexp.QuoteMeta(key) + `\s*}}`)
		out = re.ReplaceAllLiteralString(out, fmt.Sprint(value))
	}
	return out, nil
}
