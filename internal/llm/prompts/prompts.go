// Package prompts holds the instruction templates sent with every request.
package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"snapsolve/internal/models"
)

//go:embed prompts.yaml
var embeddedPrompts []byte

type entry struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Set is a parsed prompt file with one system/user pair per mode.
type Set struct {
	system map[models.Mode]string
	user   map[models.Mode]*template.Template
}

// Data is what the user templates can reference. Problem is only set in
// debug mode.
type Data struct {
	Language string
	Problem  *models.Problem
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
	defaultErr  error
)

// Default returns the built-in prompt set.
func Default() (*Set, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Parse(embeddedPrompts)
	})
	return defaultSet, defaultErr
}

// Parse reads a prompt file. Both modes must be present.
func Parse(raw []byte) (*Set, error) {
	var doc map[string]entry
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	set := &Set{
		system: make(map[models.Mode]string),
		user:   make(map[models.Mode]*template.Template),
	}
	funcs := template.FuncMap{"inc": func(i int) int { return i + 1 }}
	for _, mode := range []models.Mode{models.ModeInitial, models.ModeDebug} {
		e, ok := doc[string(mode)]
		if !ok {
			return nil, fmt.Errorf("prompts for mode %q are missing", mode)
		}
		if strings.TrimSpace(e.System) == "" || strings.TrimSpace(e.User) == "" {
			return nil, fmt.Errorf("prompts for mode %q are incomplete", mode)
		}
		tmpl, err := template.New(string(mode)).Funcs(funcs).Option("missingkey=error").Parse(e.User)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", mode, err)
		}
		set.system[mode] = strings.TrimSpace(e.System)
		set.user[mode] = tmpl
	}
	return set, nil
}

// Render returns the system instruction and user text for mode.
func (s *Set) Render(mode models.Mode, data Data) (string, string, error) {
	tmpl, ok := s.user[mode]
	if !ok {
		return "", "", fmt.Errorf("unknown mode %q", mode)
	}
	if strings.TrimSpace(data.Language) == "" {
		return "", "", errors.New("language is required")
	}
	if mode == models.ModeDebug && data.Problem == nil {
		return "", "", errors.New("debug prompt requires a problem")
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s prompt: %w", mode, err)
	}
	return s.system[mode], strings.TrimSpace(b.String()), nil
}
