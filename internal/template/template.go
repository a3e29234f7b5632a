// Package template generates new skill scaffolds.
package template

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/model"
	"github.com/klauern/skills-cli/internal/parser"
	"github.com/klauern/skills-cli/internal/validation"
)

// TemplateType represents the type of skill template
type TemplateType string

const (
	Basic    TemplateType = "basic"
	Workflow TemplateType = "workflow"
	Utility  TemplateType = "utility"
)

// DefaultDescription is the placeholder description of a new scaffold.
const DefaultDescription = "TODO - describe what this skill does and when to use it."

// ScaffoldDirs are the empty resource directories created next to SKILL.md.
var ScaffoldDirs = []string{"scripts", "references", "assets"}

// TemplateData holds the data passed to templates
type TemplateData struct {
	Name         string
	Title        string
	Description  string
	License      string
	AllowedTools string
}

// funcs are available to built-in and custom templates. "yaml" renders a
// value as a YAML scalar, quoting it when plain text would not read back
// as the same string.
var funcs = template.FuncMap{
	"yaml": yamlScalar,
}

func yamlScalar(s string) string {
	out, err := yaml.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(string(out), "\n")
}

// Generator handles skill template generation
type Generator struct {
	templates map[TemplateType]*template.Template
}

// New creates a new template generator with built-in templates
func New() (*Generator, error) {
	g := &Generator{
		templates: make(map[TemplateType]*template.Template),
	}

	if err := g.loadBuiltinTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load built-in templates: %w", err)
	}

	return g, nil
}

func (g *Generator) loadBuiltinTemplates() error {
	templates := map[TemplateType]string{
		Basic:    basicTemplate,
		Workflow: workflowTemplate,
		Utility:  utilityTemplate,
	}

	for typ, content := range templates {
		tmpl, err := template.New(string(typ)).Funcs(funcs).Parse(content)
		if err != nil {
			return fmt.Errorf("failed to parse %s template: %w", typ, err)
		}
		g.templates[typ] = tmpl
	}

	return nil
}

// LoadCustomTemplate loads a custom template from a file
func (g *Generator) LoadCustomTemplate(name string, path string) error {
	// #nosec G304 - path is provided by the user on the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := template.New(name).Funcs(funcs).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	g.templates[TemplateType(name)] = tmpl
	return nil
}

// Generate renders a template. Title, Description and License are filled in
// when empty.
func (g *Generator) Generate(typ TemplateType, data TemplateData) (string, error) {
	tmpl, exists := g.templates[typ]
	if !exists {
		return "", fmt.Errorf("template %s not found", typ)
	}

	if data.Title == "" {
		data.Title = Title(data.Name)
	}
	if data.Description == "" {
		data.Description = DefaultDescription
	}
	if data.License == "" {
		data.License = "MIT"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ValidateGenerated checks that generated content is a valid skill manifest.
func (g *Generator) ValidateGenerated(content string) error {
	m, err := parser.Parse(content)
	if err != nil {
		return fmt.Errorf("generated content is not a valid skill: %w", err)
	}
	if err := validation.Error(validation.ValidateManifest(m, "")); err != nil {
		return fmt.Errorf("generated content is not a valid skill: %w", err)
	}
	return nil
}

// Create writes a new skill scaffold to <dest>/<name> and returns the
// skill directory. The name must satisfy the naming rules and the
// directory must not exist yet.
func (g *Generator) Create(dest string, typ TemplateType, data TemplateData) (string, error) {
	if err := validation.Error(validation.ValidateName(data.Name, "")); err != nil {
		return "", err
	}

	skillDir := filepath.Join(dest, data.Name)
	if _, err := os.Stat(skillDir); err == nil {
		//nolint:staticcheck // user-facing message
		return "", fmt.Errorf("Directory already exists: %s", skillDir)
	}

	content, err := g.Generate(typ, data)
	if err != nil {
		return "", err
	}
	if err := g.ValidateGenerated(content); err != nil {
		return "", err
	}

	// #nosec G301 - skill directories are meant to be shared
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create skill directory: %w", err)
	}

	// #nosec G306 - SKILL.md is not sensitive
	if err := os.WriteFile(filepath.Join(skillDir, model.ManifestFileName), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write skill file: %w", err)
	}

	for _, sub := range ScaffoldDirs {
		// #nosec G301
		if err := os.Mkdir(filepath.Join(skillDir, sub), 0o755); err != nil {
			return "", fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	logging.Debug("created skill scaffold",
		logging.Skill(data.Name),
		logging.Path(skillDir),
		slog.String("template", string(typ)),
	)
	return skillDir, nil
}

// Title turns a skill name into a heading: "pdf-tools" becomes "Pdf Tools".
func Title(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// ListTemplates returns the available template types in sorted order.
func (g *Generator) ListTemplates() []string {
	templates := make([]string, 0, len(g.templates))
	for typ := range g.templates {
		templates = append(templates, string(typ))
	}
	sort.Strings(templates)
	return templates
}

// ParseTemplateType parses a template type string. Empty means Basic.
func ParseTemplateType(s string) (TemplateType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "basic", "default":
		return Basic, nil
	case "workflow":
		return Workflow, nil
	case "utility", "util":
		return Utility, nil
	default:
		return "", fmt.Errorf("unknown template type %q (valid: basic, workflow, utility)", s)
	}
}
