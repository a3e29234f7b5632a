// Package prompt renders installed skills into an available-skills block for
// an agent system prompt.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/skills-cli/internal/model"
	"github.com/klauern/skills-cli/internal/parser"
)

// Format selects the output encoding.
type Format string

const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported formats, default first.
var Formats = []Format{FormatXML, FormatYAML, FormatJSON}

// ParseFormat converts a flag value into a Format. Empty means XML.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXML:
		return FormatXML, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format %q (valid: xml, yaml, json)", s)
	}
}

// Document is the top-level structure of the YAML and JSON formats.
type Document struct {
	AvailableSkills []model.PromptEntry `json:"available_skills" yaml:"available_skills"`
}

// Entries reads each skill directory in order. Any read failure aborts.
func Entries(dirs []string) ([]model.PromptEntry, error) {
	entries := make([]model.PromptEntry, 0, len(dirs))
	for _, dir := range dirs {
		dir = resolve(dir)

		props, err := parser.ReadProperties(dir)
		if err != nil {
			return nil, err
		}

		entries = append(entries, model.PromptEntry{
			Name:        props.Name,
			Description: props.Description,
			Location:    parser.FindManifest(dir),
		})
	}
	return entries, nil
}

// Render reads the skills in dirs and renders them in the given format.
func Render(dirs []string, format Format) (string, error) {
	entries, err := Entries(dirs)
	if err != nil {
		return "", err
	}
	return RenderEntries(entries, format)
}

// RenderEntries renders already collected entries.
func RenderEntries(entries []model.PromptEntry, format Format) (string, error) {
	if entries == nil {
		entries = []model.PromptEntry{}
	}

	switch format {
	case FormatJSON:
		return renderJSON(entries)
	case FormatYAML:
		return renderYAML(entries)
	default:
		return renderXML(entries), nil
	}
}

func renderJSON(entries []model.PromptEntry) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{AvailableSkills: entries}); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func renderYAML(entries []model.PromptEntry) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Document{AvailableSkills: entries}); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.String(), nil
}

// renderXML writes one tag or value per line. Locations are local paths and
// are written unescaped.
func renderXML(entries []model.PromptEntry) string {
	lines := []string{"<available_skills>"}
	for _, e := range entries {
		lines = append(lines,
			"<skill>",
			"<name>", escape(e.Name), "</name>",
			"<description>", escape(e.Description), "</description>",
			"<location>", e.Location, "</location>",
			"</skill>",
		)
	}
	lines = append(lines, "</available_skills>")
	return strings.Join(lines, "\n")
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

func escape(s string) string {
	return escaper.Replace(s)
}

// resolve returns an absolute path with symlinks evaluated when possible.
func resolve(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
