// Package validation checks skill directories against the Agent Skills format.
//
// Validate never fails with an error value: every problem is reported as a
// human-readable violation string, in a fixed order, so the same input
// always produces the same list.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/model"
	"github.com/klauern/skills-cli/internal/parser"
)

// Validate checks the skill in dir and returns its violations.
// An empty result means the skill is valid.
func Validate(dir string) []string {
	info, err := os.Stat(dir)
	if err != nil {
		return []string{fmt.Sprintf("Path does not exist: %s", dir)}
	}
	if !info.IsDir() {
		return []string{fmt.Sprintf("Not a directory: %s", dir)}
	}

	if !parser.IsSkillDir(dir) {
		return []string{"Missing required file: " + model.ManifestFileName}
	}

	m, _, err := parser.Load(dir)
	if err != nil {
		return []string{err.Error()}
	}

	violations := ValidateManifest(m, dir)
	logging.Debug("validated skill",
		logging.Path(dir),
		logging.Count(len(violations)),
	)
	return violations
}

// ValidateManifest checks an already parsed manifest. When dir is not
// empty, the skill name must also match the directory's base name.
func ValidateManifest(m *parser.Manifest, dir string) []string {
	var violations []string

	if extra := m.UnexpectedFields(); len(extra) > 0 {
		violations = append(violations, fmt.Sprintf(
			"Unexpected fields in frontmatter: %s. Only %v are allowed.",
			strings.Join(extra, ", "), model.AllowedFields))
	}

	if !m.Has(model.FieldName) {
		violations = append(violations, missingField(model.FieldName))
	} else {
		violations = append(violations, checkName(m.Fields[model.FieldName], dir)...)
	}

	if !m.Has(model.FieldDescription) {
		violations = append(violations, missingField(model.FieldDescription))
	} else {
		violations = append(violations, checkDescription(m.Fields[model.FieldDescription])...)
	}

	if m.Has(model.FieldCompatibility) {
		violations = append(violations, checkCompatibility(m.Fields[model.FieldCompatibility])...)
	}

	if v, ok := m.Fields[model.FieldMetadata]; ok && v != nil {
		if _, isMap := v.(map[string]string); !isMap {
			violations = append(violations, "Field 'metadata' must be a mapping")
		}
	}

	return violations
}

// ValidateName applies the name rules to a candidate skill name.
// The directory check runs only when dir is not empty.
func ValidateName(name, dir string) []string {
	return checkName(name, dir)
}

// NormalizeName applies NFKC normalization and trims surrounding whitespace.
func NormalizeName(name string) string {
	return norm.NFKC.String(strings.TrimSpace(name))
}

// Error returns nil when violations is empty, otherwise an error carrying the
// first violation.
func Error(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return errors.New(violations[0])
}

func missingField(field string) string {
	return "Missing required field in frontmatter: " + field
}

func checkName(v any, dir string) []string {
	raw, ok := v.(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{"Field 'name' must be a non-empty string"}
	}

	var violations []string
	name := NormalizeName(raw)

	if n := utf8.RuneCountInString(name); n > model.MaxNameLength {
		violations = append(violations, fmt.Sprintf(
			"Skill name '%s' exceeds %d character limit (%d chars)", name, model.MaxNameLength, n))
	}

	if name != strings.ToLower(name) {
		violations = append(violations, fmt.Sprintf("Skill name '%s' must be lowercase", name))
	}

	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		violations = append(violations, "Skill name cannot start or end with a hyphen")
	}

	if strings.Contains(name, "--") {
		violations = append(violations, "Skill name cannot contain consecutive hyphens")
	}

	for _, r := range name {
		if r != '-' && !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			violations = append(violations, fmt.Sprintf(
				"Skill name '%s' contains invalid characters. Only letters, digits, and hyphens are allowed.", name))
			break
		}
	}

	if dir != "" {
		base := dirName(dir)
		if norm.NFKC.String(base) != name {
			violations = append(violations, fmt.Sprintf(
				"Directory name '%s' must match skill name '%s'", base, name))
		}
	}

	return violations
}

func checkDescription(v any) []string {
	desc, ok := v.(string)
	if !ok || strings.TrimSpace(desc) == "" {
		return []string{"Field 'description' must be a non-empty string"}
	}

	if n := utf8.RuneCountInString(desc); n > model.MaxDescriptionLength {
		return []string{fmt.Sprintf(
			"Description exceeds %d character limit (%d chars)", model.MaxDescriptionLength, n)}
	}
	return nil
}

func checkCompatibility(v any) []string {
	compat, ok := v.(string)
	if !ok {
		return []string{"Field 'compatibility' must be a string"}
	}

	if n := utf8.RuneCountInString(compat); n > model.MaxCompatibilityLength {
		return []string{fmt.Sprintf(
			"Compatibility exceeds %d character limit (%d chars)", model.MaxCompatibilityLength, n)}
	}
	return nil
}

// dirName returns the base name of dir, resolving relative paths such as "."
// so the comparison always sees a real directory name.
func dirName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return filepath.Base(abs)
	}
	return filepath.Base(dir)
}
