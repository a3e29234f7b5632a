package parser

import (
	"strings"

	"github.com/klauern/skills-cli/internal/model"
)

// ReadProperties reads the manifest in dir and projects it into SkillProperties.
// Name and description must be present non-blank strings; both are trimmed.
// Optional fields are copied when present and non-null.
func ReadProperties(dir string) (model.SkillProperties, error) {
	m, _, err := Load(dir)
	if err != nil {
		return model.SkillProperties{}, err
	}
	return Properties(m)
}

// Properties projects an already parsed manifest into SkillProperties.
func Properties(m *Manifest) (model.SkillProperties, error) {
	for _, key := range []string{model.FieldName, model.FieldDescription} {
		if !m.Has(key) {
			return model.SkillProperties{}, model.NewManifestError(model.KindMissingField, nil,
				"Missing required field in frontmatter: %s", key)
		}
	}

	name, err := requiredString(m, model.FieldName)
	if err != nil {
		return model.SkillProperties{}, err
	}
	description, err := requiredString(m, model.FieldDescription)
	if err != nil {
		return model.SkillProperties{}, err
	}

	props := model.SkillProperties{
		Name:          name,
		Description:   description,
		License:       optionalString(m, model.FieldLicense),
		Compatibility: optionalString(m, model.FieldCompatibility),
		AllowedTools:  optionalString(m, model.FieldAllowedTools),
		Metadata:      map[string]string{},
	}

	switch md := m.Fields[model.FieldMetadata].(type) {
	case nil:
	case map[string]string:
		props.Metadata = md
	default:
		return model.SkillProperties{}, model.NewManifestError(model.KindInvalidFieldType, nil,
			"Field 'metadata' must be a mapping")
	}

	return props, nil
}

func requiredString(m *Manifest, key string) (string, error) {
	s, ok := m.String(key)
	if !ok || strings.TrimSpace(s) == "" {
		return "", model.NewManifestError(model.KindInvalidFieldType, nil,
			"Field '%s' must be a non-empty string", key)
	}
	return strings.TrimSpace(s), nil
}

// optionalString returns nil for absent or null values and renders
// non-string scalars as text.
func optionalString(m *Manifest, key string) *string {
	v, ok := m.Fields[key]
	if !ok || v == nil {
		return nil
	}
	return model.Ptr(stringify(v))
}
