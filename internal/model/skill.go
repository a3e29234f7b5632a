// Package model defines the data types shared across the skills CLI.
package model

// Manifest file names, checked in priority order.
const (
	ManifestFileName      = "SKILL.md"
	ManifestFileNameLower = "skill.md"
)

// Field limits from the Agent Skills format.
const (
	MaxNameLength          = 64
	MaxDescriptionLength   = 1024
	MaxCompatibilityLength = 500
)

// Frontmatter keys.
const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldLicense       = "license"
	FieldCompatibility = "compatibility"
	FieldAllowedTools  = "allowed-tools"
	FieldMetadata      = "metadata"
)

// AllowedFields lists the only top-level keys permitted in SKILL.md frontmatter, sorted.
var AllowedFields = []string{
	FieldAllowedTools,
	FieldCompatibility,
	FieldDescription,
	FieldLicense,
	FieldMetadata,
	FieldName,
}

// IsAllowedField reports whether key is a recognized frontmatter key.
func IsAllowedField(key string) bool {
	for _, f := range AllowedFields {
		if f == key {
			return true
		}
	}
	return false
}

// SkillProperties is the typed projection of a skill's SKILL.md frontmatter.
// Optional fields are nil when absent so they are omitted on serialization.
type SkillProperties struct {
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description" yaml:"description"`
	License       *string           `json:"license,omitempty" yaml:"license,omitempty"`
	Compatibility *string           `json:"compatibility,omitempty" yaml:"compatibility,omitempty"`
	AllowedTools  *string           `json:"allowed-tools,omitempty" yaml:"allowed-tools,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LicenseOr returns the license, or def when absent.
func (p SkillProperties) LicenseOr(def string) string {
	if p.License == nil {
		return def
	}
	return *p.License
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// PromptEntry describes one skill in an available-skills prompt block.
// Location is the absolute path of the manifest file.
type PromptEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Location    string `json:"location" yaml:"location"`
}
