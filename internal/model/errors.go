package model

import "fmt"

// ErrorKind classifies manifest read failures.
type ErrorKind string

const (
	KindMissingFrontmatter  ErrorKind = "MissingFrontmatter"
	KindUnclosedFrontmatter ErrorKind = "UnclosedFrontmatter"
	KindInvalidYAML         ErrorKind = "InvalidYAML"
	KindNotAMapping         ErrorKind = "NotAMapping"
	KindManifestNotFound    ErrorKind = "ManifestNotFound"
	KindMissingField        ErrorKind = "MissingField"
	KindInvalidFieldType    ErrorKind = "InvalidFieldType"
)

// Structural reports whether the kind is a frontmatter structure failure
// rather than a field-level one.
func (k ErrorKind) Structural() bool {
	switch k {
	case KindMissingFrontmatter, KindUnclosedFrontmatter, KindInvalidYAML, KindNotAMapping:
		return true
	default:
		return false
	}
}

// ManifestError is returned when a SKILL.md cannot be parsed or projected
// into SkillProperties. Error returns the user-facing message only.
type ManifestError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ManifestError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind.
func (e *ManifestError) Is(target error) bool {
	t, ok := target.(*ManifestError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrMissingFrontmatter  = &ManifestError{Kind: KindMissingFrontmatter}
	ErrUnclosedFrontmatter = &ManifestError{Kind: KindUnclosedFrontmatter}
	ErrInvalidYAML         = &ManifestError{Kind: KindInvalidYAML}
	ErrNotAMapping         = &ManifestError{Kind: KindNotAMapping}
	ErrManifestNotFound    = &ManifestError{Kind: KindManifestNotFound}
	ErrMissingField        = &ManifestError{Kind: KindMissingField}
	ErrInvalidFieldType    = &ManifestError{Kind: KindInvalidFieldType}
)

// NewManifestError builds a ManifestError with a formatted message.
func NewManifestError(kind ErrorKind, err error, format string, args ...any) *ManifestError {
	return &ManifestError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
