package parser

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/skills-cli/internal/model"
)

// Delimiter opens and closes the frontmatter block of a SKILL.md.
const Delimiter = "---"

// Manifest is a decoded SKILL.md: the frontmatter mapping and the markdown body.
type Manifest struct {
	// Fields holds the top-level frontmatter keys with their decoded values.
	// A "metadata" mapping, when present, is already coerced to map[string]string.
	Fields map[string]any
	// Body is the markdown after the closing delimiter, trimmed.
	Body string
}

// SplitFrontmatter separates the frontmatter text from the body.
// The content must start with the delimiter; the block ends at the next
// occurrence of the delimiter anywhere in the remainder.
func SplitFrontmatter(content string) (frontmatter, body string, err error) {
	if !strings.HasPrefix(content, Delimiter) {
		return "", "", model.NewManifestError(model.KindMissingFrontmatter, nil,
			"SKILL.md must start with YAML frontmatter (---)")
	}

	rest := content[len(Delimiter):]
	idx := strings.Index(rest, Delimiter)
	if idx == -1 {
		return "", "", model.NewManifestError(model.KindUnclosedFrontmatter, nil,
			"SKILL.md frontmatter not properly closed with ---")
	}

	return rest[:idx], strings.TrimSpace(rest[idx+len(Delimiter):]), nil
}

// DecodeFrontmatter decodes the frontmatter text into a top-level mapping.
// Empty input and scalar or sequence documents are rejected.
func DecodeFrontmatter(frontmatter string) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(frontmatter), &doc); err != nil {
		return nil, model.NewManifestError(model.KindInvalidYAML, err,
			"Invalid YAML in frontmatter: %v", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, model.NewManifestError(model.KindNotAMapping, nil,
			"SKILL.md frontmatter must be a YAML mapping")
	}

	fields := make(map[string]any, len(root.Content)/2)
	if err := root.Decode(&fields); err != nil {
		return nil, model.NewManifestError(model.KindInvalidYAML, err,
			"Invalid YAML in frontmatter: %v", err)
	}

	if node := mappingValue(root, model.FieldMetadata); node != nil && node.Kind == yaml.MappingNode {
		fields[model.FieldMetadata] = nodeStringMap(node)
	} else if raw, ok := fields[model.FieldMetadata]; ok {
		if m, ok := asStringMap(raw); ok {
			fields[model.FieldMetadata] = m
		}
	}

	return fields, nil
}

// Parse splits and decodes SKILL.md content.
func Parse(content string) (*Manifest, error) {
	frontmatter, body, err := SplitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	fields, err := DecodeFrontmatter(frontmatter)
	if err != nil {
		return nil, err
	}

	return &Manifest{Fields: fields, Body: body}, nil
}

// Has reports whether key is present in the frontmatter, even with a null value.
func (m *Manifest) Has(key string) bool {
	_, ok := m.Fields[key]
	return ok
}

// String returns the value of key when it is a string.
func (m *Manifest) String(key string) (string, bool) {
	s, ok := m.Fields[key].(string)
	return s, ok
}

// Keys returns the frontmatter keys, sorted.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnexpectedFields returns the sorted keys that are not in model.AllowedFields.
func (m *Manifest) UnexpectedFields() []string {
	var extra []string
	for _, k := range m.Keys() {
		if !model.IsAllowedField(k) {
			extra = append(extra, k)
		}
	}
	return extra
}

// mappingValue returns the value node for key in a mapping node, following aliases.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return resolveAlias(mapping.Content[i+1])
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// nodeStringMap builds string keys and values from a mapping node. Scalars
// keep their source text, so "version: 1.0" stays "1.0".
func nodeStringMap(mapping *yaml.Node) map[string]string {
	out := make(map[string]string, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := resolveAlias(mapping.Content[i])
		out[key.Value] = nodeText(resolveAlias(mapping.Content[i+1]))
	}
	return out
}

func nodeText(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		if n.ShortTag() == "!!null" {
			return ""
		}
		return n.Value
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return ""
	}
	return stringify(v)
}

// asStringMap coerces a decoded YAML mapping into string keys and values.
func asStringMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = stringify(val)
		}
		return out, true
	case map[any]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = stringify(val)
		}
		return out, true
	default:
		return nil, false
	}
}

// stringify renders a decoded scalar as text. Null becomes the empty string.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
