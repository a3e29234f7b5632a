// Package parser reads SKILL.md manifests.
//
// A manifest is YAML frontmatter between "---" delimiters followed by a
// markdown body. Parse splits and decodes the text, Load locates the
// manifest file inside a skill directory, and ReadProperties projects the
// decoded mapping into model.SkillProperties.
package parser
