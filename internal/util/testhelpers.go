//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to a file in the test directory
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// WriteSkill writes a SKILL.md with the given name and description into dir
// and returns dir. Extra frontmatter lines are inserted verbatim before the
// closing delimiter.
func WriteSkill(t *testing.T, dir, name, description string, extra ...string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("name: " + name + "\n")
	b.WriteString("description: " + description + "\n")
	for _, line := range extra {
		b.WriteString(line + "\n")
	}
	b.WriteString("---\n\n# " + name + "\n\nInstructions.\n")
	WriteFile(t, filepath.Join(dir, "SKILL.md"), b.String())
	return dir
}
