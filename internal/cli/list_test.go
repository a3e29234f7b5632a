package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/skills-cli/internal/discovery"
)

func TestListCommand(t *testing.T) {
	claude := t.TempDir()
	codex := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing")

	writeTestSkill(t, claude, "pdf-tools", strings.Repeat("x", 70))
	writeTestSkill(t, claude, "db-admin", "Manages databases")
	broken := filepath.Join(claude, "broken")
	if err := os.MkdirAll(broken, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(broken, "SKILL.md"), []byte("no frontmatter\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	writeTestSkill(t, codex, "notes", "Takes notes")

	t.Setenv("SKILLS_DIRS", strings.Join([]string{claude, missing, codex}, string(os.PathListSeparator)))

	stdout, _, err := runCLI(t, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}

	want := "\n" + claude + ":\n" +
		"  broken: (invalid skill)\n" +
		"  db-admin: Manages databases\n" +
		"  pdf-tools: " + strings.Repeat("x", 60) + "\n" +
		"\n" + codex + ":\n" +
		"  notes: Takes notes\n"
	if stdout != want {
		t.Errorf("stdout =\n%q\nwant\n%q", stdout, want)
	}
}

func TestListCommand_Path(t *testing.T) {
	dir := t.TempDir()
	writeTestSkill(t, dir, "only-here", "Listed via --path")
	t.Setenv("SKILLS_DIRS", t.TempDir())

	stdout, _, err := runCLI(t, "list", "--path", dir)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if stdout != "\n"+dir+":\n  only-here: Listed via --path\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	t.Setenv("SKILLS_DIRS", filepath.Join(t.TempDir(), "none"))

	stdout, _, err := runCLI(t, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if stdout != "No skills installed.\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestListCommand_InteractiveWithoutTerminal(t *testing.T) {
	dir := t.TempDir()
	writeTestSkill(t, dir, "plain", "Printed without a terminal")

	stdout, _, err := runCLI(t, "list", "-i", "-p", dir)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(stdout, "  plain: Printed without a terminal") {
		t.Errorf("expected plain listing, got %q", stdout)
	}
}

func TestPrintInstalled_NoGroups(t *testing.T) {
	var b strings.Builder
	printInstalled(&b, []discovery.Group{})
	if b.String() != "No skills installed.\n" {
		t.Errorf("output = %q", b.String())
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := map[string]struct {
		in   string
		n    int
		want string
	}{
		"short":     {in: "abc", n: 5, want: "abc"},
		"exact":     {in: "abcde", n: 5, want: "abcde"},
		"cut":       {in: "abcdef", n: 5, want: "abcde"},
		"multibyte": {in: "日本語のテキスト", n: 3, want: "日本語"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := truncateRunes(tt.in, tt.n); got != tt.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
