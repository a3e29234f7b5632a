package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateCommand(t *testing.T) {
	root := t.TempDir()
	valid := realPath(t, writeTestSkill(t, root, "pdf-tools", "Extract text from PDF files"))

	invalid := filepath.Join(root, "wrong-dir")
	if err := os.MkdirAll(invalid, 0o750); err != nil {
		t.Fatal(err)
	}
	content := "---\nname: Bad--Name\ndescription: d\ncolor: blue\n---\n"
	if err := os.WriteFile(filepath.Join(invalid, "SKILL.md"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	invalid = realPath(t, invalid)

	tests := map[string]struct {
		path       string
		wantErr    bool
		wantStdout string
		wantStderr []string
	}{
		"valid directory": {
			path:       valid,
			wantStdout: "Valid skill: " + valid + "\n",
		},
		"manifest file means its directory": {
			path:       filepath.Join(valid, "SKILL.md"),
			wantStdout: "Valid skill: " + valid + "\n",
		},
		"all violations listed": {
			path:    invalid,
			wantErr: true,
			wantStderr: []string{
				"Validation failed for " + invalid + ":\n",
				"  - Unexpected fields in frontmatter: color.",
				"  - Skill name 'Bad--Name' must be lowercase\n",
				"  - Skill name cannot contain consecutive hyphens\n",
				"  - Directory name 'wrong-dir' must match skill name 'Bad--Name'\n",
			},
		},
		"missing path": {
			path:       filepath.Join(root, "nope"),
			wantErr:    true,
			wantStderr: []string{"  - Path does not exist: "},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, "validate", tt.path)

			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Reported(err) {
				t.Error("validation failures are printed by the command")
			}
			if tt.wantStdout != "" && stdout != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr, want) {
					t.Errorf("stderr missing %q:\n%s", want, stderr)
				}
			}
		})
	}
}

func TestReadPropertiesCommand(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "pdf-tools")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	content := `---
name: pdf-tools
description: Extract <text> & tables
license: MIT
metadata:
  author: someone
---
`
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "read-properties", filepath.Join(dir, "SKILL.md"))
	if err != nil {
		t.Fatalf("read-properties error = %v", err)
	}

	want := `{
  "name": "pdf-tools",
  "description": "Extract <text> & tables",
  "license": "MIT",
  "metadata": {
    "author": "someone"
  }
}
`
	if stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, want)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := decoded["compatibility"]; ok {
		t.Error("absent fields must be omitted")
	}
}

func TestReadPropertiesCommand_Errors(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "no-desc")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("---\nname: no-desc\n---\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "read-properties", dir)
	if err == nil || err.Error() != "Missing required field in frontmatter: description" {
		t.Errorf("error = %v", err)
	}

	_, _, err = runCLI(t, "read-properties", root)
	if err == nil || !strings.HasPrefix(err.Error(), "SKILL.md not found in ") {
		t.Errorf("error = %v", err)
	}
}

func TestToPromptCommand(t *testing.T) {
	root := t.TempDir()
	first := realPath(t, writeTestSkill(t, root, "pdf-tools", "Extract text"))
	second := realPath(t, writeTestSkill(t, root, "db-admin", "Manage databases"))

	t.Run("xml default", func(t *testing.T) {
		stdout, _, err := runCLI(t, "to-prompt", second, filepath.Join(first, "SKILL.md"))
		if err != nil {
			t.Fatalf("to-prompt error = %v", err)
		}
		if !strings.HasPrefix(stdout, "<available_skills>\n") || !strings.HasSuffix(stdout, "</available_skills>\n") {
			t.Errorf("unexpected XML framing:\n%s", stdout)
		}
		if strings.Index(stdout, "db-admin") > strings.Index(stdout, "pdf-tools") {
			t.Error("skills must be rendered in argument order")
		}
		if !strings.Contains(stdout, filepath.Join(first, "SKILL.md")) {
			t.Errorf("expected absolute manifest location:\n%s", stdout)
		}
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := runCLI(t, "to-prompt", "--format", "json", first)
		if err != nil {
			t.Fatalf("to-prompt error = %v", err)
		}
		var doc struct {
			AvailableSkills []map[string]string `json:"available_skills"`
		}
		if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if len(doc.AvailableSkills) != 1 || doc.AvailableSkills[0]["name"] != "pdf-tools" {
			t.Errorf("unexpected document: %+v", doc)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, _, err := runCLI(t, "to-prompt", "-f", "yaml", first)
		if err != nil {
			t.Fatalf("to-prompt error = %v", err)
		}
		if !strings.HasPrefix(stdout, "available_skills:\n  - name: pdf-tools\n") {
			t.Errorf("unexpected YAML:\n%s", stdout)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, _, err := runCLI(t, "to-prompt", "-f", "toml", first)
		if err == nil || !strings.Contains(err.Error(), `invalid format "toml"`) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("invalid skill aborts", func(t *testing.T) {
		_, _, err := runCLI(t, "to-prompt", first, filepath.Join(root, "missing"))
		if err == nil || !strings.HasPrefix(err.Error(), "SKILL.md not found in ") {
			t.Errorf("error = %v", err)
		}
	})
}
