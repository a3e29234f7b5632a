// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It includes test harness for running CLI commands, fixture management,
// and utilities for setting up isolated test environments.
package e2e

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/skills-cli/internal/cli"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Stderr contains the captured standard error, including the final
	// "Error: ..." line the binary would print.
	Stderr string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the exit code the binary would use.
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness provides a test harness for running E2E CLI tests.
// It manages environment isolation, temp directories, and output capture.
type Harness struct {
	t       *testing.T
	homeDir string
	env     map[string]string
}

// NewHarness creates a new E2E test harness.
// It sets up an isolated SKILLS_HOME and points the skills directories at
// .claude/skills and .codex/skills inside the test home.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	homeDir := t.TempDir()

	h := &Harness{
		t:       t,
		homeDir: homeDir,
		env:     make(map[string]string),
	}

	h.SetEnv("HOME", homeDir)
	h.SetEnv("SKILLS_HOME", filepath.Join(homeDir, ".config", "skills"))
	h.SetEnv("SKILLS_DIRS", strings.Join([]string{h.ClaudeSkillsDir(), h.CodexSkillsDir()}, string(os.PathListSeparator)))
	for _, key := range []string{"SKILLS_INSTALL_DEST", "SKILLS_GITHUB_URL", "SKILLS_OUTPUT_COLOR", "ANTHROPIC_API_URL", "ANTHROPIC_API_KEY"} {
		h.SetEnv(key, "")
	}

	return h
}

// SetEnv sets an environment variable for CLI commands run through this harness.
// The environment will be restored after the test completes.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.env[key] = value
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// ClaudeSkillsDir returns the first configured skills directory.
func (h *Harness) ClaudeSkillsDir() string {
	return filepath.Join(h.homeDir, ".claude", "skills")
}

// CodexSkillsDir returns the second configured skills directory.
func (h *Harness) CodexSkillsDir() string {
	return filepath.Join(h.homeDir, ".codex", "skills")
}

// Run executes a CLI command with the given arguments and captures the output.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	// Prepend "skills" as the program name if not provided
	if len(args) == 0 || args[0] != "skills" {
		args = append([]string{"skills"}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmdErr := cli.Execute(context.Background(), args, &stdout, &stderr)
	exitCode := cli.HandleError(&stderr, cmdErr)

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}

// RunIn executes a CLI command with dir as the working directory.
func (h *Harness) RunIn(dir string, args ...string) *Result {
	h.t.Helper()

	old, err := os.Getwd()
	if err != nil {
		h.t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		h.t.Fatalf("failed to change directory: %v", err)
	}
	defer func() {
		if err := os.Chdir(old); err != nil {
			h.t.Fatalf("failed to restore working directory: %v", err)
		}
	}()

	return h.Run(args...)
}
