package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/klauern/skills-cli/internal/cli"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := cli.Execute(context.Background(), append([]string{"skills"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestCLIInitialization(t *testing.T) {
	output, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("CLI initialization failed: %v", err)
	}

	if !strings.Contains(output, "skills") {
		t.Errorf("expected help output to contain 'skills', got: %q", output)
	}
	if !strings.Contains(output, "USAGE") || !strings.Contains(output, "COMMANDS") {
		t.Errorf("expected help output to contain USAGE and COMMANDS sections, got: %q", output)
	}
}

func TestVersionFlag(t *testing.T) {
	output, _, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version flag failed: %v", err)
	}
	if !strings.HasPrefix(output, "skills version ") {
		t.Errorf("expected version output, got: %q", output)
	}
}

func TestGlobalFlagsRecognized(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr bool
	}{
		"verbose flag":  {args: []string{"--verbose", "version"}},
		"debug flag":    {args: []string{"--debug", "version"}},
		"log-json flag": {args: []string{"--log-json", "version"}},
		"no-color flag": {args: []string{"--no-color", "version"}},
		"combined flags": {
			args: []string{"--verbose", "--no-color", "--log-json", "version"},
		},
		"unknown flag": {args: []string{"--frobnicate", "version"}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHelpSubcommand(t *testing.T) {
	output, _, err := run(t, "help")
	if err != nil {
		t.Fatalf("help subcommand failed: %v", err)
	}
	if !strings.Contains(output, "to-prompt") {
		t.Errorf("expected help output to list commands, got: %q", output)
	}
}

func TestExitStatus(t *testing.T) {
	_, _, err := run(t, "validate", "/nonexistent/skill")

	var stderr bytes.Buffer
	if code := cli.HandleError(&stderr, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if stderr.Len() != 0 {
		t.Errorf("validate prints its own report, got %q", stderr.String())
	}

	_, _, err = run(t, "read-properties", "/nonexistent/skill")
	stderr.Reset()
	if code := cli.HandleError(&stderr, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr.String(), "Error: SKILL.md not found in ") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
