package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/parser"
	"github.com/klauern/skills-cli/internal/prompt"
	"github.com/klauern/skills-cli/internal/ui"
	"github.com/klauern/skills-cli/internal/validation"
)

// validateCommand returns the validate command.
func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a skill directory",
		UsageText: "skills validate <skill-path>",
		Description: `Check a skill directory against the Agent Skills format and print every
   violation. A path to SKILL.md means its directory.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			path, err := requireArg(cmd, "skill-path")
			if err != nil {
				return err
			}
			return runValidate(stdout(cmd), stderr(cmd), path)
		},
	}
}

func runValidate(out, errOut io.Writer, path string) error {
	dir := skillDirArg(path)

	violations := validation.Validate(dir)
	if len(violations) > 0 {
		_, _ = fmt.Fprintln(errOut, ui.Error(fmt.Sprintf("Validation failed for %s:", dir)))
		for _, v := range violations {
			_, _ = fmt.Fprintf(errOut, "  - %s\n", v)
		}
		return reportedError{err: fmt.Errorf("validation failed for %s: %w", dir, validation.Error(violations))}
	}

	_, _ = fmt.Fprintln(out, ui.Success("Valid skill: "+dir))
	return nil
}

// readPropertiesCommand returns the read-properties command.
func readPropertiesCommand() *cli.Command {
	return &cli.Command{
		Name:      "read-properties",
		Usage:     "Read skill properties as JSON",
		UsageText: "skills read-properties <skill-path>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path, err := requireArg(cmd, "skill-path")
			if err != nil {
				return err
			}
			return runReadProperties(stdout(cmd), path)
		},
	}
}

func runReadProperties(out io.Writer, path string) error {
	props, err := parser.ReadProperties(skillDirArg(path))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(props); err != nil {
		return fmt.Errorf("failed to encode properties: %w", err)
	}
	_, err = out.Write(buf.Bytes())
	return err
}

// toPromptCommand returns the to-prompt command.
func toPromptCommand() *cli.Command {
	return &cli.Command{
		Name:      "to-prompt",
		Usage:     "Generate available skills for agent prompts",
		UsageText: "skills to-prompt [options] <skill-path>...",
		Description: `Render an available-skills block for a system prompt from one or more
   skill directories, in the order given.

   Examples:
     skills to-prompt ~/.claude/skills/*
     skills to-prompt --format json ./pdf-tools ./db-admin`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(prompt.FormatXML),
				Usage:   "Output format: xml, yaml, json",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return errors.New("missing required argument: skill-path")
			}
			return runToPrompt(stdout(cmd), cmd.Args().Slice(), cmd.String("format"))
		},
	}
}

func runToPrompt(out io.Writer, paths []string, format string) error {
	f, err := prompt.ParseFormat(format)
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		dirs = append(dirs, skillDirArg(p))
	}

	logging.With(logging.Format(string(f))).Debug("rendering prompt", logging.Count(len(dirs)))
	rendered, err := prompt.Render(dirs, f)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}

// resolvePath makes path absolute and resolves symlinks when it exists.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// skillDirArg resolves a command argument naming a skill directory or its
// SKILL.md file.
func skillDirArg(path string) string {
	return parser.ResolveSkillDir(resolvePath(path))
}
