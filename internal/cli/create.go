package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skills-cli/internal/template"
	"github.com/klauern/skills-cli/internal/ui"
	"github.com/klauern/skills-cli/internal/util"
)

// createCommand returns the create command for scaffolding a new skill.
func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"new"},
		Usage:     "Create a new skill scaffold",
		UsageText: "skills create [options] <name>",
		Description: `Create a skill directory containing a SKILL.md template and empty
   scripts/, references/ and assets/ directories.

   The name must be lowercase letters, digits and single hyphens.

   Examples:
     skills create pdf-tools
     skills create --path ~/.claude/skills --template workflow release-notes
     skills create --template-file ./team.tmpl onboarding`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Directory to create skill in (default: current directory)",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Value:   string(template.Basic),
				Usage:   "Scaffold template: basic, workflow, utility",
			},
			&cli.StringFlag{
				Name:  "template-file",
				Usage: "Render SKILL.md from a Go text/template file instead",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Description written into the frontmatter",
			},
			&cli.BoolFlag{
				Name:  "list-templates",
				Usage: "Print the built-in template names and exit",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool("list-templates") {
				return runListTemplates(stdout(cmd))
			}
			name, err := requireArg(cmd, "name")
			if err != nil {
				return err
			}
			return runCreate(stdout(cmd), createOptions{
				Name:        name,
				Path:        cmd.String("path"),
				Template:    cmd.String("template"),
				File:        cmd.String("template-file"),
				Description: cmd.String("description"),
			})
		},
	}
}

type createOptions struct {
	Name        string
	Path        string
	Template    string
	File        string
	Description string
}

// customTemplate names a template loaded with --template-file.
const customTemplate = "custom"

func runCreate(out io.Writer, opts createOptions) error {
	typ, err := template.ParseTemplateType(opts.Template)
	if err != nil {
		return err
	}

	dest := opts.Path
	if dest == "" {
		dest, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	gen, err := template.New()
	if err != nil {
		return err
	}
	if opts.File != "" {
		if err := gen.LoadCustomTemplate(customTemplate, util.ExpandHome(opts.File)); err != nil {
			return err
		}
		typ = customTemplate
	}

	dir, err := gen.Create(dest, typ, template.TemplateData{
		Name:        opts.Name,
		Description: opts.Description,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, ui.Success("Created skill scaffold: "+dir))
	return nil
}

func runListTemplates(out io.Writer) error {
	gen, err := template.New()
	if err != nil {
		return err
	}
	for _, name := range gen.ListTemplates() {
		_, _ = fmt.Fprintln(out, name)
	}
	return nil
}
