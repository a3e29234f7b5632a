package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skills-cli/internal/discovery"
	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/parser"
	"github.com/klauern/skills-cli/internal/progress"
	"github.com/klauern/skills-cli/internal/ui"
	"github.com/klauern/skills-cli/internal/ui/tui"
	"github.com/klauern/skills-cli/internal/util"
)

// listDescriptionWidth is how many characters of a description the plain
// listing shows.
const listDescriptionWidth = 60

// listCommand returns the list command.
func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List installed skills",
		UsageText: "skills list [options]",
		Description: `List the skills installed in each configured skills directory
   (skills_dirs in the config, or SKILLS_DIRS).

   With --interactive and a terminal, opens a browser where skills can be
   filtered and inspected.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Specific skills directory to list",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Browse skills interactively",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dirs := configFrom(ctx).Dirs()
			if p := cmd.String("path"); p != "" {
				dirs = []string{util.ExpandHome(p)}
			}

			groups := discovery.ListInstalled(dirs)
			out := stdout(cmd)
			if cmd.Bool("interactive") {
				if progress.IsTerminal(out) {
					return runBrowser(out, groups)
				}
				logging.Debug("stdout is not a terminal, printing plain list")
			}
			printInstalled(out, groups)
			return nil
		},
	}
}

// printInstalled writes the plain listing: a heading per skills directory
// followed by one line per skill.
func printInstalled(out io.Writer, groups []discovery.Group) {
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(out, "No skills installed.")
		return
	}

	for _, g := range groups {
		_, _ = fmt.Fprintf(out, "\n%s\n", ui.Header(g.Root+":"))
		for _, s := range g.Skills {
			if !s.Valid() {
				_, _ = fmt.Fprintf(out, "  %s: %s\n", s.Name(), ui.Dim("(invalid skill)"))
				continue
			}
			_, _ = fmt.Fprintf(out, "  %s: %s\n", ui.Bold(s.Name()),
				truncateRunes(s.Properties.Description, listDescriptionWidth))
		}
	}
}

// truncateRunes keeps the first n characters of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func runBrowser(out io.Writer, groups []discovery.Group) error {
	result, err := tui.RunBrowser(groups)
	if err != nil {
		return fmt.Errorf("interactive list failed: %w", err)
	}

	switch result.Action {
	case tui.BrowserActionShow:
		path := parser.FindManifest(result.Item.Skill.Dir)
		if path == "" {
			return fmt.Errorf("SKILL.md not found in %s", result.Item.Skill.Dir)
		}
		// #nosec G304 - path is a manifest inside an installed skill
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		_, _ = out.Write(data)
	case tui.BrowserActionPath:
		_, _ = fmt.Fprintln(out, result.Item.Skill.Dir)
	}
	return nil
}
