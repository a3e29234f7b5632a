package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skills-cli/internal/config"
	"github.com/klauern/skills-cli/internal/ui"
)

// configCommand returns the config command group.
func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show and manage configuration",
		Description: `Show the effective configuration (file, environment and defaults merged)
   or the location of the config file.

   The config file is $SKILLS_HOME/config.yaml (default ~/.config/skills),
   or config.toml when only that exists.`,
		Commands: []*cli.Command{
			configShowCommand(),
			configPathCommand(),
			configInitCommand(),
		},
	}
}

func configShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the effective configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   config.FormatYAML,
				Usage:   "Output format: yaml, toml, json",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := configFrom(ctx).Marshal(cmd.String("format"))
			if err != nil {
				return err
			}
			_, err = stdout(cmd).Write(data)
			return err
		},
	}
}

func configPathCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Print the config file location",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintln(stdout(cmd), configFilePath(cmd))
			return err
		},
	}
}

func configInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a config file with the default settings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runConfigInit(stdout(cmd), configFilePath(cmd), cmd.Bool("force"))
		},
	}
}

func runConfigInit(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}
	if err := config.Default().SaveToPath(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	_, _ = fmt.Fprintln(out, ui.Success("Created: "+path))
	return nil
}

// configFilePath returns the --config path or the default config location.
func configFilePath(cmd *cli.Command) string {
	if p := cmd.String("config"); p != "" {
		return p
	}
	return config.FilePath()
}
