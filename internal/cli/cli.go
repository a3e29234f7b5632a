// Package cli provides the command-line interface for skills.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skills-cli/internal/config"
	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments,
// writing to the process stdout and stderr.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, os.Stdout, os.Stderr)
}

// Execute runs the CLI with explicit output streams.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	return newApp(stdout, stderr).Run(ctx, args)
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "skills",
		Usage:     "CLI tool for managing Agent Skills",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write log lines as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a config file (yaml or toml)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := configureLogging(cmd); err != nil {
				return ctx, err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, err
			}
			if err := configureColors(cmd, cfg); err != nil {
				return ctx, err
			}
			ctx = logging.NewContext(ctx, logging.Default())
			return withConfig(ctx, cfg), nil
		},
		Commands: []*cli.Command{
			createCommand(),
			installCommand(),
			zipCommand(),
			pushCommand(),
			validateCommand(),
			readPropertiesCommand(),
			toPromptCommand(),
			listCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

// configureColors applies the configured color mode; --no-color wins.
func configureColors(cmd *cli.Command, cfg *config.Config) error {
	if cmd.Bool("no-color") {
		ui.DisableColors()
		return nil
	}
	return ui.SetColorMode(cfg.Output.Color)
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()
	opts.Output = cmd.Root().ErrWriter
	opts.JSON = cmd.Bool("log-json")

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the config loaded by the root command, or defaults.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.Default()
}

// reportedError marks a failure whose details were already written to stderr.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// Reported reports whether the details of err were already printed, so the
// caller should only set the exit status.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// HandleError writes "Error: <msg>" for err unless its details were already
// printed, and returns the process exit code.
func HandleError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if !Reported(err) {
		_, _ = fmt.Fprintln(w, ui.Errorf("%v", err))
	}
	return 1
}

func stdout(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

func stderr(cmd *cli.Command) io.Writer {
	return cmd.Root().ErrWriter
}

// requireArg returns the first positional argument or a usage error.
func requireArg(cmd *cli.Command, name string) (string, error) {
	if cmd.NArg() < 1 {
		return "", fmt.Errorf("missing required argument: %s", name)
	}
	return cmd.Args().First(), nil
}
