package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skills-cli/internal/archive"
	"github.com/klauern/skills-cli/internal/config"
	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/parser"
	"github.com/klauern/skills-cli/internal/progress"
	"github.com/klauern/skills-cli/internal/remote"
	"github.com/klauern/skills-cli/internal/security"
	"github.com/klauern/skills-cli/internal/ui"
	"github.com/klauern/skills-cli/internal/validation"
)

// zipCommand returns the zip command for packaging a skill.
func zipCommand() *cli.Command {
	return &cli.Command{
		Name:      "zip",
		Usage:     "Package a skill into a zip file",
		UsageText: "skills zip [options] <skill-path>",
		Description: `Validate a skill and write it to a zip archive. Entries are stored as
   <name>/<relative path>.

   Examples:
     skills zip ./pdf-tools
     skills zip --output dist/pdf-tools.zip ./pdf-tools`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output zip file path (default: <skill-name>.zip)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path, err := requireArg(cmd, "skill-path")
			if err != nil {
				return err
			}
			return runZip(stdout(cmd), stderr(cmd), path, cmd.String("output"))
		},
	}
}

func runZip(out, errOut io.Writer, path, output string) error {
	dir := resolvePath(path)
	if err := validation.Error(validation.Validate(dir)); err != nil {
		return err
	}

	props, err := parser.ReadProperties(dir)
	if err != nil {
		return err
	}

	if output == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		output = filepath.Join(cwd, props.Name+".zip")
	}

	files, err := archive.ListFiles(dir)
	if err != nil {
		return err
	}
	files = archive.Exclude(dir, files, output)
	bar := progress.New(progress.Options{
		Max:         int64(len(files)),
		Description: "Packaging " + props.Name,
		Writer:      errOut,
	})

	n, err := archive.CreateFile(output, dir, archive.CreateOptions{
		Prefix: props.Name,
		OnFile: func(string) { _ = bar.Add(1) },
	})
	if err != nil {
		_ = bar.Clear()
		return err
	}
	_ = bar.Finish()

	logging.Info("packaged skill", logging.Skill(props.Name), logging.Path(output), logging.Count(n))
	_, _ = fmt.Fprintln(out, ui.Success("Created: "+output))
	return nil
}

// pushCommand returns the push command for publishing a skill.
func pushCommand() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Push a skill to Anthropic API",
		UsageText: "skills push [options] <skill-path>",
		Description: `Validate a skill and upload it to the skills API. The API key is read
   from ANTHROPIC_API_KEY (see api.key_env in the config).

   Files are scanned for credentials before upload; findings are printed
   as warnings and never stop the upload.

   Examples:
     skills push ./pdf-tools
     skills push --update ./pdf-tools`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "update",
				Aliases: []string{"u"},
				Usage:   "Update existing skill instead of creating",
			},
			&cli.BoolFlag{
				Name:  "skip-scan",
				Usage: "Skip the sensitive content scan",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := requireArg(cmd, "skill-path")
			if err != nil {
				return err
			}
			cfg := configFrom(ctx)
			return runPush(ctx, stdout(cmd), stderr(cmd), pushOptions{
				Path:     path,
				Update:   cmd.Bool("update"),
				SkipScan: cmd.Bool("skip-scan"),
				APIKey:   cfg.APIKey(),
				KeyEnv:   cfg.API.KeyEnv,
				API:      cfg.API,
				Client:   remote.NewClient(cfg.HTTP.Timeout.Duration),
			})
		},
	}
}

type pushOptions struct {
	Path     string
	Update   bool
	SkipScan bool
	APIKey   string
	KeyEnv   string
	API      config.APIConfig
	Client   remote.Doer
}

func runPush(ctx context.Context, out, errOut io.Writer, opts pushOptions) error {
	if opts.APIKey == "" {
		env := opts.KeyEnv
		if env == "" {
			env = remote.DefaultAPIKeyEnv
		}
		return fmt.Errorf("%s environment variable not set", env)
	}

	dir := resolvePath(opts.Path)
	if err := validation.Error(validation.Validate(dir)); err != nil {
		return err
	}

	m, manifestPath, err := parser.Load(dir)
	if err != nil {
		return err
	}
	props, err := parser.Properties(m)
	if err != nil {
		return err
	}
	// #nosec G304 - manifest path was found inside the skill directory
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	files, err := remote.CollectFiles(dir)
	if err != nil {
		return err
	}

	log := logging.WithContext(ctx).With(logging.Operation("push"), logging.Skill(props.Name))
	if opts.SkipScan {
		log.Warn("sensitive content scan skipped")
	} else {
		for _, f := range security.ScanFiles(files, remote.Base64Prefix) {
			log.Debug("sensitive content", logging.Path(f.File), logging.Count(f.Line))
			_, _ = fmt.Fprintln(errOut, ui.Warningf("%s", f))
		}
	}

	publisher := remote.NewPublisher(opts.Client, opts.APIKey)
	if opts.API.BaseURL != "" {
		publisher.BaseURL = opts.API.BaseURL
	}
	if opts.API.Version != "" {
		publisher.Version = opts.API.Version
	}
	if opts.API.Beta != "" {
		publisher.Beta = opts.API.Beta
	}

	result, err := publisher.Publish(ctx, remote.Payload{
		Name:        props.Name,
		Description: props.Description,
		Content:     string(content),
		Files:       files,
	}, opts.Update)
	if err != nil {
		var httpErr *remote.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusConflict && !opts.Update {
			_, _ = fmt.Fprintln(errOut, ui.Error(fmt.Sprintf(
				"Skill '%s' already exists. Use --update to update it.", props.Name)))
			return reportedError{err: err}
		}
		return err
	}

	action := "Created"
	if opts.Update {
		action = "Updated"
	}
	_, _ = fmt.Fprintln(out, ui.Success(fmt.Sprintf("%s skill: %s", action, props.Name)))
	if result.ID != "" {
		_, _ = fmt.Fprintf(out, "Skill ID: %s\n", result.ID)
	}
	return nil
}
