package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skills-cli/internal/config"
	"github.com/klauern/skills-cli/internal/install"
	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/progress"
	"github.com/klauern/skills-cli/internal/remote"
	"github.com/klauern/skills-cli/internal/ui"
	"github.com/klauern/skills-cli/internal/util"
)

// installCommand returns the install command.
func installCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Install a skill from local path, zip, or GitHub",
		UsageText: "skills install [options] <source>",
		Description: `Install every skill found in a local directory, a zip file, or a GitHub
   repository. Each skill is validated and copied to <dest>/<name>, replacing
   an existing install of the same name.

   Examples:
     skills install ./my-skill
     skills install skills.zip
     skills install https://github.com/owner/repo/tree/main/skills
     skills install --subpath document-skills github.com/owner/repo`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dest",
				Aliases: []string{"d"},
				Usage:   "Destination directory (default: first existing skills directory)",
			},
			&cli.StringFlag{
				Name:    "subpath",
				Aliases: []string{"s"},
				Usage:   "Subpath within repo to search for skills",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			source, err := requireArg(cmd, "source")
			if err != nil {
				return err
			}
			return runInstall(ctx, configFrom(ctx), stdout(cmd), stderr(cmd), source,
				cmd.String("dest"), cmd.String("subpath"))
		},
	}
}

func runInstall(ctx context.Context, cfg *config.Config, out, errOut io.Writer, source, dest, subpath string) error {
	if dest == "" {
		dest = install.DefaultDest(cfg.InstallDest(), cfg.Dirs())
	} else {
		dest = util.ExpandHome(dest)
	}
	if dest == "" {
		return errors.New("no install destination configured")
	}

	if install.Classify(source) != install.SourceGitHub {
		if abs, err := filepath.Abs(source); err == nil {
			source = abs
		}
	}

	downloader := remote.NewDownloader(remote.NewClient(cfg.HTTP.Timeout.Duration))
	downloader.BaseURL = cfg.GitHub.BaseURL
	downloader.DefaultBranch = cfg.GitHub.DefaultBranch
	downloader.FallbackBranch = cfg.GitHub.FallbackBranch

	var bar *progress.Bar
	installer := &install.Installer{
		Dest:          dest,
		Downloader:    downloader,
		DefaultBranch: cfg.GitHub.DefaultBranch,
		Out:           out,
		OnDiscovered: func(n int) {
			if n > 1 {
				bar = progress.New(progress.Options{
					Max:         int64(n),
					Description: "Installing skills",
					Writer:      errOut,
				})
			}
		},
		OnResult: func(res install.Result) {
			if bar != nil {
				_ = bar.Clear()
			}
			if res.Success() {
				_, _ = fmt.Fprintln(out, ui.Success(res.Message()))
			} else {
				_, _ = fmt.Fprintln(errOut, ui.Errorf("%s", res.Message()))
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		},
	}

	logging.WithContext(ctx).Debug("installing",
		logging.Operation("install"),
		logging.Source(source),
		logging.Path(dest),
	)
	_, err := installer.Install(ctx, source, subpath)
	if bar != nil {
		_ = bar.Finish()
	}
	if errors.Is(err, install.ErrSkillsFailed) {
		return reportedError{err: err}
	}
	return err
}
