package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Display version and build information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := stdout(cmd)
			_, _ = fmt.Fprintf(out, "skills version %s\n", Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", Commit)
			_, _ = fmt.Fprintf(out, "  built: %s\n", BuildDate)
			_, _ = fmt.Fprintf(out, "  go: %s\n", runtime.Version())
			return nil
		},
	}
}
