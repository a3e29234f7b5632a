package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/klauern/skills-cli/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Run(ctx, os.Args)
	stop()
	os.Exit(cli.HandleError(os.Stderr, err))
}
