// Command rssss manages an RSS subscription list and keeps it in git.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/tesso57/rssss/internal/presentation/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
