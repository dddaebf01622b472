// Package cli implements the rssss command line.
//
// Commands operate on one subscription file per invocation. Running several
// invocations against the same file or repository at once is not supported.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/tesso57/rssss/internal/infrastructure/store"
)

// CLI is the command line grammar.
type CLI struct {
	Config  string `help:"Config file path (default ~/.config/rssss/config.yaml)" type:"path"`
	Verbose bool   `short:"v" help:"Log progress at info level"`

	Add        AddCmd        `cmd:"" help:"Subscribe to a feed"`
	Remove     RemoveCmd     `cmd:"" help:"Unsubscribe from a feed"`
	List       ListCmd       `cmd:"" help:"Show subscriptions"`
	Auto       AutoCmd       `cmd:"" aliases:"bootstrap" help:"Create the default subscription list when missing"`
	CopyToFile CopyToFileCmd `cmd:"" name:"copy-to-file" help:"Copy the subscription list to a file or directory"`
	Upload     UploadCmd     `cmd:"" aliases:"sync" help:"Commit the subscription list and push it"`
	Log        LogCmd        `cmd:"" help:"Show recent checkpoints"`
	History    HistoryCmd    `cmd:"" help:"Show recent operations"`
	Browse     BrowseCmd     `cmd:"" aliases:"tui" help:"Browse and edit subscriptions interactively"`
}

// Run parses args, runs the selected command and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var root CLI
	exitCode := -1
	parser, err := kong.New(&root,
		kong.Name("rssss"),
		kong.Description("Manage an RSS subscription list and keep it in git."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "rssss: %v\n", err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		parser.Errorf("%v", err)
		return 2
	}

	level := ""
	if root.Verbose {
		level = "info"
	}
	app, err := NewApp(root.Config, level, stdout)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "rssss: %v\n", err)
		return 1
	}
	defer func() { _ = app.Close() }()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(app); err != nil {
		_, _ = fmt.Fprintf(stderr, "rssss: %v\n", err)
		if errors.Is(err, store.ErrNotFound) {
			_, _ = fmt.Fprintln(stderr, "hint: run `rssss auto` to create the default list")
		}
		return 1
	}
	return 0
}
