package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/tesso57/rssss/internal/domain/subscription"
	"github.com/tesso57/rssss/internal/presentation/tui"
	"go.uber.org/zap"
)

// AddCmd subscribes to a feed.
type AddCmd struct {
	Title    string `required:"" help:"Feed title"`
	XMLLink  string `name:"xml-link" required:"" help:"Feed URL"`
	HTMLLink string `name:"html-link" help:"Site URL"`
	Kind     string `default:"rss" help:"Feed kind (rss/atom)"`
	Category string `help:"Category or folder"`
}

// Run executes the command.
func (c *AddCmd) Run(ctx context.Context, app *App) error {
	added, err := app.Subscriptions.Add(ctx, app.Settings.SubscriptionFile, c.Title, c.XMLLink, subscription.EntryOptions{
		SiteURL:  c.HTMLLink,
		Kind:     subscription.ParseKind(c.Kind),
		Category: c.Category,
	})
	if err != nil {
		return err
	}
	if !added {
		_, err = fmt.Fprintf(app.Out, "Already subscribed: %s\n", c.XMLLink)
		return err
	}
	_, err = fmt.Fprintf(app.Out, "Added %s (%s)\n", singleLine(c.Title), c.XMLLink)
	return err
}

// RemoveCmd unsubscribes from a feed.
type RemoveCmd struct {
	XMLLink string `name:"xml-link" xor:"key" help:"Feed URL to remove"`
	Title   string `xor:"key" help:"Remove by title (deprecated, titles are not unique)"`
}

// Run executes the command.
func (c *RemoveCmd) Run(ctx context.Context, app *App) error {
	var (
		removed int
		err     error
		key     = c.XMLLink
	)
	switch {
	case c.XMLLink != "":
		removed, err = app.Subscriptions.Remove(ctx, app.Settings.SubscriptionFile, c.XMLLink)
	case c.Title != "":
		key = c.Title
		app.Log.Warn("removing by title is deprecated, use --xml-link")
		removed, err = app.Subscriptions.RemoveByTitle(ctx, app.Settings.SubscriptionFile, c.Title)
	default:
		return errors.New("one of --xml-link or --title is required")
	}
	if err != nil {
		return err
	}
	if removed == 0 {
		_, err = fmt.Fprintf(app.Out, "No subscription matched %s\n", key)
		return err
	}
	_, err = fmt.Fprintf(app.Out, "Removed %d subscription(s)\n", removed)
	return err
}

// ListCmd shows subscriptions.
type ListCmd struct {
	Width int `default:"48" help:"Maximum column width"`
}

// Run executes the command.
func (c *ListCmd) Run(app *App) error {
	doc, err := app.Subscriptions.List(app.Settings.SubscriptionFile)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(app.Out, renderDocument(doc, c.Width))
	return err
}

// AutoCmd writes the default list when the file is missing.
type AutoCmd struct{}

// Run executes the command.
func (c *AutoCmd) Run(ctx context.Context, app *App) error {
	path := app.Settings.SubscriptionFile
	created, err := app.Subscriptions.Bootstrap(ctx, path)
	if err != nil {
		return err
	}
	if !created {
		_, err = fmt.Fprintf(app.Out, "%s already exists\n", path)
		return err
	}
	_, err = fmt.Fprintf(app.Out, "Created %s\n", path)
	return err
}

// CopyToFileCmd copies the list elsewhere.
type CopyToFileCmd struct {
	Target string `arg:"" type:"path" help:"Destination file or directory"`
}

// Run executes the command.
func (c *CopyToFileCmd) Run(ctx context.Context, app *App) error {
	written, err := app.Subscriptions.CopyTo(ctx, app.Settings.SubscriptionFile, c.Target)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.Out, "Copied to %s\n", written)
	return err
}

// UploadCmd commits and pushes the list.
type UploadCmd struct {
	Message string `short:"m" help:"Checkpoint message (default \"Update <file>\")"`
}

// Run executes the command.
func (c *UploadCmd) Run(ctx context.Context, app *App) error {
	target := app.SyncTarget()
	res, err := app.Sync.Sync(ctx, target, c.Message)
	if res.Initialized {
		_, _ = fmt.Fprintf(app.Out, "Initialized repository in %s\n", target.Dir)
	}
	if err != nil {
		return err
	}
	if res.Committed() {
		_, _ = fmt.Fprintf(app.Out, "Committed %s\n", res.Checkpoint.Short())
	} else {
		_, _ = fmt.Fprintln(app.Out, "No changes to commit")
	}
	if res.Pushed {
		_, err = fmt.Fprintf(app.Out, "Pushed to %s\n", target.RemoteName)
	} else {
		_, err = fmt.Fprintln(app.Out, "Push skipped: no remote configured")
	}
	return err
}

// LogCmd lists checkpoints.
type LogCmd struct {
	Limit int `short:"n" default:"10" help:"Number of checkpoints to show"`
}

// Run executes the command.
func (c *LogCmd) Run(app *App) error {
	checkpoints, err := app.Sync.History(app.Settings.SyncDir(), c.Limit)
	if err != nil {
		return err
	}
	if len(checkpoints) == 0 {
		_, err = fmt.Fprintln(app.Out, "No checkpoints yet")
		return err
	}
	_, err = fmt.Fprintln(app.Out, renderCheckpoints(checkpoints))
	return err
}

// HistoryCmd lists journaled operations.
type HistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Number of operations to show"`
}

// Run executes the command.
func (c *HistoryCmd) Run(ctx context.Context, app *App) error {
	events, err := app.History.Recent(ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		_, err = fmt.Fprintln(app.Out, "No history yet")
		return err
	}
	_, err = fmt.Fprintln(app.Out, renderEvents(events))
	return err
}

// BrowseCmd opens the interactive browser.
type BrowseCmd struct{}

// Run executes the command.
func (c *BrowseCmd) Run(ctx context.Context, app *App) error {
	// Log lines would corrupt the alternate screen; results show in the status line.
	subs, sync := app.Subscriptions, app.Sync
	subs.Log, sync.Log = zap.NewNop(), zap.NewNop()
	return tui.Run(ctx, tui.Options{
		Path:          app.Settings.SubscriptionFile,
		Subscriptions: subs,
		Sync:          sync,
		Target:        app.SyncTarget(),
		KeyMap:        app.Settings.KeyMap,
	})
}
