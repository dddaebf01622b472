package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/tesso57/rssss/internal/domain/journal"
	"github.com/tesso57/rssss/internal/domain/subscription"
	"github.com/tesso57/rssss/internal/domain/versioning"
)

const timeLayout = "2006-01-02 15:04"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func renderDocument(doc *subscription.Document, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(singleLine(doc.Title)))
	b.WriteString("\n")
	if !doc.Modified.IsZero() {
		b.WriteString(faintStyle.Render("updated " + doc.Modified.Local().Format(timeLayout)))
		b.WriteString("\n")
	}
	if doc.Len() == 0 {
		b.WriteString("No subscriptions")
		return b.String()
	}

	rows := make([][]string, 0, doc.Len())
	for i, e := range doc.Entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			truncate(singleLine(e.Title), width),
			truncate(e.FeedURL, width),
			truncate(e.SiteURL, width),
			string(e.Kind),
			truncate(e.Category, width),
		})
	}
	b.WriteString(newTable("#", "Title", "Feed", "Site", "Kind", "Category").Rows(rows...).String())
	return b.String()
}

func renderCheckpoints(checkpoints []versioning.Checkpoint) string {
	t := newTable("ID", "When", "Author", "Message")
	for _, c := range checkpoints {
		t.Row(c.ID.Short(), formatTime(c.When), c.Author.Name, truncate(singleLine(c.Message), 60))
	}
	return t.String()
}

func renderEvents(events []journal.Event) string {
	t := newTable("When", "Op", "Feed", "Detail")
	for _, ev := range events {
		subject := ev.FeedURL
		if subject == "" {
			subject = ev.Title
		}
		t.Row(formatTime(ev.At), string(ev.Op), truncate(subject, 48), truncate(singleLine(ev.Detail), 48))
	}
	return t.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(faintStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// singleLine collapses whitespace into single spaces.
func singleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// truncate trims text to width cells with an ellipsis.
func truncate(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Truncate(text, width, "...")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
