package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tesso57/rssss/internal/domain/subscription"
)

// Item is a list view model for one subscription.
type Item struct {
	TitleText string
	FeedURL   string
	SiteURL   string
	Category  string
}

// FilterValue implements list.Item.
func (i *Item) FilterValue() string { return i.TitleText + " " + i.FeedURL }

// Title returns the item title.
func (i *Item) Title() string { return i.TitleText }

// Description returns the feed URL, prefixed by the category when set.
func (i *Item) Description() string {
	if i.Category != "" {
		return fmt.Sprintf("[%s] %s", i.Category, i.FeedURL)
	}
	return i.FeedURL
}

// BuildItems builds list items for the document entries.
func BuildItems(doc *subscription.Document) []list.Item {
	if doc == nil {
		return nil
	}
	items := make([]list.Item, len(doc.Entries))
	for i, e := range doc.Entries {
		items[i] = &Item{
			TitleText: fmt.Sprintf("%d. %s", i+1, e.Title),
			FeedURL:   e.FeedURL,
			SiteURL:   e.SiteURL,
			Category:  e.Category,
		}
	}
	return items
}
