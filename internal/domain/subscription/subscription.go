// Package subscription defines feed subscription models.
package subscription

import (
	"slices"
	"strings"
	"time"
)

// Kind identifies the syndication format of a subscribed feed.
type Kind string

const (
	// KindRSS is the default kind for new entries.
	KindRSS Kind = "rss"
	// KindAtom marks an Atom feed.
	KindAtom Kind = "atom"
)

// ParseKind maps an outline type attribute to a Kind. Empty input yields KindRSS.
func ParseKind(s string) Kind {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return KindRSS
	}
	return k
}

// DefaultTitle is the list title used by DefaultDocument.
const DefaultTitle = "Your Subscription List"

// DefaultVersion is the document version written for new lists.
const DefaultVersion = "2.0"

// Entry represents a single feed subscription.
type Entry struct {
	Title    string `validate:"required,xmltext"`
	FeedURL  string `validate:"required,nowhitespace,xmltext"`
	SiteURL  string `validate:"omitempty,nowhitespace,xmltext"`
	Kind     Kind   `validate:"xmltext"`
	Category string `validate:"xmltext"`
}

// EntryOptions holds the optional fields of an Entry.
type EntryOptions struct {
	SiteURL  string
	Kind     Kind
	Category string
}

// NewEntry builds an Entry from its required fields plus options.
// Text fields are trimmed and the kind is normalized with ParseKind.
func NewEntry(title, feedURL string, opts EntryOptions) Entry {
	return Entry{
		Title:    strings.TrimSpace(title),
		FeedURL:  strings.TrimSpace(feedURL),
		SiteURL:  strings.TrimSpace(opts.SiteURL),
		Kind:     ParseKind(string(opts.Kind)),
		Category: strings.TrimSpace(opts.Category),
	}
}

// Document is an ordered subscription list plus list-level metadata.
// A zero Created or Modified means the value is absent.
type Document struct {
	Version  string
	Title    string
	Created  time.Time
	Modified time.Time
	Entries  []Entry
}

// DefaultDocument returns the seed list written on first run.
func DefaultDocument() *Document {
	return new(Document{
		Version: DefaultVersion,
		Title:   DefaultTitle,
		Entries: []Entry{
			NewEntry("24 ways", "http://feeds.feedburner.com/24ways", EntryOptions{SiteURL: "http://24ways.org/"}),
		},
	})
}

// Len returns the number of entries.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}

// FeedURLs returns the feed addresses in document order.
func (d *Document) FeedURLs() []string {
	if d == nil {
		return nil
	}
	urls := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		urls = append(urls, e.FeedURL)
	}
	return urls
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Entries = slices.Clone(d.Entries)
	return &out
}

// Equal reports whether two documents hold the same metadata and entries in the same order.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Version != other.Version || d.Title != other.Title {
		return false
	}
	if !d.Created.Equal(other.Created) || !d.Modified.Equal(other.Modified) {
		return false
	}
	return slices.Equal(d.Entries, other.Entries)
}

// Groups returns entries bucketed by category, in order of first appearance.
// Uncategorized entries are collected under the empty name.
func (d *Document) Groups() []FeedGroup {
	if d == nil {
		return nil
	}
	var groups []FeedGroup
	index := map[string]int{}
	for _, e := range d.Entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, FeedGroup{Name: e.Category})
		}
		groups[i].Feeds = append(groups[i].Feeds, e.FeedURL)
	}
	return groups
}

// FeedGroup represents a named collection of feed URLs.
type FeedGroup struct {
	Name  string
	Feeds []string
}
