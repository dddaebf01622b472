package subscription

import (
	"errors"
	"testing"
)

func TestAddAppendsInOrder(t *testing.T) {
	doc := DefaultDocument()

	added, err := Add(doc, NewEntry("Example Blog", "https://example.com/feed", EntryOptions{SiteURL: "https://example.com"}))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !added {
		t.Fatal("expected entry to be added")
	}

	want := []string{"http://feeds.feedburner.com/24ways", "https://example.com/feed"}
	got := doc.FeedURLs()
	if len(got) != len(want) {
		t.Fatalf("FeedURLs() = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FeedURLs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if doc.Entries[1].Kind != KindRSS {
		t.Fatalf("Kind = %q, want %q", doc.Entries[1].Kind, KindRSS)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	doc := &Document{Version: DefaultVersion}

	for i := range 2 {
		if _, err := Add(doc, NewEntry("T", "http://x/feed", EntryOptions{})); err != nil {
			t.Fatalf("Add #%d failed: %v", i, err)
		}
	}

	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
}

func TestAddDuplicateReportsNoChange(t *testing.T) {
	doc := DefaultDocument()
	before := doc.Clone()

	added, err := Add(doc, NewEntry("Other title", " http://feeds.feedburner.com/24ways ", EntryOptions{}))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added {
		t.Fatal("duplicate feed url should not be added")
	}
	if !doc.Equal(before) {
		t.Fatalf("document changed: %#v", doc)
	}
}

func TestAddKeepsFeedURLsUnique(t *testing.T) {
	doc := &Document{Version: DefaultVersion}
	urls := []string{"a", "b", "a", "c", "b", "a"}
	for _, u := range urls {
		if _, err := Add(doc, NewEntry("feed "+u, "https://example.com/"+u, EntryOptions{})); err != nil {
			t.Fatalf("Add(%q) failed: %v", u, err)
		}
	}

	seen := map[string]bool{}
	for _, e := range doc.Entries {
		if seen[e.FeedURL] {
			t.Fatalf("duplicate feed url %q", e.FeedURL)
		}
		seen[e.FeedURL] = true
	}
	if doc.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", doc.Len())
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		field string
	}{
		{name: "empty title", entry: NewEntry(" ", "https://example.com/feed", EntryOptions{}), field: "title"},
		{name: "empty feed url", entry: NewEntry("Example", "\t", EntryOptions{}), field: "feed url"},
		{name: "whitespace in feed url", entry: NewEntry("Example", "https://example.com/rss another", EntryOptions{}), field: "feed url"},
		{name: "whitespace in site url", entry: NewEntry("Example", "https://example.com/rss", EntryOptions{SiteURL: "https://example .com"}), field: "site url"},
		{name: "invalid utf-8 in title", entry: NewEntry("bad\xffname", "https://example.com/rss", EntryOptions{}), field: "title"},
		{name: "control character in title", entry: NewEntry("bad\x01name", "https://example.com/rss", EntryOptions{}), field: "title"},
		{name: "control character in feed url", entry: NewEntry("Example", "https://example.com/\x0brss", EntryOptions{}), field: "feed url"},
		{name: "invalid utf-8 in site url", entry: NewEntry("Example", "https://example.com/rss", EntryOptions{SiteURL: "https://\xfe.com"}), field: "site url"},
		{name: "control character in category", entry: NewEntry("Example", "https://example.com/rss", EntryOptions{Category: "Tech\x00"}), field: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{}
			_, err := Add(doc, tt.entry)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Add() error = %v, want ErrInvalidInput", err)
			}
			var inputErr *InputError
			if !errors.As(err, &inputErr) || inputErr.Field != tt.field {
				t.Fatalf("Add() error = %#v, want field %q", err, tt.field)
			}
			if doc.Len() != 0 {
				t.Fatalf("document should stay empty, got %d entries", doc.Len())
			}
		})
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	doc := DefaultDocument()
	before := doc.Clone()

	n, err := Remove(doc, "http://missing/feed")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("Remove() = %d, want 0", n)
	}
	if !doc.Equal(before) {
		t.Fatal("document changed after removing a missing feed")
	}
}

func TestRemoveDropsAllMatches(t *testing.T) {
	doc := &Document{Entries: []Entry{
		NewEntry("A", "https://a/feed", EntryOptions{}),
		NewEntry("B", "https://b/feed", EntryOptions{}),
		NewEntry("A again", "https://a/feed", EntryOptions{}),
	}}

	n, err := Remove(doc, "https://a/feed")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Remove() = %d, want 2", n)
	}
	if doc.Len() != 1 || doc.Entries[0].Title != "B" {
		t.Fatalf("unexpected entries: %#v", doc.Entries)
	}
}

func TestRemoveRejectsEmptyKey(t *testing.T) {
	if _, err := Remove(DefaultDocument(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Remove() error = %v, want ErrInvalidInput", err)
	}
}

func TestRemoveByTitle(t *testing.T) {
	doc := DefaultDocument()
	_, _ = Add(doc, NewEntry("Example Blog", "https://example.com/feed", EntryOptions{}))

	n, err := RemoveByTitle(doc, "24 ways")
	if err != nil {
		t.Fatalf("RemoveByTitle failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("RemoveByTitle() = %d, want 1", n)
	}
	if doc.Len() != 1 || doc.Entries[0].FeedURL != "https://example.com/feed" {
		t.Fatalf("unexpected entries: %#v", doc.Entries)
	}
}

func TestFind(t *testing.T) {
	doc := DefaultDocument()

	e, ok := Find(doc, "http://feeds.feedburner.com/24ways")
	if !ok {
		t.Fatal("expected to find seed entry")
	}
	if e.Title != "24 ways" || e.SiteURL != "http://24ways.org/" {
		t.Fatalf("unexpected entry: %#v", e)
	}

	if _, ok := Find(doc, "http://feeds.feedburner.com/24WAYS"); ok {
		t.Fatal("lookup should be an exact match")
	}
}
