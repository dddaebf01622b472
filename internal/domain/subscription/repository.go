package subscription

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

var fieldLabels = map[string]string{
	"Title":    "title",
	"FeedURL":  "feed url",
	"SiteURL":  "site url",
	"Kind":     "kind",
	"Category": "category",
}

func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
			return !strings.ContainsAny(fl.Field().String(), " \t\r\n")
		})
		_ = v.RegisterValidation("xmltext", func(fl validator.FieldLevel) bool {
			return isXMLText(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// isXMLText reports whether s is valid UTF-8 made only of XML 1.0 characters.
func isXMLText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

// Validate checks that an entry can be stored in a document.
func (e Entry) Validate() error {
	err := entryValidator().Struct(e)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return &InputError{Field: label, Message: "is empty"}
	case "nowhitespace":
		return &InputError{Field: label, Message: "contains whitespace"}
	case "xmltext":
		return &InputError{Field: label, Message: "contains characters not allowed in XML"}
	default:
		return &InputError{Field: label, Message: "failed " + fe.Tag() + " validation"}
	}
}

// Add appends entry to doc unless an entry with the same feed URL already exists.
// It reports whether the document changed.
func Add(doc *Document, entry Entry) (bool, error) {
	if doc == nil {
		return false, errors.New("document is nil")
	}
	entry = NewEntry(entry.Title, entry.FeedURL, EntryOptions{
		SiteURL:  entry.SiteURL,
		Kind:     entry.Kind,
		Category: entry.Category,
	})
	if err := entry.Validate(); err != nil {
		return false, err
	}
	if _, ok := Find(doc, entry.FeedURL); ok {
		return false, nil
	}
	doc.Entries = append(doc.Entries, entry)
	return true, nil
}

// Remove deletes every entry whose feed URL equals feedURL and returns how many were removed.
func Remove(doc *Document, feedURL string) (int, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return 0, &InputError{Field: "feed url", Message: "is empty"}
	}
	return removeWhere(doc, func(e Entry) bool { return e.FeedURL == feedURL }), nil
}

// RemoveByTitle deletes every entry with the given title.
//
// Deprecated: entries are identified by feed URL; use Remove.
func RemoveByTitle(doc *Document, title string) (int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, &InputError{Field: "title", Message: "is empty"}
	}
	return removeWhere(doc, func(e Entry) bool { return e.Title == title }), nil
}

// Find returns the entry with the given feed URL.
func Find(doc *Document, feedURL string) (Entry, bool) {
	if doc == nil {
		return Entry{}, false
	}
	feedURL = strings.TrimSpace(feedURL)
	for _, e := range doc.Entries {
		if e.FeedURL == feedURL {
			return e, true
		}
	}
	return Entry{}, false
}

func removeWhere(doc *Document, match func(Entry) bool) int {
	if doc == nil {
		return 0
	}
	kept := doc.Entries[:0]
	removed := 0
	for _, e := range doc.Entries {
		if match(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed > 0 {
		clear(doc.Entries[len(kept):])
	}
	doc.Entries = kept
	return removed
}
