// Package codec reads and writes subscription documents in their on-disk formats.
package codec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/tesso57/rssss/internal/domain/subscription"
	"go.uber.org/zap"
)

// Format names an on-disk serialization of a subscription document.
type Format string

const (
	// FormatOPML is an OPML outline list.
	FormatOPML Format = "opml"
	// FormatRSS is an RSS channel whose items are the subscriptions.
	FormatRSS Format = "rss"
)

// ErrUnknownFormat is returned for format names or documents that match no codec.
var ErrUnknownFormat = errors.New("unknown document format")

// Codec converts between document text and the subscription model.
type Codec interface {
	Format() Format
	Parse(text string) (*subscription.Document, error)
	Serialize(doc *subscription.Document) (string, error)
}

// ForFormat returns the codec configured for name.
func ForFormat(name string, log *zap.Logger) (Codec, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatOPML, "":
		return NewOpmlCodec(log), nil
	case FormatRSS:
		return NewRssCodec(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Detect reports which format an existing document is written in.
func Detect(text string) (Format, error) {
	if gofeed.DetectFeedType(strings.NewReader(text)) == gofeed.FeedTypeRSS {
		return FormatRSS, nil
	}
	if rootElement(text) == "opml" {
		return FormatOPML, nil
	}
	return "", ErrUnknownFormat
}

func rootElement(text string) string {
	dec := xml.NewDecoder(strings.NewReader(text))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if start, ok := tok.(xml.StartElement); ok {
			return strings.ToLower(start.Name.Local)
		}
	}
}

// Dates are written in RFC 1123 form with a numeric zone, in UTC, at second precision.
const dateLayout = time.RFC1123Z

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func readDate(log *zap.Logger, field, value string) time.Time {
	t, ok := parseDate(value)
	if !ok {
		log.Warn("ignoring unparsable date", zap.String("field", field), zap.String("value", value))
	}
	return t
}

func marshal(v any) (string, error) {
	var b strings.Builder
	b.WriteString(xml.Header)
	enc := xml.NewEncoder(&b)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	b.WriteString("\n")
	return b.String(), nil
}

func markupError(err error, offset int64) *subscription.ParseError {
	if errors.Is(err, io.EOF) {
		return &subscription.ParseError{Reason: "empty document", Offset: -1}
	}
	return &subscription.ParseError{Reason: "malformed markup", Offset: offset, Err: err}
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// appendEntry adds a parsed entry, keeping the first occurrence of a feed URL.
func appendEntry(log *zap.Logger, doc *subscription.Document, seen map[string]bool, entry subscription.Entry) {
	if seen[entry.FeedURL] {
		log.Warn("skipping duplicate subscription",
			zap.String("feed_url", entry.FeedURL),
			zap.String("title", entry.Title))
		return
	}
	seen[entry.FeedURL] = true
	doc.Entries = append(doc.Entries, entry)
}
