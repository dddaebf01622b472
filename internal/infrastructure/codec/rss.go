package codec

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"github.com/tesso57/rssss/internal/domain/subscription"
	"go.uber.org/zap"
)

// kindDomain marks the category that carries a non-default entry kind.
const kindDomain = "kind"

var rssVersions = []string{"0.91", "0.92", "2.0"}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	PubDate       string    `xml:"pubDate,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description,omitempty"`
	Categories  []rssCategory `xml:"category"`
}

type rssCategory struct {
	Domain string `xml:"domain,attr,omitempty"`
	Value  string `xml:",chardata"`
}

// RssCodec stores subscriptions as the items of an RSS channel:
// title is the entry title, link the feed URL and description the site URL.
type RssCodec struct {
	log *zap.Logger
}

// NewRssCodec creates an RSS channel codec.
func NewRssCodec(log *zap.Logger) RssCodec {
	return RssCodec{log: nopIfNil(log)}
}

// Format implements Codec.
func (RssCodec) Format() Format {
	return FormatRSS
}

// Parse reads an RSS channel document.
func (c RssCodec) Parse(text string) (*subscription.Document, error) {
	log := nopIfNil(c.log)
	if strings.TrimSpace(text) == "" {
		return nil, &subscription.ParseError{Reason: "empty document", Offset: -1}
	}
	fp := rss.Parser{}
	feed, err := fp.Parse(strings.NewReader(text))
	if err != nil {
		return nil, markupError(err, -1)
	}

	version := strings.TrimSpace(feed.Version)
	if version == "" {
		return nil, &subscription.ParseError{Reason: "missing rss version attribute", Offset: -1}
	}
	if !slices.Contains(rssVersions, version) {
		return nil, &subscription.ParseError{Reason: fmt.Sprintf("unsupported rss version %q", version), Offset: -1}
	}

	doc := &subscription.Document{
		Version:  version,
		Title:    strings.TrimSpace(feed.Title),
		Created:  parsedOrRead(log, "pubDate", feed.PubDateParsed, feed.PubDate),
		Modified: parsedOrRead(log, "lastBuildDate", feed.LastBuildDateParsed, feed.LastBuildDate),
	}

	seen := map[string]bool{}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		feedURL := strings.TrimSpace(item.Link)
		if feedURL == "" {
			log.Warn("skipping item without link", zap.String("title", item.Title))
			continue
		}
		opts := subscription.EntryOptions{SiteURL: item.Description}
		for _, cat := range item.Categories {
			if cat == nil {
				continue
			}
			switch strings.TrimSpace(cat.Domain) {
			case kindDomain:
				opts.Kind = subscription.ParseKind(cat.Value)
			case "":
				if opts.Category == "" {
					opts.Category = cat.Value
				}
			}
		}
		appendEntry(log, doc, seen, subscription.NewEntry(firstNonEmpty(item.Title, feedURL), feedURL, opts))
	}

	return doc, nil
}

// Serialize writes doc as an RSS 2.0 channel.
func (RssCodec) Serialize(doc *subscription.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("serialize rss: document is nil")
	}
	version := doc.Version
	if version == "" {
		version = subscription.DefaultVersion
	}
	raw := rssDocument{
		Version: version,
		Channel: rssChannel{
			Title:         doc.Title,
			Description:   doc.Title,
			PubDate:       formatDate(doc.Created),
			LastBuildDate: formatDate(doc.Modified),
			Items:         make([]rssItem, 0, len(doc.Entries)),
		},
	}
	for _, e := range doc.Entries {
		item := rssItem{
			Title:       e.Title,
			Link:        e.FeedURL,
			Description: e.SiteURL,
		}
		if e.Category != "" {
			item.Categories = append(item.Categories, rssCategory{Value: e.Category})
		}
		if e.Kind != "" && e.Kind != subscription.KindRSS {
			item.Categories = append(item.Categories, rssCategory{Domain: kindDomain, Value: string(e.Kind)})
		}
		raw.Channel.Items = append(raw.Channel.Items, item)
	}
	out, err := marshal(raw)
	if err != nil {
		return "", fmt.Errorf("serialize rss: %w", err)
	}
	return out, nil
}

func parsedOrRead(log *zap.Logger, field string, parsed *time.Time, raw string) time.Time {
	if parsed != nil {
		return parsed.UTC()
	}
	return readDate(log, field, raw)
}
