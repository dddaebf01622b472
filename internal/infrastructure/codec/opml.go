package codec

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"github.com/tesso57/rssss/internal/domain/subscription"
	"go.uber.org/zap"
)

var opmlVersions = []string{"1.0", "1.1", "2.0"}

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title        string `xml:"title"`
	DateCreated  string `xml:"dateCreated,omitempty"`
	DateModified string `xml:"dateModified,omitempty"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr,omitempty"`
	Type     string        `xml:"type,attr,omitempty"`
	XMLURL   string        `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string        `xml:"htmlUrl,attr,omitempty"`
	Category string        `xml:"category,attr,omitempty"`
	Outlines []opmlOutline `xml:"outline"`
}

// OpmlCodec reads and writes OPML subscription lists.
type OpmlCodec struct {
	log *zap.Logger
}

// NewOpmlCodec creates an OPML codec. Skipped outlines are reported on log.
func NewOpmlCodec(log *zap.Logger) OpmlCodec {
	return OpmlCodec{log: nopIfNil(log)}
}

// Format implements Codec.
func (OpmlCodec) Format() Format {
	return FormatOPML
}

// Parse reads an OPML document. Nested folder outlines are flattened and their
// text becomes the category of the feeds they contain.
func (c OpmlCodec) Parse(text string) (*subscription.Document, error) {
	log := nopIfNil(c.log)
	dec := xml.NewDecoder(strings.NewReader(text))
	var raw opmlDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, markupError(err, dec.InputOffset())
	}

	version := strings.TrimSpace(raw.Version)
	if version == "" {
		return nil, &subscription.ParseError{Reason: "missing opml version attribute", Offset: -1}
	}
	if !slices.Contains(opmlVersions, version) {
		return nil, &subscription.ParseError{Reason: fmt.Sprintf("unsupported opml version %q", version), Offset: -1}
	}

	doc := &subscription.Document{
		Version: version,
		Title:   strings.TrimSpace(raw.Head.Title),
	}
	doc.Created = readDate(log, "dateCreated", raw.Head.DateCreated)
	doc.Modified = readDate(log, "dateModified", raw.Head.DateModified)

	seen := map[string]bool{}
	var walk func(outlines []opmlOutline, folder string)
	walk = func(outlines []opmlOutline, folder string) {
		for _, o := range outlines {
			feedURL := strings.TrimSpace(o.XMLURL)
			name := firstNonEmpty(o.Text, o.Title)
			if feedURL == "" {
				if len(o.Outlines) == 0 {
					log.Warn("skipping outline without xmlUrl", zap.String("text", name))
					continue
				}
				walk(o.Outlines, joinCategory(folder, name))
				continue
			}
			category := strings.TrimSpace(o.Category)
			if category == "" {
				category = folder
			}
			appendEntry(log, doc, seen, subscription.NewEntry(firstNonEmpty(name, feedURL), feedURL, subscription.EntryOptions{
				SiteURL:  o.HTMLURL,
				Kind:     subscription.ParseKind(o.Type),
				Category: category,
			}))
			if len(o.Outlines) > 0 {
				walk(o.Outlines, folder)
			}
		}
	}
	walk(raw.Body.Outlines, "")

	return doc, nil
}

// Serialize writes doc as OPML. Every entry becomes a flat outline; categories
// are kept in the category attribute.
func (OpmlCodec) Serialize(doc *subscription.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("serialize opml: document is nil")
	}
	version := doc.Version
	if version == "" {
		version = subscription.DefaultVersion
	}
	raw := opmlDocument{
		Version: version,
		Head: opmlHead{
			Title:        doc.Title,
			DateCreated:  formatDate(doc.Created),
			DateModified: formatDate(doc.Modified),
		},
	}
	raw.Body.Outlines = make([]opmlOutline, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		kind := e.Kind
		if kind == "" {
			kind = subscription.KindRSS
		}
		raw.Body.Outlines = append(raw.Body.Outlines, opmlOutline{
			Text:     e.Title,
			Title:    e.Title,
			Type:     string(kind),
			XMLURL:   e.FeedURL,
			HTMLURL:  e.SiteURL,
			Category: e.Category,
		})
	}
	out, err := marshal(raw)
	if err != nil {
		return "", fmt.Errorf("serialize opml: %w", err)
	}
	return out, nil
}

func joinCategory(parent, name string) string {
	name = strings.TrimSpace(name)
	switch {
	case parent == "":
		return name
	case name == "":
		return parent
	default:
		return parent + "/" + name
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
