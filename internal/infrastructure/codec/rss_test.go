package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesso57/rssss/internal/domain/subscription"
)

func TestRssParseChannel(t *testing.T) {
	text := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>My feeds</title>
    <link>https://example.com</link>
    <description>feeds I follow</description>
    <lastBuildDate>Tue, 03 Feb 2026 12:00:00 +0000</lastBuildDate>
    <item>
      <title>24 ways</title>
      <link>http://feeds.feedburner.com/24ways</link>
      <description>http://24ways.org/</description>
    </item>
    <item>
      <title>Go</title>
      <link>https://go.dev/blog/feed.atom</link>
      <category>Tech</category>
      <category domain="kind">atom</category>
    </item>
  </channel>
</rss>`

	doc, err := NewRssCodec(nil).Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "2.0", doc.Version)
	assert.Equal(t, "My feeds", doc.Title)
	assert.True(t, doc.Modified.Equal(time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)))
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "http://24ways.org/", doc.Entries[0].SiteURL)
	assert.Equal(t, subscription.KindRSS, doc.Entries[0].Kind)
	assert.Equal(t, subscription.KindAtom, doc.Entries[1].Kind)
	assert.Equal(t, "Tech", doc.Entries[1].Category)
}

func TestRssParseSkipsItemsWithoutLink(t *testing.T) {
	log, logs := warnLogger()
	text := `<rss version="2.0"><channel><title>x</title>
  <item><title>orphan</title></item>
  <item><link>https://example.com/feed</link></item>
</channel></rss>`

	doc, err := NewRssCodec(log).Parse(text)
	require.NoError(t, err)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "https://example.com/feed", doc.Entries[0].Title)
	assert.Equal(t, 1, logs.FilterMessage("skipping item without link").Len())
}

func TestRssParseErrors(t *testing.T) {
	c := NewRssCodec(nil)

	_, err := c.Parse("  ")
	assertParseError(t, err, "empty document")

	_, err = c.Parse(`<rss><channel><title>x</title></channel></rss>`)
	assertParseError(t, err, "missing rss version")

	_, err = c.Parse(`<rss version="9.9"><channel><title>x</title></channel></rss>`)
	assertParseError(t, err, `unsupported rss version "9.9"`)

	_, err = c.Parse(seedOPML)
	assertParseError(t, err, "malformed markup")
}

func TestRssSerializeOmitsDefaultKind(t *testing.T) {
	out, err := NewRssCodec(nil).Serialize(subscription.DefaultDocument())
	require.NoError(t, err)

	assert.Contains(t, out, `<rss version="2.0">`)
	assert.Contains(t, out, "<link>http://feeds.feedburner.com/24ways</link>")
	assert.Contains(t, out, "<description>http://24ways.org/</description>")
	assert.NotContains(t, out, `domain="kind"`)
}
