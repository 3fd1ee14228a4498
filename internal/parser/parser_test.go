
package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!doctype html><html lang="en"><head>
<title>
  Test   Page
</title>
<meta name="description" content="A short description">
<meta property="og:title" content="OG Title">
<meta property="og:type" content="article">
<meta property="og:image" content="">
<meta property="og:title" content="Duplicate">
<meta name="twitter:card" content="summary_large_image">
<meta property="twitter:title" content="Tw Title">
<link rel="canonical" href="https://example.com/test">
</head><body>
<h1>Hello</h1>
<p>Go is great for network services.</p>
</body></html>`

func TestExtract(t *testing.T) {
	page, err := New().Extract(strings.NewReader(sampleHTML), "text/html; charset=utf-8")
	require.NoError(t, err)

	require.Equal(t, "Test Page", page.Title)
	require.Equal(t, "A short description", page.Description)
	require.Equal(t, map[string]string{"og:title": "OG Title", "og:type": "article"}, page.OGTags)
	require.Equal(t, map[string]string{"twitter:card": "summary_large_image", "twitter:title": "Tw Title"}, page.TwitterTags)
	require.Equal(t, "https://example.com/test", page.Canonical)
	require.Equal(t, "en", page.Language)
}

func TestExtractFallsBackToOpenGraph(t *testing.T) {
	doc := `<html><head>
<meta property="og:title" content="Only OG">
<meta property="og:description" content="OG description">
<meta property="og:locale" content="fr_FR">
</head></html>`
	page, err := New().Extract(strings.NewReader(doc), "text/html")
	require.NoError(t, err)
	require.Equal(t, "Only OG", page.Title)
	require.Equal(t, "OG description", page.Description)
	require.Equal(t, "fr_FR", page.Language)
}

func TestExtractEmptyDocument(t *testing.T) {
	page, err := New().Extract(strings.NewReader(""), "")
	require.NoError(t, err)
	require.Empty(t, page.Title)
	require.Empty(t, page.Description)
	require.NotNil(t, page.OGTags)
	require.NotNil(t, page.TwitterTags)
}

func TestExtractDecodesLegacyCharset(t *testing.T) {
	raw := `<html><head><title>Caf` + "\xe9" + `</title></head></html>`
	page, err := New().Extract(bytes.NewReader([]byte(raw)), "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	require.Equal(t, "Café", page.Title)
}
