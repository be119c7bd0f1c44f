package readability

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// TestGoldenFixtures runs every fixture under testdata/fixtures through the
// full pipeline and compares the result against the recorded expectation:
// the article trees are walked in pre-order, skipping whitespace-only text
// nodes and collapsing interior whitespace, asserting tag name, attribute
// set, and text equality. Metadata fields must match exactly; dir, lang,
// and publishedTime are checked only when the expected set records them.
func TestGoldenFixtures(t *testing.T) {
	fixtureRoot := filepath.Join("testdata", "fixtures")
	entries, err := os.ReadDir(fixtureRoot)
	require.NoError(t, err)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		t.Run(entry.Name(), func(t *testing.T) {
			dir := filepath.Join(fixtureRoot, entry.Name())

			source, err := os.ReadFile(filepath.Join(dir, "source.html"))
			require.NoError(t, err)
			expectedHTML, err := os.ReadFile(filepath.Join(dir, "expected.html"))
			require.NoError(t, err)
			metaRaw, err := os.ReadFile(filepath.Join(dir, "expected-metadata.json"))
			require.NoError(t, err)

			var expectedMeta map[string]string
			require.NoError(t, json.Unmarshal(metaRaw, &expectedMeta))

			doc, err := NewFromHTML(string(source), NewOptions())
			require.NoError(t, err)
			article, err := doc.Parse()
			require.NoError(t, err)

			assert.Equal(t, expectedMeta["title"], article.Title, "title")
			assert.Equal(t, expectedMeta["byline"], article.Byline, "byline")
			assert.Equal(t, expectedMeta["excerpt"], article.Excerpt, "excerpt")
			assert.Equal(t, expectedMeta["siteName"], article.SiteName, "siteName")
			if want, ok := expectedMeta["lang"]; ok {
				assert.Equal(t, want, article.Lang, "lang")
			}
			if want, ok := expectedMeta["dir"]; ok {
				assert.Equal(t, want, article.Dir, "dir")
			}
			if want, ok := expectedMeta["publishedTime"]; ok {
				assert.Equal(t, want, article.PublishedTime, "publishedTime")
			}

			want := parseFragmentBody(t, string(expectedHTML))
			got := parseFragmentBody(t, article.ContentHTML())
			compareChildren(t, entry.Name(), want, got)

			assertCleanArticleTree(t, got)

			// Re-parsing the cleaned article yields the same text content up
			// to whitespace normalization.
			redoc, err := NewFromHTML(article.ContentHTML(), NewOptions())
			require.NoError(t, err)
			rearticle, err := redoc.Parse()
			require.NoError(t, err)
			assert.Equal(t,
				collapseWhitespace(article.TextContent),
				collapseWhitespace(rearticle.TextContent),
				"re-parse text content")
		})
	}
}

// presentationalAttrs mirrors the attribute list the preparator strips; none
// may survive in a returned article, and width/height only on the tags that
// legitimately carry them.
var presentationalAttrs = map[string]bool{
	"align": true, "background": true, "bgcolor": true, "border": true,
	"cellpadding": true, "cellspacing": true, "frame": true, "hspace": true,
	"rules": true, "style": true, "valign": true, "vspace": true,
}

var sizeAttrTags = map[string]bool{
	"table": true, "th": true, "td": true, "hr": true, "pre": true,
}

func assertCleanArticleTree(t *testing.T, root *html.Node) {
	t.Helper()
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			assert.NotEqual(t, "h1", n.Data, "returned article may not contain <h1>")
			for _, a := range n.Attr {
				key := strings.ToLower(a.Key)
				assert.False(t, presentationalAttrs[key], "presentational attribute %q on <%s>", key, n.Data)
				if (key == "width" || key == "height") && !sizeAttrTags[n.Data] {
					t.Errorf("size attribute %q left on <%s>", key, n.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// parseFragmentBody parses an HTML fragment and returns the <body> node the
// parser wraps it in, so both sides of the comparison go through identical
// parsing.
func parseFragmentBody(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	body := doc.Find("body")
	require.Equal(t, 1, body.Length())
	return body.Get(0)
}

// significantChildren filters a node's children down to elements and
// non-whitespace text, dropping comments outright.
func significantChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			out = append(out, c)
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

func compareChildren(t *testing.T, path string, want, got *html.Node) {
	t.Helper()
	wc := significantChildren(want)
	gc := significantChildren(got)
	require.Equal(t, len(wc), len(gc), "child count at %s (want %s, got %s)", path, renderNodes(wc), renderNodes(gc))
	for i := range wc {
		compareNode(t, fmt.Sprintf("%s[%d]", path, i), wc[i], gc[i])
	}
}

func compareNode(t *testing.T, path string, want, got *html.Node) {
	t.Helper()
	require.Equal(t, want.Type, got.Type, "node kind at %s", path)

	if want.Type == html.TextNode {
		assert.Equal(t, collapseWhitespace(want.Data), collapseWhitespace(got.Data), "text at %s", path)
		return
	}

	require.Equal(t, want.Data, got.Data, "tag at %s", path)
	assert.Equal(t, attrMap(want), attrMap(got), "attributes at %s", path)
	compareChildren(t, path+"/"+want.Data, want, got)
}

func attrMap(n *html.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[strings.ToLower(a.Key)] = a.Val
	}
	return m
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func renderNodes(nodes []*html.Node) string {
	var parts []string
	for _, n := range nodes {
		if n.Type == html.TextNode {
			parts = append(parts, fmt.Sprintf("%q", collapseWhitespace(n.Data)))
			continue
		}
		parts = append(parts, "<"+n.Data+">")
	}
	return "[" + strings.Join(parts, " ") + "]"
}
