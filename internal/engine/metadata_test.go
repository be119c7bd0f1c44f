package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadataFromMetaTags(t *testing.T) {
	doc, err := newTestDoc(`<html><head>
		<title>Fallback Title</title>
		<meta property="og:site_name" content="Example Times">
		<meta name="description" content="A short summary of the story.">
		<meta name="author" content="Jane Doe">
	</head><body></body></html>`)
	require.NoError(t, err)

	meta := ExtractMetadata(doc, true)
	assert.Equal(t, "Example Times", meta.SiteName)
	assert.Equal(t, "A short summary of the story.", meta.Excerpt)
	assert.Equal(t, "Jane Doe", meta.Byline)
}

func TestExtractMetadataUnescapesEntities(t *testing.T) {
	doc, err := newTestDoc(`<html><head>
		<meta name="description" content="Tom &amp; Jerry&#39;s Adventure">
	</head><body></body></html>`)
	require.NoError(t, err)

	meta := ExtractMetadata(doc, true)
	assert.Equal(t, "Tom & Jerry's Adventure", meta.Excerpt)
}

func TestExtractMetadataJSONLDTakesPriority(t *testing.T) {
	doc, err := newTestDoc(`<html><head>
		<meta name="author" content="Meta Author">
		<script type="application/ld+json">
		{"@context": "https://schema.org", "@type": "NewsArticle", "headline": "JSON-LD Headline", "author": {"name": "LD Author"}, "publisher": {"name": "LD Publisher"}}
		</script>
	</head><body></body></html>`)
	require.NoError(t, err)

	meta := ExtractMetadata(doc, false)
	assert.Equal(t, "LD Author", meta.Byline)
	assert.Equal(t, "LD Publisher", meta.SiteName)
}

func TestExtractMetadataJSONLDDisabled(t *testing.T) {
	doc, err := newTestDoc(`<html><head>
		<meta name="author" content="Meta Author">
		<script type="application/ld+json">
		{"@context": "https://schema.org", "@type": "NewsArticle", "headline": "JSON-LD Headline", "author": {"name": "LD Author"}}
		</script>
	</head><body></body></html>`)
	require.NoError(t, err)

	meta := ExtractMetadata(doc, true)
	assert.Equal(t, "Meta Author", meta.Byline)
}

func TestExtractMetadataMalformedJSONLDFallsBackToMeta(t *testing.T) {
	doc, err := newTestDoc(`<html><head>
		<meta name="author" content="Meta Author">
		<script type="application/ld+json">{not valid json</script>
	</head><body></body></html>`)
	require.NoError(t, err)

	meta := ExtractMetadata(doc, false)
	assert.Equal(t, "Meta Author", meta.Byline)
}

func TestJSONLDAuthorNameArray(t *testing.T) {
	names := jsonLDAuthorName([]interface{}{
		map[string]interface{}{"name": "First Author"},
		"Second Author",
	})
	assert.Equal(t, "First Author, Second Author", names)
}

func TestJSONLDResultFromPrefersHeadlineWhenOnlyHeadlineMatches(t *testing.T) {
	obj := map[string]interface{}{
		"name":     "Something Completely Different",
		"headline": "Foo Wins The Championship Today",
	}
	result := jsonLDResultFrom(obj, "Foo Wins The Championship")
	assert.Equal(t, "Foo Wins The Championship Today", result.Title)
}

func TestJSONLDResultFromPrefersNameWhenBothMatch(t *testing.T) {
	// spec.md §8 worked example 5: name:"X", headline:"Site — X", HTML
	// title "X — Site". The title heuristic leaves that title as it is (an
	// em dash is not a hierarchical separator). Every token of name and of
	// headline appears in it, so both score 1.0 and clear the threshold;
	// headline must NOT win the tiebreak merely by matching — it only wins
	// when name does not also match.
	obj := map[string]interface{}{
		"name":     "X",
		"headline": "Site — X",
	}
	result := jsonLDResultFrom(obj, "X — Site")
	assert.Equal(t, "X", result.Title)
}

func TestLookupMetaFieldPrefixOrder(t *testing.T) {
	values := map[string]string{
		"og:site_name": "OG Name",
		"site_name":    "Bare Name",
	}
	assert.Equal(t, "OG Name", lookupMetaField(values, "site_name"))
}
