package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetArticleTitleSeparator(t *testing.T) {
	// Trailing split yields "BBC" (< 3 words), so the leading-side fallback
	// kicks in and the revert check tolerates a one-word reduction.
	doc, err := newTestDoc(`<html><head><title>BBC | Article Headline Here</title></head><body></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Article Headline Here", getArticleTitle(doc))
}

func TestGetArticleTitleColonSplit(t *testing.T) {
	doc, err := newTestDoc(`<html><head><title>Go Tips: Writing Really Idiomatic Error Handling Techniques</title></head><body></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Writing Really Idiomatic Error Handling Techniques", getArticleTitle(doc))
}

func TestGetArticleTitleColonSplitFallsBackToFirstColon(t *testing.T) {
	// Two colons: the after-last-colon fragment ("End") is too short, so
	// §4.11's fallback must take the part after the *first* colon, not the
	// part before the last one.
	doc, err := newTestDoc(`<html><head><title>Foo: Bar Baz Qux Long Title: End</title></head><body></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Bar Baz Qux Long Title: End", getArticleTitle(doc))
}

func TestGetArticleTitleRevertsWhenReductionTooAggressive(t *testing.T) {
	// No hierarchical separator and the colon split collapses to <= 4
	// words: spec.md §4.11 requires reverting to the original title text.
	doc, err := newTestDoc(`<html><head><title>Go Tips: Writing Idiomatic Errors</title></head><body></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Go Tips: Writing Idiomatic Errors", getArticleTitle(doc))
}

func TestGetArticleTitleH1Fallback(t *testing.T) {
	doc, err := newTestDoc(`<html><head><title></title></head><body><h1>The Only Heading On This Page</h1></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "The Only Heading On This Page", getArticleTitle(doc))
}

func TestGetArticleTitleNoTitle(t *testing.T) {
	doc, err := newTestDoc(`<html><head></head><body><p>no title here</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "", getArticleTitle(doc))
}
