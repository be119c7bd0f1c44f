package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, wordCount(""))
	assert.Equal(t, 0, wordCount("   "))
	assert.Equal(t, 3, wordCount("  the quick  fox "))
}

func TestTextSimilarity(t *testing.T) {
	// Worked example: every token of b ("foo", "wins") also appears in a,
	// so the asymmetric formula returns 1 regardless of a's extra tokens.
	sim := textSimilarity("Breaking News: Foo Wins", "Foo Wins")
	assert.InDelta(t, 1.0, sim, 1e-9)

	// Swapping the arguments changes the result: a no longer contains all
	// of b's tokens ("breaking", "news").
	sim2 := textSimilarity("Foo Wins", "Breaking News: Foo Wins")
	assert.Less(t, sim2, 1.0)

	assert.Equal(t, 0.0, textSimilarity("anything", ""))
}

func TestTextSimilarityRepeatedTokenInB(t *testing.T) {
	// Membership is by set, not multiset: "the" appears once in a, and both
	// of b's occurrences count as shared, leaving only "and dog" unique.
	sim := textSimilarity("the cat", "the cat and the dog")
	assert.InDelta(t, 1.0-7.0/19.0, sim, 1e-9)
}

func TestUnescapeHTMLEntitiesNamed(t *testing.T) {
	assert.Equal(t, `<a href="x">`, unescapeHTMLEntities(`&lt;a href=&quot;x&quot;&gt;`))
}

func TestUnescapeHTMLEntitiesNumeric(t *testing.T) {
	assert.Equal(t, "A", unescapeHTMLEntities("&#65;"))
	assert.Equal(t, "A", unescapeHTMLEntities("&#x41;"))
}

func TestUnescapeHTMLEntitiesInvalidCodePoint(t *testing.T) {
	// Out of Unicode range: falls back to the replacement character.
	assert.Equal(t, "�", unescapeHTMLEntities("&#99999999;"))
	// UTF-16 surrogate half: also invalid on its own.
	assert.Equal(t, "�", unescapeHTMLEntities("&#xD800;"))
}

func TestGetLinkDensity(t *testing.T) {
	doc, err := newTestDoc(`<div id="root">plain text <a href="http://example.com/x">a link</a></div>`)
	require.NoError(t, err)
	density := getLinkDensity(doc.Find("#root"))
	assert.Greater(t, density, 0.0)
	assert.Less(t, density, 1.0)
}

func TestGetLinkDensityHashAnchorDiscounted(t *testing.T) {
	doc, err := newTestDoc(`<div id="root">plain text here <a href="#note">note</a></div>`)
	require.NoError(t, err)
	density := getLinkDensity(doc.Find("#root"))
	// A hash anchor is weighted at 0.3, so density stays well under what a
	// same-length ordinary link would produce.
	assert.Less(t, density, 0.3)
}
