package engine

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementInitializerBaseScores(t *testing.T) {
	doc, err := newTestDoc(`<div id="d"></div><blockquote id="b"></blockquote><h1 id="h"></h1>`)
	require.NoError(t, err)
	assert.Equal(t, 5.0, elementInitializer(doc.Find("#d"), 0))
	assert.Equal(t, 3.0, elementInitializer(doc.Find("#b"), 0))
	assert.Equal(t, -5.0, elementInitializer(doc.Find("#h"), 0))
}

func TestElementInitializerClassWeight(t *testing.T) {
	doc, err := newTestDoc(`<div id="d" class="article-body"></div>`)
	require.NoError(t, err)
	withWeight := elementInitializer(doc.Find("#d"), FlagWeightClasses)
	withoutWeight := elementInitializer(doc.Find("#d"), 0)
	assert.Greater(t, withWeight, withoutWeight)
}

func TestClassWeightPositiveAndNegative(t *testing.T) {
	doc, err := newTestDoc(`<div id="pos" class="article"></div><div id="neg" class="sidebar"></div>`)
	require.NoError(t, err)
	assert.Equal(t, 25.0, classWeight(doc.Find("#pos")))
	assert.Equal(t, -25.0, classWeight(doc.Find("#neg")))
}

func TestHeaderDuplicatesTitle(t *testing.T) {
	doc, err := newTestDoc(`<h1 id="h">A Great Article About Go</h1>`)
	require.NoError(t, err)
	assert.True(t, headerDuplicatesTitle(doc.Find("#h"), "A Great Article About Go"))
	assert.False(t, headerDuplicatesTitle(doc.Find("#h"), "Something Completely Different"))
}

func TestRankCandidatesOrdersByScoreAndLinkDensity(t *testing.T) {
	doc, err := newTestDoc(`<div id="a">plenty of plain text here with no links at all to dilute it</div><div id="b">short <a href="#">link heavy text with barely any plain content</a></div>`)
	require.NoError(t, err)

	ann := NewAnnotations()
	a := doc.Find("#a")
	b := doc.Find("#b")
	ann.InitScore(a, 10)
	ann.InitScore(b, 10)

	ranked := rankCandidates([]*goquery.Selection{b, a}, ann, 0)
	require.Len(t, ranked, 2)
	assert.True(t, sameNode(ranked[0], a))
}

func TestRankCandidatesLimitsToNTopCandidates(t *testing.T) {
	doc, err := newTestDoc(`<div id="a">x</div><div id="b">y</div><div id="c">z</div>`)
	require.NoError(t, err)
	ann := NewAnnotations()
	a, b, c := doc.Find("#a"), doc.Find("#b"), doc.Find("#c")
	ann.InitScore(a, 3)
	ann.InitScore(b, 2)
	ann.InitScore(c, 1)

	ranked := rankCandidates([]*goquery.Selection{a, b, c}, ann, 2)
	assert.Len(t, ranked, 2)
}
