package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixRelativeURIsResolvesHref(t *testing.T) {
	doc, err := newTestDoc(`<div id="root"><a id="a" href="/page">link</a></div>`)
	require.NoError(t, err)
	fixRelativeURIs(doc.Find("#root"), "https://example.com/articles/one")

	href, _ := doc.Find("#a").Attr("href")
	assert.Equal(t, "https://example.com/page", href)
}

func TestFixRelativeURIsResolvesSrc(t *testing.T) {
	doc, err := newTestDoc(`<div id="root"><img id="img" src="photo.jpg"></div>`)
	require.NoError(t, err)
	fixRelativeURIs(doc.Find("#root"), "https://example.com/articles/one")

	src, _ := doc.Find("#img").Attr("src")
	assert.Equal(t, "https://example.com/articles/photo.jpg", src)
}

func TestFixRelativeURIsNeutralizesJavascriptLink(t *testing.T) {
	doc, err := newTestDoc(`<div id="root"><a id="a" href="javascript:void(0)">click me</a></div>`)
	require.NoError(t, err)
	fixRelativeURIs(doc.Find("#root"), "https://example.com/")

	assert.Equal(t, 0, doc.Find("#root").Find("a").Length())
	assert.Contains(t, doc.Find("#root").Text(), "click me")
}

func TestFixRelativeURIsNoBaseURILeavesHrefRelative(t *testing.T) {
	doc, err := newTestDoc(`<div id="root"><a id="a" href="/page">link</a></div>`)
	require.NoError(t, err)
	fixRelativeURIs(doc.Find("#root"), "")

	href, _ := doc.Find("#a").Attr("href")
	assert.Equal(t, "/page", href)
}

func TestSimplifyNestedElementsRemovesEmptyWrapper(t *testing.T) {
	doc, err := newTestDoc(`<div id="root"><div id="empty"></div><p>keep me</p></div>`)
	require.NoError(t, err)
	simplifyNestedElements(doc.Find("#root"))
	assert.Equal(t, 0, doc.Find("#empty").Length())
}

func TestSimplifyNestedElementsCollapsesSingleChildDiv(t *testing.T) {
	doc, err := newTestDoc(`<div id="root"><div id="outer" data-x="1"><div id="inner">content</div></div><p>sibling</p></div>`)
	require.NoError(t, err)
	simplifyNestedElements(doc.Find("#root"))

	// The wrapper is gone and its attributes (id included) land on the
	// surviving child.
	assert.Equal(t, 0, doc.Find("#inner").Length())
	merged := doc.Find("#outer")
	require.Equal(t, 1, merged.Length())
	assert.Equal(t, "content", merged.Text())
	dataX, _ := merged.Attr("data-x")
	assert.Equal(t, "1", dataX)
}

func TestSimplifyNestedElementsPreservesReadabilityID(t *testing.T) {
	doc, err := newTestDoc(`<div id="readability-page-1"></div>`)
	require.NoError(t, err)
	simplifyNestedElements(doc.Find("#readability-page-1"))
	assert.Equal(t, 1, doc.Find("#readability-page-1").Length())
}

func TestCleanClassesKeepsOnlyPreserved(t *testing.T) {
	doc, err := newTestDoc(`<div id="root" class="page drop-me"><p class="keep drop-me">x</p></div>`)
	require.NoError(t, err)
	cleanClasses(doc.Find("#root"), map[string]bool{"page": true, "keep": true})

	rootClass, _ := doc.Find("#root").Attr("class")
	assert.Equal(t, "page", rootClass)

	pClass, _ := doc.Find("#root p").Attr("class")
	assert.Equal(t, "keep", pClass)
}

func TestCleanClassesRemovesAttrWhenNothingSurvives(t *testing.T) {
	doc, err := newTestDoc(`<div id="root" class="drop-me"></div>`)
	require.NoError(t, err)
	cleanClasses(doc.Find("#root"), map[string]bool{})

	_, exists := doc.Find("#root").Attr("class")
	assert.False(t, exists)
}
