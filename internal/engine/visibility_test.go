package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNodeVisibleDisplayNone(t *testing.T) {
	doc, err := newTestDoc(`<div id="x" style="color: red; display: none;">hi</div>`)
	require.NoError(t, err)
	assert.False(t, isNodeVisible(doc.Find("#x")))
}

func TestIsNodeVisibleHiddenAttribute(t *testing.T) {
	doc, err := newTestDoc(`<div id="x" hidden>hi</div>`)
	require.NoError(t, err)
	assert.False(t, isNodeVisible(doc.Find("#x")))
}

func TestIsNodeVisibleAriaHiddenFallbackImageException(t *testing.T) {
	doc, err := newTestDoc(`<div id="x" aria-hidden="true" class="fallback-image">hi</div>`)
	require.NoError(t, err)
	assert.True(t, isNodeVisible(doc.Find("#x")))
}

func TestIsNodeVisibleAriaHiddenOtherwiseHides(t *testing.T) {
	doc, err := newTestDoc(`<div id="x" aria-hidden="true">hi</div>`)
	require.NoError(t, err)
	assert.False(t, isNodeVisible(doc.Find("#x")))
}

func TestIsNodeVisibleOrdinaryElement(t *testing.T) {
	doc, err := newTestDoc(`<div id="x">hi</div>`)
	require.NoError(t, err)
	assert.True(t, isNodeVisible(doc.Find("#x")))
}

func TestIsNodeVisibleDialogRole(t *testing.T) {
	doc, err := newTestDoc(`<div id="x" role="dialog">hi</div>`)
	require.NoError(t, err)
	assert.False(t, isNodeVisible(doc.Find("#x")))
}
