package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Annotations holds the side-tables the spec requires for the transient
// contentScore and _readabilityDataTable markers (§3). Per the "Polymorphism
// without inheritance" design note (spec.md §9), these are keyed by stable
// node identity rather than attached to the node type — here that's the
// *html.Node pointer itself, which the x/net/html tree never reallocates
// across reparenting, so it is just as stable as an arena index would be.
type Annotations struct {
	scores     map[*html.Node]float64
	hasScore   map[*html.Node]bool
	dataTables map[*html.Node]bool
}

// NewAnnotations returns an empty side-table.
func NewAnnotations() *Annotations {
	return &Annotations{
		scores:     make(map[*html.Node]float64),
		hasScore:   make(map[*html.Node]bool),
		dataTables: make(map[*html.Node]bool),
	}
}

// HasScore reports whether s was ever seen as an ancestor of a scorable
// paragraph (§3 invariant: "A node carries contentScore only if...").
func (a *Annotations) HasScore(s *goquery.Selection) bool {
	n := node(s)
	return n != nil && a.hasScore[n]
}

// Score returns the current contentScore, or 0 if none was assigned.
func (a *Annotations) Score(s *goquery.Selection) float64 {
	n := node(s)
	if n == nil {
		return 0
	}
	return a.scores[n]
}

// InitScore assigns an initial contentScore if the node has none yet.
func (a *Annotations) InitScore(s *goquery.Selection, initial float64) {
	n := node(s)
	if n == nil || a.hasScore[n] {
		return
	}
	a.hasScore[n] = true
	a.scores[n] = initial
}

// AddScore adds to an existing contentScore. The node must already be
// initialized via InitScore.
func (a *Annotations) AddScore(s *goquery.Selection, delta float64) {
	n := node(s)
	if n == nil {
		return
	}
	a.scores[n] += delta
}

// SetDataTable marks (or unmarks) a <table> as a data table (§4.8).
func (a *Annotations) SetDataTable(s *goquery.Selection, isData bool) {
	n := node(s)
	if n == nil {
		return
	}
	a.dataTables[n] = isData
}

// IsDataTable reports whether a <table> was classified as data by §4.8.
// Unclassified tables are treated as not-data.
func (a *Annotations) IsDataTable(s *goquery.Selection) bool {
	n := node(s)
	return n != nil && a.dataTables[n]
}

// SetScore overwrites a node's contentScore. Used by the top-candidate
// ranking pass, which scales each candidate's score by (1 - link density)
// exactly once (§4.5.2).
func (a *Annotations) SetScore(s *goquery.Selection, score float64) {
	n := node(s)
	if n == nil {
		return
	}
	a.hasScore[n] = true
	a.scores[n] = score
}

// node returns the first underlying *html.Node of a selection, or nil.
func node(s *goquery.Selection) *html.Node {
	if s == nil || s.Length() == 0 {
		return nil
	}
	return s.Get(0)
}

// selOf wraps a raw node in a single-node selection so it can be handed to
// goquery-based helpers mid-traversal.
func selOf(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

// sameNode reports whether two selections point at the same underlying node.
func sameNode(a, b *goquery.Selection) bool {
	na, nb := node(a), node(b)
	if na == nil || nb == nil {
		return na == nb
	}
	return na == nb
}

// nodeName returns the upper-cased tag name of a selection, or "" for a
// non-element (or empty) selection.
func nodeName(s *goquery.Selection) string {
	n := node(s)
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToUpper(n.Data)
}

// outerHTML serializes a selection's outer HTML, swallowing errors (callers
// only use this for debug logging and diagnostics).
func outerHTML(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	out, err := goquery.OuterHtml(s)
	if err != nil {
		return ""
	}
	return out
}

// createElement builds a detached element node with the given tag name,
// wrapped in a Selection so it can be manipulated with the usual goquery
// API before being attached to the document. goquery.Document has no
// CreateElement method, so we build the *html.Node by hand, matching the
// teacher's createElement helper.
func createElement(tagName string) *goquery.Selection {
	n := &html.Node{
		Type: html.ElementNode,
		Data: tagName,
	}
	return goquery.NewDocumentFromNode(n).Selection
}
