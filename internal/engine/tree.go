package engine

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// nextNode implements the depth-first "next-node" traversal of §4.1: first
// child, then next sibling, then the nearest ancestor's next sibling. When
// ignoreSelfAndKids is true the node's own children are skipped, which is
// how callers step over a subtree they just removed or rewrote.
func nextNode(s *goquery.Selection, ignoreSelfAndKids bool) *goquery.Selection {
	if s == nil || s.Length() == 0 {
		return nil
	}
	if !ignoreSelfAndKids {
		if kids := s.Children(); kids.Length() > 0 {
			return kids.First()
		}
	}
	if next := s.Next(); next.Length() > 0 {
		return next
	}
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		if next := parent.Next(); next.Length() > 0 {
			return next
		}
	}
	return nil
}

// removeAndGetNext removes s from the tree and returns what the traversal
// should visit next, capturing the next pointer *before* removal so the
// iterator never dereferences a detached node (§5 mutation discipline).
func removeAndGetNext(s *goquery.Selection) *goquery.Selection {
	next := nextNode(s, true)
	if s != nil && s.Length() > 0 {
		s.Remove()
	}
	return next
}

// nodeAncestors returns up to maxDepth enclosing elements, nearest first.
// maxDepth <= 0 means unlimited.
func nodeAncestors(s *goquery.Selection, maxDepth int) []*goquery.Selection {
	var out []*goquery.Selection
	i := 0
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		out = append(out, parent)
		i++
		if maxDepth > 0 && i >= maxDepth {
			break
		}
	}
	return out
}

// hasAncestorTag climbs at most maxDepth ancestors (negative = unlimited)
// looking for one matching tagName that also satisfies filter, if given.
func hasAncestorTag(s *goquery.Selection, tagName string, maxDepth int, filter func(*goquery.Selection) bool) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	tagName = strings.ToUpper(tagName)
	depth := 0
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		if maxDepth >= 0 && depth >= maxDepth {
			return false
		}
		if nodeName(parent) == tagName && (filter == nil || filter(parent)) {
			return true
		}
		depth++
	}
	return false
}

// isWhitespaceNode reports whether a raw html.Node is whitespace-only text,
// or a <br> (§4.2 is-whitespace).
func isWhitespaceNode(n *html.Node) bool {
	if n == nil {
		return true
	}
	if n.Type == html.TextNode {
		return RegexpWhitespace.MatchString(n.Data)
	}
	return n.Type == html.ElementNode && strings.EqualFold(n.Data, "br")
}

// nextNonWhitespaceNode walks forward from n along the raw sibling chain,
// skipping non-element nodes whose data is entirely whitespace (§4.1
// next-non-whitespace-node). Operating on *html.Node rather than a
// Selection matters: goquery's Next() silently skips text nodes, which
// would make interleaved text invisible to the <br>-chain transforms.
func nextNonWhitespaceNode(n *html.Node) *html.Node {
	for n != nil && n.Type != html.ElementNode && RegexpWhitespace.MatchString(n.Data) {
		n = n.NextSibling
	}
	return n
}

// isElementNamed reports whether n is an element with the given lowercase
// tag name.
func isElementNamed(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, tag)
}

// isElementWithoutContent reports empty-content structural elements: no
// trimmed text, and either no element children or only <br>/<hr> children
// (§4.2 is-element-without-content).
func isElementWithoutContent(s *goquery.Selection) bool {
	if s == nil || s.Length() == 0 {
		return true
	}
	if strings.TrimSpace(s.Text()) != "" {
		return false
	}
	children := s.Children()
	if children.Length() == 0 {
		return true
	}
	brHr := s.Find("br").Length() + s.Find("hr").Length()
	return children.Length() == brHr
}

// hasChildBlockElement reports whether s has any descendant among the
// block-level tag set used to decide div-to-p conversion (§4.5 pass 1).
func hasChildBlockElement(s *goquery.Selection) bool {
	found := false
	s.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		if DivToPElems[nodeName(child)] || hasChildBlockElement(child) {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasSingleTagInsideElement reports whether s's only content is a single
// element child of the given tag, with no non-empty text node siblings.
func hasSingleTagInsideElement(s *goquery.Selection, tag string) bool {
	children := s.Children()
	if children.Length() != 1 || nodeName(children) != strings.ToUpper(tag) {
		return false
	}
	hasText := false
	s.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		n := node(c)
		if n != nil && n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			hasText = true
			return false
		}
		return true
	})
	return !hasText
}

// removeNodes removes every element in sel for which filter returns true
// (or every element, when filter is nil), iterating in reverse so removal
// never invalidates the remaining indices (§4.1 bulk removal).
func removeNodes(sel *goquery.Selection, filter func(*goquery.Selection) bool) {
	nodes := sel.Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		s := goquery.NewDocumentFromNode(nodes[i]).Selection
		if filter == nil || filter(s) {
			s.Remove()
		}
	}
}

// setNodeTag renames s's tag in place, preserving attributes and children,
// and returns a selection pointing at the (same) renamed node. Because
// golang.org/x/net/html.Node.Data is just a string field for element nodes,
// this is a direct in-place rename rather than the teacher's "build a new
// element and copy everything over" approach — cheaper, and it avoids ever
// detaching the node from the tree mid-traversal.
func setNodeTag(s *goquery.Selection, tagName string) *goquery.Selection {
	n := node(s)
	if n == nil {
		return s
	}
	n.Data = strings.ToLower(tagName)
	n.DataAtom = 0
	return s
}

// isSameNode is the exported-to-package pointer-identity comparison used
// throughout the scorer and preparator.
func isSameNode(a, b *goquery.Selection) bool { return sameNode(a, b) }

// debugNode renders a short diagnostic label for a node (used only behind
// Options.Debug).
func debugNode(s *goquery.Selection) string {
	n := node(s)
	if n == nil {
		return "<nil>"
	}
	if n.Type == html.TextNode {
		t := strings.TrimSpace(n.Data)
		if len(t) > 24 {
			t = t[:24] + "…"
		}
		return fmt.Sprintf("#text(%q)", t)
	}
	id, _ := s.Attr("id")
	class, _ := s.Attr("class")
	return fmt.Sprintf("<%s id=%q class=%q>", strings.ToLower(n.Data), id, class)
}
