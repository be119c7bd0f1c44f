package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// prepDocument runs the pre-pass transforms (§4.4) ahead of scoring: style
// tags removed, <br><br> chains folded into <p>, <font> renamed to <span>.
// Comment/script/style removal and the noscript-image unwrap happen earlier
// in the orchestrator (the latter before JSON-LD extraction, the former
// after it — see §3 Lifecycle).
func prepDocument(doc *goquery.Selection) {
	doc.Find("style").Remove()
	if body := doc.Find("body"); body.Length() > 0 {
		replaceBrs(body)
	}
	doc.Find("font").Each(func(_ int, s *goquery.Selection) {
		setNodeTag(s, "span")
	})
}

// removeCommentsScriptsAndStyles strips comments, directives, CDATA,
// <script>, <noscript>, and <style> nodes from the whole document (§4.4).
// Must run after JSON-LD metadata extraction (§3 Lifecycle).
func removeCommentsScriptsAndStyles(doc *goquery.Selection) {
	doc.Find("script, noscript, style").Remove()
	removeCommentLikeNodes(node(doc))
}

func removeCommentLikeNodes(n *html.Node) {
	if n == nil {
		return
	}
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		switch c.Type {
		case html.CommentNode, html.DoctypeNode:
			n.RemoveChild(c)
		default:
			removeCommentLikeNodes(c)
		}
	}
}

// unwrapNoscriptImages repairs the common lazy-loading pattern where a
// visible placeholder <img> is immediately followed by a <noscript> whose
// only content is the real <img> (§4.4 supplement, grounded on the
// teacher's unwrapNoscriptImages). First, any <img> lacking every
// image-indicating attribute is dropped outright so it cannot later be
// mistaken for the "real" image sibling.
func unwrapNoscriptImages(doc *goquery.Selection) {
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if hasImageAttributes(img) {
			return
		}
		img.Remove()
	})

	doc.Find("noscript").Each(func(_ int, noscript *goquery.Selection) {
		// With scripting enabled the parser keeps <noscript> content as a
		// raw text node, which Html() would re-escape; read that text as is.
		noscriptHTML := noscript.Text()
		if noscript.Children().Length() > 0 {
			var err error
			noscriptHTML, err = noscript.Html()
			if err != nil {
				return
			}
		}
		tempDoc, err := goquery.NewDocumentFromReader(strings.NewReader(noscriptHTML))
		if err != nil {
			return
		}
		if !isSingleImage(tempDoc.Find("body")) {
			return
		}

		prevElement := noscript.Prev()
		if prevElement.Length() == 0 || !isSingleImage(prevElement) {
			return
		}

		var prevImg *goquery.Selection
		if nodeName(prevElement) == "IMG" {
			prevImg = prevElement
		} else {
			prevImg = prevElement.Find("img").First()
		}
		if prevImg.Length() == 0 {
			return
		}

		newImg := tempDoc.Find("img").First()
		if newImg.Length() == 0 {
			return
		}

		n := node(prevImg)
		for _, attr := range n.Attr {
			if attr.Val == "" {
				continue
			}
			if attr.Key != "src" && attr.Key != "srcset" && !RegexpImageExtension.MatchString(attr.Val) {
				continue
			}
			if existing, ok := newImg.Attr(attr.Key); ok && existing == attr.Val {
				continue
			}
			attrName := attr.Key
			if _, exists := newImg.Attr(attrName); exists {
				attrName = "data-old-" + attrName
			}
			newImg.SetAttr(attrName, attr.Val)
		}

		newImgHTML, err := goquery.OuterHtml(newImg)
		if err != nil {
			return
		}
		prevElement.ReplaceWithHtml(newImgHTML)
	})
}

func hasImageAttributes(img *goquery.Selection) bool {
	for _, attr := range []string{"src", "srcset", "data-src", "data-srcset"} {
		if v, ok := img.Attr(attr); ok && v != "" {
			return true
		}
	}
	n := node(img)
	if n == nil {
		return false
	}
	for _, attr := range n.Attr {
		if RegexpImageExtension.MatchString(attr.Val) {
			return true
		}
	}
	return false
}

// isSingleImage reports whether s is an <img>, or an element whose only
// content (ignoring whitespace) is a single <img>.
func isSingleImage(s *goquery.Selection) bool {
	for s.Length() > 0 {
		if nodeName(s) == "IMG" {
			return true
		}
		children := s.Children()
		if children.Length() != 1 || strings.TrimSpace(s.Text()) != "" {
			return false
		}
		s = children.First()
	}
	return false
}

// replaceBrs implements the <br> chain replacement rule (§4.4): for each
// <br>, collapse an immediately following run of <br>s, then replace the
// remaining one with a new <p> absorbing subsequent phrasing-content
// siblings until the next <br><br> or non-phrasing element.
func replaceBrs(elem *goquery.Selection) {
	elem.Find("br").Each(func(_ int, br *goquery.Selection) {
		brNode := node(br)
		if brNode == nil || brNode.Parent == nil {
			return
		}

		// The sibling walk runs over raw nodes: text between two <br>s must
		// stop the chain collapse, and text after the chain must be moved
		// into the new <p> along with the phrasing elements around it.
		next := nextNonWhitespaceNode(brNode.NextSibling)
		replaced := false
		for next != nil && isElementNamed(next, "br") {
			replaced = true
			after := nextNonWhitespaceNode(next.NextSibling)
			selOf(next).Remove()
			next = after
		}
		if !replaced {
			return
		}

		p := createElement("p")
		br.ReplaceWithSelection(p)
		pNode := node(p)

		cur := pNode.NextSibling
		for cur != nil {
			if isElementNamed(cur, "br") {
				following := nextNonWhitespaceNode(cur.NextSibling)
				if isElementNamed(following, "br") {
					break
				}
			}
			if !isPhrasingContent(selOf(cur)) {
				break
			}
			nextSibling := cur.NextSibling
			moved := selOf(cur)
			moved.Remove()
			p.AppendSelection(moved)
			cur = nextSibling
		}

		trimTrailingWhitespace(p)

		if nodeName(p.Parent()) == "P" {
			setNodeTag(p.Parent(), "div")
		}
	})
}

// simplifyDivs implements the div-phrasing wrap rule (§4.4): within div,
// contiguous runs of phrasing children are wrapped in a synthesized <p>.
// Whitespace-only leading nodes do not open a new run.
func simplifyDivs(div *goquery.Selection) {
	d := node(div)
	if d == nil {
		return
	}
	var p *goquery.Selection
	cur := d.FirstChild
	for cur != nil {
		next := cur.NextSibling

		// Whitespace (blank text or a lone <br>) never opens a new run,
		// but once a run is open it travels with it.
		if p == nil && isWhitespaceNode(cur) {
			cur = next
			continue
		}

		curSel := selOf(cur)
		if isPhrasingContent(curSel) {
			if p == nil {
				p = createElement("p")
				curSel.BeforeSelection(p)
			}
			curSel.Remove()
			p.AppendSelection(curSel)
			cur = next
			continue
		}

		if p != nil {
			trimTrailingWhitespace(p)
			p = nil
		}
		cur = next
	}
	if p != nil {
		trimTrailingWhitespace(p)
	}
}

func trimTrailingWhitespace(p *goquery.Selection) {
	pNode := node(p)
	if pNode == nil {
		return
	}
	for last := pNode.LastChild; last != nil && isWhitespaceNode(last); last = pNode.LastChild {
		selOf(last).Remove()
	}
}
