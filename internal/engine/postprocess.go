package engine

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PostProcessOptions carries the baseURI and preserved-class list the final
// cleanup pass needs (§4.13).
type PostProcessOptions struct {
	BaseURI           string
	ClassesToPreserve map[string]bool
	KeepClasses       bool
}

// PostProcessContent resolves relative URIs, collapses redundant nested
// wrapper elements, and strips class attributes down to the preserved list
// (§4.13), grounded on the teacher's postProcessContent.
func PostProcessContent(article *goquery.Selection, opts PostProcessOptions) {
	fixRelativeURIs(article, opts.BaseURI)
	simplifyNestedElements(article)
	if !opts.KeepClasses {
		cleanClasses(article, opts.ClassesToPreserve)
	}
}

// fixRelativeURIs resolves href/src/poster/srcset attributes against
// baseURI (leaving them as they are when baseURI is empty or unparsable),
// and neutralizes javascript: links since their target script has already
// been removed from the document.
func fixRelativeURIs(article *goquery.Selection, baseURI string) {
	base, err := url.Parse(baseURI)
	hasBase := baseURI != "" && err == nil

	toAbsolute := func(uri string) string {
		if !hasBase {
			return uri
		}
		ref, err := url.Parse(uri)
		if err != nil {
			return uri
		}
		return base.ResolveReference(ref).String()
	}

	article.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "javascript:") {
			contents := link.Contents()
			if contents.Length() == 1 && node(contents).Type == html.TextNode {
				link.ReplaceWithHtml(link.Text())
				return
			}
			span := createElement("span")
			nodes := make([]*html.Node, len(contents.Nodes))
			copy(nodes, contents.Nodes)
			for _, n := range nodes {
				child := selOf(n)
				child.Remove()
				span.AppendSelection(child)
			}
			link.ReplaceWithSelection(span)
			return
		}
		link.SetAttr("href", toAbsolute(href))
	})

	article.Find("img, picture, figure, video, audio, source").Each(func(_ int, media *goquery.Selection) {
		if src, ok := media.Attr("src"); ok && src != "" {
			media.SetAttr("src", toAbsolute(src))
		}
		if poster, ok := media.Attr("poster"); ok && poster != "" {
			media.SetAttr("poster", toAbsolute(poster))
		}
		if srcset, ok := media.Attr("srcset"); ok && srcset != "" {
			media.SetAttr("srcset", RegexpSrcsetURL.ReplaceAllStringFunc(srcset, func(match string) string {
				parts := RegexpSrcsetURL.FindStringSubmatch(match)
				if len(parts) < 4 {
					return match
				}
				return toAbsolute(parts[1]) + parts[2] + parts[3]
			}))
		}
	})
}

// simplifyNestedElements walks the article collapsing <div>/<section>
// elements that carry no content, or whose only content is a single
// same-purpose child, folding the wrapper's attributes onto that child
// (§4.13). Elements carrying a "readability"-prefixed id are left alone, as
// they were synthesized by the orchestrator itself.
func simplifyNestedElements(article *goquery.Selection) {
	cur := article
	for cur != nil && cur.Length() > 0 {
		tag := nodeName(cur)
		if tag != "DIV" && tag != "SECTION" {
			cur = nextNode(cur, false)
			continue
		}

		if id, ok := cur.Attr("id"); ok && strings.HasPrefix(id, "readability") {
			cur = nextNode(cur, false)
			continue
		}

		if isElementWithoutContent(cur) {
			cur = removeAndGetNext(cur)
			continue
		}

		if hasSingleTagInsideElement(cur, "div") || hasSingleTagInsideElement(cur, "section") {
			child := cur.Children().First()
			n := node(cur)
			for _, attr := range n.Attr {
				child.SetAttr(attr.Key, attr.Val)
			}
			cur.ReplaceWithSelection(child)
			cur = child
			continue
		}

		cur = nextNode(cur, false)
	}
}

// cleanClasses removes every class attribute value not present in the
// preserved set, dropping the attribute entirely when nothing survives.
func cleanClasses(s *goquery.Selection, preserve map[string]bool) {
	class, ok := s.Attr("class")
	if ok {
		var kept []string
		for _, c := range strings.Fields(class) {
			if preserve[c] {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			s.SetAttr("class", strings.Join(kept, " "))
		} else {
			s.RemoveAttr("class")
		}
	}
	s.Children().Each(func(_ int, child *goquery.Selection) {
		cleanClasses(child, preserve)
	})
}
