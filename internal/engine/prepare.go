package engine

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// textDensityTags is the tag set used by the generic textDensity() check in
// conditional cleaning (§4.6.1): {span, li, td} union the block-level set.
var textDensityTags = []string{
	"span", "li", "td",
	"blockquote", "dl", "div", "img", "ol", "p", "pre", "table", "ul",
}

// PrepareOptions carries the subset of extraction options the article
// preparator needs (§4.6): the video allowlist, the link-density slack,
// the share-element text threshold, and the active flag set — conditional
// cleaning and class weighting both switch off as the orchestrator relaxes
// flags on retry.
type PrepareOptions struct {
	AllowedVideoRegex   *regexp.Regexp
	LinkDensityModifier float64
	CharThreshold       int
	Flags               Flags
}

// PrepareArticle runs the 13-step cleanup of §4.6 over the collected
// subtree in place, grounded on the teacher's prepArticle/clean/
// cleanConditionally.
func PrepareArticle(article *goquery.Selection, ann *Annotations, opts PrepareOptions) {
	stripPresentationalAttributes(article)             // 1
	markDataTables(article, ann)                        // 2
	fixLazyImages(article)                              // 3
	cleanConditionally(article, "form", ann, opts)      // 4
	cleanConditionally(article, "fieldset", ann, opts)  // 4
	removeWithVideoException(article,                   // 5
		[]string{"object", "embed", "footer", "link", "aside"}, opts.AllowedVideoRegex)
	removeShareElements(article, opts.CharThreshold) // 6
	removeWithVideoException(article, []string{"iframe"}, opts.AllowedVideoRegex) // 7
	removeNodes(article.Find("input, textarea, select, button"), nil)             // 7
	removeNegativeWeightHeaders(article, opts.Flags)     // 8
	cleanConditionally(article, "table", ann, opts)      // 9
	cleanConditionally(article, "ul", ann, opts)         // 9
	cleanConditionally(article, "div", ann, opts)        // 9
	renameH1ToH2(article)                                // 10
	removeEmptyParagraphs(article)                       // 11
	removeBrBeforeParagraphs(article)                    // 12
	collapseSingleCellTables(article)                    // 13
}

func stripPresentationalAttributes(article *goquery.Selection) {
	article.Find("*").AddBack().Each(func(_ int, el *goquery.Selection) {
		if nodeName(el) == "SVG" || hasAncestorTag(el, "svg", -1, nil) {
			return
		}
		for _, attr := range PresentationalAttributes {
			el.RemoveAttr(attr)
		}
		if !DeprecatedSizeAttributeElems[nodeName(el)] {
			el.RemoveAttr("width")
			el.RemoveAttr("height")
		}
	})
}

func removeWithVideoException(article *goquery.Selection, tags []string, videoRegex *regexp.Regexp) {
	removeNodes(article.Find(strings.Join(tags, ", ")), func(el *goquery.Selection) bool {
		return !isAllowedVideoEmbed(el, videoRegex)
	})
}

func isAllowedVideoEmbed(el *goquery.Selection, videoRegex *regexp.Regexp) bool {
	if videoRegex == nil {
		return false
	}
	n := node(el)
	for _, attr := range n.Attr {
		if videoRegex.MatchString(attr.Val) {
			return true
		}
	}
	if nodeName(el) == "OBJECT" {
		if inner, err := el.Html(); err == nil && videoRegex.MatchString(inner) {
			return true
		}
	}
	return false
}

func removeShareElements(article *goquery.Selection, charThreshold int) {
	article.Children().Each(func(_ int, child *goquery.Selection) {
		removeNodes(child.Find("*"), func(el *goquery.Selection) bool {
			class, _ := el.Attr("class")
			id, _ := el.Attr("id")
			matchString := class + " " + id
			return RegexpShareElements.MatchString(matchString) && len(getInnerText(el, true)) < charThreshold
		})
	})
}

func removeNegativeWeightHeaders(article *goquery.Selection, flags Flags) {
	removeNodes(article.Find("h1, h2"), func(h *goquery.Selection) bool {
		return getClassWeight(h, flags) < 0
	})
}

func renameH1ToH2(article *goquery.Selection) {
	article.Find("h1").Each(func(_ int, h1 *goquery.Selection) {
		setNodeTag(h1, "h2")
	})
}

func removeEmptyParagraphs(article *goquery.Selection) {
	removeNodes(article.Find("p"), func(p *goquery.Selection) bool {
		media := p.Find("img, embed, object, iframe").Length()
		return media == 0 && getInnerText(p, false) == ""
	})
}

func removeBrBeforeParagraphs(article *goquery.Selection) {
	removeNodes(article.Find("br"), func(br *goquery.Selection) bool {
		// Intervening non-whitespace text keeps the <br>; only whitespace
		// may sit between it and the following <p>.
		next := nextNonWhitespaceNode(node(br).NextSibling)
		return isElementNamed(next, "p")
	})
}

// collapseSingleCellTables replaces a <table> whose body has exactly one
// row with exactly one <td> by that cell's content, renamed to <p> when
// every child is phrasing content, else <div> (§4.6 step 13).
func collapseSingleCellTables(article *goquery.Selection) {
	article.Find("table").Each(func(_ int, table *goquery.Selection) {
		tbody := table.Find("tbody").First()
		if tbody.Length() == 0 {
			tbody = table
		}
		rows := tbody.ChildrenFiltered("tr")
		if rows.Length() != 1 {
			return
		}
		cells := rows.First().ChildrenFiltered("td")
		if cells.Length() != 1 {
			return
		}
		cell := cells.First()

		allPhrasing := true
		cell.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if !isPhrasingContent(c) {
				allPhrasing = false
				return false
			}
			return true
		})
		if allPhrasing {
			cell = setNodeTag(cell, "p")
		} else {
			cell = setNodeTag(cell, "div")
		}
		table.ReplaceWithSelection(cell)
	})
}

// cleanConditionally removes every element of tag under article that fails
// the §4.6.1 conditional-clean tests. A no-op when CLEAN_CONDITIONALLY has
// been relaxed away by the retry ladder.
func cleanConditionally(article *goquery.Selection, tag string, ann *Annotations, opts PrepareOptions) {
	if opts.Flags&FlagCleanConditionally == 0 {
		return
	}
	removeNodes(article.Find(tag), func(el *goquery.Selection) bool {
		return shouldRemoveConditionally(el, ann, opts)
	})
}

func shouldRemoveConditionally(el *goquery.Selection, ann *Annotations, opts PrepareOptions) bool {
	tag := nodeName(el)

	if tag == "TABLE" {
		if ann.IsDataTable(el) {
			return false
		}
		hasDataTableDescendant := false
		el.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
			if ann.IsDataTable(t) {
				hasDataTableDescendant = true
				return false
			}
			return true
		})
		if hasDataTableDescendant {
			return false
		}
	}

	if hasAncestorTag(el, "table", -1, func(t *goquery.Selection) bool { return ann.IsDataTable(t) }) {
		return false
	}
	if hasAncestorTag(el, "code", -1, nil) {
		return false
	}

	weight := getClassWeight(el, opts.Flags)
	text := getInnerText(el, true)
	contentLength := len(text)

	if countCommaLike(text) > 10 {
		return false
	}
	if weight < 0 {
		return true
	}

	pCount := el.Find("p").Length()
	imgCount := el.Find("img").Length()
	liCount := el.Find("li").Length() - 100
	inputCount := el.Find("input").Length()
	embedCount := countNonVideoEmbeds(el, opts.AllowedVideoRegex)

	isList := tag == "UL" || tag == "OL"
	if !isList {
		isList = textDensity(el, []string{"ul", "ol"}) > 0.9
	}
	isFigureChild := hasAncestorTag(el, "figure", 3, nil)
	headingDensity := textDensity(el, []string{"h1", "h2", "h3", "h4", "h5", "h6"})
	density := textDensity(el, textDensityTags)
	linkDensity := getLinkDensity(el)

	remove := false
	switch {
	case !isFigureChild && imgCount > 1 && float64(pCount)/float64(imgCount) < 0.5:
		remove = true
	case !isList && liCount > pCount:
		remove = true
	case inputCount > pCount/3:
		remove = true
	case !isList && !isFigureChild && headingDensity < 0.9 && contentLength < 25 && (imgCount == 0 || imgCount > 2) && linkDensity > 0:
		remove = true
	case !isList && weight < 25 && linkDensity > 0.2+opts.LinkDensityModifier:
		remove = true
	case weight >= 25 && linkDensity > 0.5+opts.LinkDensityModifier:
		remove = true
	case (embedCount == 1 && contentLength < 75) || embedCount > 1:
		remove = true
	case imgCount == 0 && density == 0:
		remove = true
	}

	if remove && isList {
		allChildrenSmall := true
		el.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if c.Children().Length() > 1 {
				allChildrenSmall = false
				return false
			}
			return true
		})
		if allChildrenSmall && el.Find("li").Length() == imgCount {
			remove = false
		}
	}

	return remove
}

func countNonVideoEmbeds(el *goquery.Selection, videoRegex *regexp.Regexp) int {
	count := 0
	el.Find("object, embed, iframe").Each(func(_ int, e *goquery.Selection) {
		if isAllowedVideoEmbed(e, videoRegex) {
			return
		}
		count++
	})
	return count
}

// textDensity is the ratio of inner-text length contributed by descendants
// matching tags to el's own inner-text length (§4.6.1).
func textDensity(el *goquery.Selection, tags []string) float64 {
	total := len(getInnerText(el, true))
	if total == 0 {
		return 0
	}
	var sum int
	el.Find(strings.Join(tags, ", ")).Each(func(_ int, child *goquery.Selection) {
		sum += len(getInnerText(child, true))
	})
	return float64(sum) / float64(total)
}
