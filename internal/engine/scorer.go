package engine

import (
	"math"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ScoreResult carries what the candidate scorer and sibling collector
// discover in a single pass: the assembled article subtree, whether it had
// to be synthesized from body's children, the detected language, and a
// byline if one was found along the way (§4.5, §4.7).
type ScoreResult struct {
	Article          *goquery.Selection
	CreatedCandidate bool
	Lang             string
	Dir              string
	Byline           string
}

// scoreDocument runs pass 1 (pruning/marking), pass 2 (paragraph scoring),
// top-candidate selection (§4.5.2), and sibling collection (§4.5.3) over
// doc, using ann as the contentScore side-table. articleTitle is used to
// detect and drop a duplicate H1/H2 header.
func scoreDocument(doc *goquery.Selection, flags Flags, nTopCandidates int, ann *Annotations, articleTitle string) *ScoreResult {
	result := &ScoreResult{}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = createElement("body")
		if root := doc.Find("html"); root.Length() > 0 {
			root.AppendSelection(body)
		} else {
			doc.AppendSelection(body)
		}
	}

	start := doc.Find("html").First()
	if start.Length() == 0 {
		start = body
	}

	elementsToScore := pruneAndMark(start, flags, articleTitle, result)

	candidates := scoreParagraphs(elementsToScore, ann, flags)

	topCandidates := rankCandidates(candidates, ann, nTopCandidates)

	var topCandidate *goquery.Selection
	if len(topCandidates) == 0 || nodeName(topCandidates[0]) == "BODY" {
		topCandidate = synthesizeTopCandidate(body, ann, flags)
		result.CreatedCandidate = true
	} else {
		topCandidate = promoteTopCandidate(topCandidates[0], topCandidates, ann, flags)
	}

	// Text direction comes from the top candidate and its (still attached)
	// ancestor chain; it must be read before sibling collection detaches
	// everything into the article container (§4.14).
	result.Dir = detectTextDirection(topCandidate)

	if result.CreatedCandidate {
		// The synthetic candidate already holds every body child; it becomes
		// the article subtree itself and later carries the readability-page-1
		// attributes directly (§4.14).
		topCandidate.Remove()
		result.Article = topCandidate
	} else {
		result.Article = collectSiblings(topCandidate, ann)
	}
	return result
}

// pruneAndMark implements §4.5 pass 1: a single depth-first walk that drops
// invisible/unlikely/empty nodes, records the <html> lang attribute and a
// byline, demotes phrasing-only divs to <p>, and collects the scorable
// element set.
func pruneAndMark(start *goquery.Selection, flags Flags, articleTitle string, result *ScoreResult) []*goquery.Selection {
	var elementsToScore []*goquery.Selection
	shouldRemoveTitleHeader := true

	cur := start
	for cur != nil && cur.Length() > 0 {
		tag := nodeName(cur)

		if tag == "HTML" {
			if lang, ok := cur.Attr("lang"); ok {
				result.Lang = lang
			}
		}

		class, _ := cur.Attr("class")
		id, _ := cur.Attr("id")
		matchString := class + " " + id

		if !isNodeVisible(cur) {
			cur = removeAndGetNext(cur)
			continue
		}

		if byline, ok := checkByline(cur, result.Byline != ""); ok {
			result.Byline = byline
			cur = removeAndGetNext(cur)
			continue
		}

		if shouldRemoveTitleHeader && headerDuplicatesTitle(cur, articleTitle) {
			shouldRemoveTitleHeader = false
			cur = removeAndGetNext(cur)
			continue
		}

		if flags&FlagStripUnlikelys != 0 {
			if RegexpUnlikelyCandidates.MatchString(matchString) &&
				!RegexpMaybeCandidate.MatchString(matchString) &&
				!hasAncestorTag(cur, "table", -1, nil) &&
				!hasAncestorTag(cur, "code", -1, nil) &&
				tag != "BODY" && tag != "A" {
				cur = removeAndGetNext(cur)
				continue
			}
			if role, ok := cur.Attr("role"); ok && UnlikelyRoles[role] {
				cur = removeAndGetNext(cur)
				continue
			}
		}

		if isEmptyableStructuralTag(tag) && isElementWithoutContent(cur) {
			cur = removeAndGetNext(cur)
			continue
		}

		if inTagSet(DefaultTagsToScore, tag) {
			elementsToScore = append(elementsToScore, cur)
		}

		if tag == "DIV" {
			simplifyDivs(cur)
			if hasSingleTagInsideElement(cur, "p") && getLinkDensity(cur) < 0.25 {
				pChild := cur.Children().First()
				cur.ReplaceWithSelection(pChild)
				elementsToScore = append(elementsToScore, pChild)
				cur = pChild
			} else if !hasChildBlockElement(cur) {
				cur = setNodeTag(cur, "p")
				elementsToScore = append(elementsToScore, cur)
			}
		}

		cur = nextNode(cur, false)
	}

	return elementsToScore
}

func isEmptyableStructuralTag(tag string) bool {
	switch tag {
	case "DIV", "SECTION", "HEADER", "H1", "H2", "H3", "H4", "H5", "H6":
		return true
	}
	return false
}

func inTagSet(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// headerDuplicatesTitle reports whether s is an H1/H2 whose text is a near
// match (text-similarity > 0.75) for the extracted article title (§4.5
// pass 1, §4.2).
func headerDuplicatesTitle(s *goquery.Selection, articleTitle string) bool {
	tag := nodeName(s)
	if tag != "H1" && tag != "H2" {
		return false
	}
	heading := getInnerText(s, false)
	if heading == "" || articleTitle == "" {
		return false
	}
	return textSimilarity(articleTitle, heading) > 0.75
}

// scoreParagraphs implements §4.5 pass 2 and §4.5.1: every scorable element
// with ≥25 characters of text contributes a paragraph score to up to 5
// ancestors, dividing by 1/2/level*3 and lazily initializing each ancestor's
// base score the first time it is seen. Returns the distinct ancestor
// nodes that received a score, in first-seen order.
func scoreParagraphs(elementsToScore []*goquery.Selection, ann *Annotations, flags Flags) []*goquery.Selection {
	var candidates []*goquery.Selection

	for _, elem := range elementsToScore {
		if elem.Parent().Length() == 0 {
			continue
		}
		innerText := getInnerText(elem, true)
		if len(innerText) < 25 {
			continue
		}
		ancestors := nodeAncestors(elem, 5)
		if len(ancestors) == 0 {
			continue
		}

		contentScore := 1.0
		contentScore += float64(countCommaLike(innerText) + 1)
		contentScore += math.Min(math.Floor(float64(len(innerText))/100.0), 3.0)

		for level, ancestor := range ancestors {
			if nodeName(ancestor) == "" || ancestor.Parent().Length() == 0 {
				continue
			}
			var divider float64
			switch level {
			case 0:
				divider = 1
			case 1:
				divider = 2
			default:
				divider = float64(level) * 3
			}

			if !ann.HasScore(ancestor) {
				ann.InitScore(ancestor, elementInitializer(ancestor, flags))
				candidates = append(candidates, ancestor)
			}
			ann.AddScore(ancestor, contentScore/divider)
		}
	}

	return candidates
}

func countCommaLike(s string) int {
	count := 0
	for _, r := range s {
		for _, c := range commaLikeRunes {
			if r == c {
				count++
				break
			}
		}
	}
	return count
}

// elementInitializer computes §4.5.1's base tag score plus, when
// WEIGHT_CLASSES is active, the class-weight bonus/penalty.
func elementInitializer(s *goquery.Selection, flags Flags) float64 {
	var base float64
	switch nodeName(s) {
	case "DIV":
		base = 5
	case "PRE", "TD", "BLOCKQUOTE":
		base = 3
	case "ADDRESS", "OL", "UL", "DL", "DD", "DT", "LI", "FORM":
		base = -3
	case "H1", "H2", "H3", "H4", "H5", "H6", "TH":
		base = -5
	}
	base += getClassWeight(s, flags)
	return base
}

// getClassWeight applies §4.5.1's class/id weighting, returning 0 when the
// WEIGHT_CLASSES flag has been relaxed away.
func getClassWeight(s *goquery.Selection, flags Flags) float64 {
	if flags&FlagWeightClasses == 0 {
		return 0
	}
	return classWeight(s)
}

// classWeight implements §4.5.1's class/id weighting: +25 for each of
// class/id matching the positive regex, −25 for each matching the
// negative regex (both may fire independently).
func classWeight(s *goquery.Selection) float64 {
	var weight float64
	if class, ok := s.Attr("class"); ok && class != "" {
		if RegexpPositive.MatchString(class) {
			weight += 25
		}
		if RegexpNegative.MatchString(class) {
			weight -= 25
		}
	}
	if id, ok := s.Attr("id"); ok && id != "" {
		if RegexpPositive.MatchString(id) {
			weight += 25
		}
		if RegexpNegative.MatchString(id) {
			weight -= 25
		}
	}
	return weight
}

// rankCandidates scales every candidate's contentScore by (1 - link
// density) — storing the scaled score, since sibling thresholds read it
// later — and returns up to nTopCandidates of them, descending (§4.5.2).
func rankCandidates(candidates []*goquery.Selection, ann *Annotations, nTopCandidates int) []*goquery.Selection {
	if len(candidates) == 0 {
		return nil
	}
	for _, c := range candidates {
		ann.SetScore(c, ann.Score(c)*(1-getLinkDensity(c)))
	}
	ranked := make([]*goquery.Selection, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ann.Score(ranked[i]) > ann.Score(ranked[j])
	})
	if nTopCandidates > 0 && len(ranked) > nTopCandidates {
		ranked = ranked[:nTopCandidates]
	}
	return ranked
}

// synthesizeTopCandidate builds the fallback <div> used when scoring found
// no usable candidate or picked <body> itself: body's children are moved
// into a fresh div appended under body (§4.5.2).
func synthesizeTopCandidate(body *goquery.Selection, ann *Annotations, flags Flags) *goquery.Selection {
	div := createElement("div")

	contents := body.Contents()
	moved := make([]*html.Node, contents.Length())
	copy(moved, contents.Nodes)
	for _, n := range moved {
		child := selOf(n)
		child.Remove()
		div.AppendSelection(child)
	}
	body.AppendSelection(div)
	ann.InitScore(div, elementInitializer(div, flags))
	return div
}

// promoteTopCandidate implements the three promotion walks of §4.5.2: the
// 3-ancestor-chain bubble-up among close-scoring alternates, the
// parent-score bubble-up bounded by lastScore/3, and the single-child
// ancestor promotion.
func promoteTopCandidate(t0 *goquery.Selection, topCandidates []*goquery.Selection, ann *Annotations, flags Flags) *goquery.Selection {
	t0 = promoteByAlternateAncestors(t0, topCandidates, ann)
	if !ann.HasScore(t0) {
		ann.InitScore(t0, elementInitializer(t0, flags))
	}
	t0 = promoteByParentScore(t0, ann)
	t0 = promoteSingleChildAncestors(t0)
	if !ann.HasScore(t0) {
		ann.InitScore(t0, elementInitializer(t0, flags))
	}
	return t0
}

func promoteByAlternateAncestors(t0 *goquery.Selection, topCandidates []*goquery.Selection, ann *Annotations) *goquery.Selection {
	t0Score := ann.Score(t0)
	if t0Score == 0 {
		return t0
	}

	var altAncestorChains [][]*html.Node
	for i := 1; i < len(topCandidates); i++ {
		c := topCandidates[i]
		if ann.Score(c)/t0Score < 0.75 {
			continue
		}
		chain := nodeAncestors(c, 0)
		nodes := make([]*html.Node, 0, len(chain))
		for _, a := range chain {
			nodes = append(nodes, node(a))
		}
		altAncestorChains = append(altAncestorChains, nodes)
	}
	if len(altAncestorChains) == 0 {
		return t0
	}

	for parent := t0.Parent(); parent.Length() > 0 && nodeName(parent) != "BODY"; parent = parent.Parent() {
		pNode := node(parent)
		count := 0
		for _, chain := range altAncestorChains {
			for _, n := range chain {
				if n == pNode {
					count++
					break
				}
			}
		}
		if count >= 3 {
			return parent
		}
	}
	return t0
}

func promoteByParentScore(t0 *goquery.Selection, ann *Annotations) *goquery.Selection {
	lastScore := ann.Score(t0)
	scoreThreshold := lastScore / 3

	for parent := t0.Parent(); parent.Length() > 0 && nodeName(parent) != "BODY"; parent = parent.Parent() {
		if !ann.HasScore(parent) {
			continue
		}
		parentScore := ann.Score(parent)
		if parentScore < scoreThreshold {
			break
		}
		if parentScore > lastScore {
			return parent
		}
		lastScore = parentScore
	}
	return t0
}

func promoteSingleChildAncestors(t0 *goquery.Selection) *goquery.Selection {
	for {
		parent := t0.Parent()
		if parent.Length() == 0 || nodeName(parent) == "BODY" {
			return t0
		}
		if parent.Children().Length() != 1 {
			return t0
		}
		t0 = parent
	}
}

// collectSiblings implements §4.5.3: the top candidate and any sibling
// meeting the relatedness thresholds are moved (not cloned — per §5's
// mutation discipline, appending detaches the sibling from its old
// position) into a fresh article container.
func collectSiblings(t0 *goquery.Selection, ann *Annotations) *goquery.Selection {
	article := createElement("div")
	article.SetAttr("id", "readability-content")

	t0Score := ann.Score(t0)
	threshold := math.Max(10, 0.2*t0Score)
	t0Class, _ := t0.Attr("class")

	parent := t0.Parent()
	if parent.Length() == 0 {
		appendToArticle(article, t0)
		return article
	}

	siblings := parent.Children()
	snapshot := make([]*html.Node, siblings.Length())
	copy(snapshot, siblings.Nodes)

	for _, n := range snapshot {
		sibling := selOf(n)
		isTop := sameNode(sibling, t0)

		shouldAppend := isTop
		if !shouldAppend && ann.HasScore(sibling) {
			score := ann.Score(sibling)
			bonus := 0.0
			if sc, ok := sibling.Attr("class"); ok && sc != "" && t0Class != "" && sc == t0Class {
				bonus = 0.2 * t0Score
			}
			shouldAppend = score+bonus >= threshold
		}
		if !shouldAppend && nodeName(sibling) == "P" {
			linkDensity := getLinkDensity(sibling)
			text := getInnerText(sibling, true)
			length := len(text)
			switch {
			case length > 80 && linkDensity < 0.25:
				shouldAppend = true
			case length > 0 && length < 80 && linkDensity == 0 && RegexpSentenceEnd.MatchString(text):
				shouldAppend = true
			}
		}

		if shouldAppend {
			appendToArticle(article, sibling)
		}
	}

	return article
}

func appendToArticle(article, sibling *goquery.Selection) {
	if !AlterToDivExceptions[nodeName(sibling)] {
		sibling = setNodeTag(sibling, "div")
	}
	sibling.Remove()
	article.AppendSelection(sibling)
}
