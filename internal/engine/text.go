package engine

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// getInnerText returns the node's trimmed text content, optionally
// collapsing runs of whitespace to a single space (§4.2).
func getInnerText(s *goquery.Selection, normalizeSpaces bool) string {
	text := strings.TrimSpace(s.Text())
	if normalizeSpaces {
		text = RegexpNormalize.ReplaceAllString(text, " ")
	}
	return text
}

// wordCount returns the number of whitespace-delimited tokens in s.
func wordCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return len(strings.Fields(s))
}

// isWhitespace reports whether s is empty or made only of whitespace runes.
func isWhitespace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// getLinkDensity is the fraction of s's text contributed by <a> elements,
// with hash-only anchors (href starting with "#") discounted to weight 0.3
// since they are usually in-page footnotes rather than navigation (§4.2).
func getLinkDensity(s *goquery.Selection) float64 {
	textLength := len(getInnerText(s, true))
	if textLength == 0 {
		return 0
	}
	var linkLength float64
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		coefficient := 1.0
		if RegexpHashURL.MatchString(href) {
			coefficient = 0.3
		}
		linkLength += float64(len(getInnerText(a, true))) * coefficient
	})
	return linkLength / float64(textLength)
}

// textSimilarity implements Mozilla's asymmetric similarity measure, used
// to decide whether a JSON-LD headline matches the DOM-derived title and
// whether a header duplicates the article title (§4.2, worked example in
// §8). It is deliberately NOT Jaccard: the result is the fraction of b's
// tokens (by joined length) that appear nowhere in a, subtracted from 1,
// so swapping a and b changes the result.
func textSimilarity(a, b string) float64 {
	tokenize := func(s string) []string {
		// Fold fullwidth/halfwidth forms and NFC-normalize before
		// tokenizing so visually identical CJK/Latin variants of the same
		// title compare equal.
		s = width.Fold.String(s)
		s = norm.NFC.String(s)
		s = strings.ToLower(s)
		parts := RegexpTokenize.Split(s, -1)
		out := parts[:0]
		for _, p := range parts {
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensB) == 0 {
		return 0
	}

	// Plain set membership: once a token appears anywhere in A, every
	// occurrence of it in B counts as shared.
	inA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		inA[t] = true
	}

	var uniqueInB []string
	for _, t := range tokensB {
		if !inA[t] {
			uniqueInB = append(uniqueInB, t)
		}
	}

	lenB := len(strings.Join(tokensB, " "))
	if lenB == 0 {
		return 0
	}
	lenUniqueB := len(strings.Join(uniqueInB, " "))
	return 1 - float64(lenUniqueB)/float64(lenB)
}

// isValidByline reports whether a candidate byline string is non-empty and
// short enough (<100 chars after trimming) to plausibly be an author line
// rather than a stray paragraph (§4.7).
func isValidByline(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && len(s) < 100
}

// isPhrasingContent reports whether n is phrasing content per the fixed
// tag set, recursively for <a>/<del>/<ins> wrappers, which are phrasing
// only if every child is phrasing content too (§4.3).
func isPhrasingContent(s *goquery.Selection) bool {
	n := node(s)
	if n == nil {
		return false
	}
	if n.Type == html.TextNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	tag := nodeName(s)
	if PhrasingElems[tag] {
		return true
	}
	if tag == "A" || tag == "DEL" || tag == "INS" {
		allPhrasing := true
		s.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if !isPhrasingContent(c) {
				allPhrasing = false
				return false
			}
			return true
		})
		return allPhrasing
	}
	return false
}

// unescapeHTMLEntities resolves the five named entities this engine cares
// about (lt, gt, amp, quot, apos) plus numeric character references, the
// same narrow scope the teacher's metadata path uses rather than a full
// HTML-entity table (most metadata comes from attribute values already
// decoded by the parser; this only matters for JSON-LD string payloads).
func unescapeHTMLEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 || end > 12 {
			b.WriteByte(s[i])
			continue
		}
		entity := s[i+1 : i+end]
		if repl, ok := HTMLEscapeMap[entity]; ok {
			b.WriteString(repl)
			i += end
			continue
		}
		if strings.HasPrefix(entity, "#") {
			r, ok := decodeNumericEntity(entity[1:])
			if !ok {
				r = unicode.ReplacementChar
			}
			b.WriteRune(r)
			i += end
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func decodeNumericEntity(ref string) (rune, bool) {
	base := 10
	if strings.HasPrefix(ref, "x") || strings.HasPrefix(ref, "X") {
		base = 16
		ref = ref[1:]
	}
	if ref == "" {
		return 0, false
	}
	var n int64
	for _, c := range ref {
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return 0, false
		}
		n = n*int64(base) + d
	}
	if n < 0 || n > 0x10FFFF || (n >= 0xD800 && n <= 0xDFFF) {
		return 0, false
	}
	return rune(n), true
}
