package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// isNodeVisible reports whether s should be treated as visible content
// (§4.10): hidden via aria-modal="true", role="dialog", the boolean
// "hidden" attribute, an inline display:none/visibility:hidden style, or
// aria-hidden="true" (unless it carries the fallback-image class some
// sites use to mark a noscript placeholder) are all invisible.
func isNodeVisible(s *goquery.Selection) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	if ariaModal, ok := s.Attr("aria-modal"); ok && ariaModal == "true" {
		return false
	}
	if role, ok := s.Attr("role"); ok && role == "dialog" {
		return false
	}
	if _, ok := s.Attr("hidden"); ok {
		return false
	}
	if style, ok := s.Attr("style"); ok {
		if styleDeclares(style, "display", "none") ||
			styleDeclares(style, "visibility", "hidden") {
			return false
		}
	}
	if ariaHidden, ok := s.Attr("aria-hidden"); ok && ariaHidden == "true" {
		class, _ := s.Attr("class")
		if !hasClass(class, "fallback-image") {
			return false
		}
	}
	return true
}

func hasClass(classAttr, want string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == want {
			return true
		}
	}
	return false
}

// styleDeclares does a loose, case-insensitive scan of an inline style
// attribute for `property: value`, tolerant of extra whitespace and
// trailing declarations.
func styleDeclares(style, property, value string) bool {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k), property) &&
			strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
	}
	return false
}
