package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// checkByline tests whether s looks like a byline element (§4.7): it must
// not already have one recorded, must have rel="author", an itemprop
// containing "author", or a class/id matching the byline regex, and its
// text must pass isValidByline. Returns the byline text and true if it
// matches.
func checkByline(s *goquery.Selection, haveByline bool) (string, bool) {
	if haveByline {
		return "", false
	}

	rel, _ := s.Attr("rel")
	itemprop, _ := s.Attr("itemprop")
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")

	matches := rel == "author" ||
		strings.Contains(strings.ToLower(itemprop), "author") ||
		RegexpByline.MatchString(class) ||
		RegexpByline.MatchString(id)
	if !matches {
		return "", false
	}

	text := getInnerText(s, true)
	if isValidByline(text) {
		return text, true
	}
	return "", false
}
