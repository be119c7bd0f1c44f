package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// getArticleTitle implements the title heuristic of §4.11. It prefers the
// <title> element, trims a hierarchical "Site Name | Article Title"
// separator, falls back to a colon-delimited title or the sole <h1>, and
// reverts to the original <title> text if the reduction was too
// aggressive.
func getArticleTitle(doc *goquery.Selection) string {
	origTitle := strings.TrimSpace(doc.Find("title").First().Text())
	docTitle := origTitle

	hadSeparator := RegexpTitleSeparator.MatchString(origTitle)

	switch {
	case hadSeparator:
		docTitle = RegexpTitleTrailingSplit.ReplaceAllString(docTitle, "$1")
		if wordCount(docTitle) < 3 {
			docTitle = RegexpTitleLeadingSplit.ReplaceAllString(origTitle, "$1")
		}

	case strings.Contains(docTitle, ": "):
		matchFound := false
		doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.TrimSpace(s.Text()) == docTitle {
				matchFound = true
				return false
			}
			return true
		})
		if !matchFound {
			lastColon := strings.LastIndex(origTitle, ":")
			firstColon := strings.Index(origTitle, ":")
			if lastColon != -1 {
				docTitle = strings.TrimSpace(origTitle[lastColon+1:])
				if wordCount(docTitle) < 3 {
					docTitle = strings.TrimSpace(origTitle[firstColon+1:])
				} else if wordCount(strings.TrimSpace(origTitle[:firstColon])) > 5 {
					docTitle = origTitle
				}
			}
		}

	case docTitle == "" || len(docTitle) > 150 || len(docTitle) < 15:
		h1s := doc.Find("h1")
		if h1s.Length() == 1 {
			docTitle = strings.TrimSpace(h1s.Text())
		}
	}

	docTitle = strings.TrimSpace(RegexpNormalize.ReplaceAllString(docTitle, " "))

	if wordCount(docTitle) <= 4 {
		strippedCount := wordCount(RegexpTitleSeparatorAny.ReplaceAllString(origTitle, ""))
		if !hadSeparator || strippedCount-wordCount(docTitle) > 1 {
			docTitle = origTitle
		}
	}

	return docTitle
}
