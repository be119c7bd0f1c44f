package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// newTestDoc parses an HTML fragment for use across this package's tests.
func newTestDoc(fragment string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}
	return doc.Selection, nil
}
