/*
Package readability extracts the primary readable article from an
arbitrary HTML document: its main textual body, title, byline, excerpt,
site name, language, direction, and published time.

Basic usage:

	import "github.com/arcreader/readability"

	doc, err := readability.NewFromHTML(htmlString, readability.NewOptions())
	if err != nil {
	    // Handle error
	}

	article, err := doc.Parse()
	if err != nil {
	    // Handle error
	}

	fmt.Println(article.Title)
	fmt.Println(article.TextContent)

The engine never parses an HTML string itself without first producing a
*goquery.Document; NewFromDocument accepts one directly for callers that
already hold a parsed tree (from an HTTP response body, a crawler, or a
previous parse).
*/
package readability
