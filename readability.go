package readability

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/arcreader/readability/internal/engine"
)

// Options is the full enumerated option set of §3: debug tracing, parse
// limits, scoring tunables, class handling, JSON-LD toggling, the allowed
// video host pattern, and extraction/base-URI controls.
type Options = engine.Options

// NewOptions returns the documented defaults: nbTopCandidates=5,
// charThreshold=500, classesToPreserve=["page"], extraction enabled,
// allowedVideoRegex set to the common video-host pattern, serializer set
// to DefaultSerializer.
func NewOptions() Options {
	return engine.NewOptions()
}

// Serializer renders an extracted article subtree to its final HTML
// string (§3, §9). Assign a custom one to Options.Serializer to plug in
// alternate rendering; IdentitySerializer is the documented no-op variant
// for callers that want the subtree itself instead of a rendered string.
type Serializer = engine.Serializer

// DefaultSerializer renders with goquery's OuterHtml.
var DefaultSerializer = engine.DefaultSerializer

// IdentitySerializer performs no rendering, leaving Article.Content (the
// subtree) as the content to consume; ContentHTML returns "" under it.
var IdentitySerializer = engine.IdentitySerializer

// Article is the extraction result record. Every field may be left at its
// zero value on total failure or when Options.Extraction is false.
type Article struct {
	Title         string
	Byline        string
	Dir           string
	Lang          string
	Content       *goquery.Selection
	TextContent   string
	Length        int
	Excerpt       string
	SiteName      string
	PublishedTime string

	serializer engine.Serializer
}

// Document wraps a parsed HTML tree together with the options that will
// govern its extraction. Construct one with NewFromDocument, NewFromHTML,
// or NewFromReader, then call Parse.
type Document struct {
	selection *goquery.Selection
	options   Options
}

// NewFromDocument constructs a Document from an already-parsed
// *goquery.Document. It fails if doc is nil (§6: "The constructor fails
// when the document handle is absent").
func NewFromDocument(doc *goquery.Document, opts Options) (*Document, error) {
	if doc == nil || doc.Selection == nil {
		return nil, engine.ErrNoDocument
	}
	return &Document{selection: doc.Selection, options: opts}, nil
}

// NewFromHTML parses html and constructs a Document over the result.
func NewFromHTML(html string, opts Options) (*Document, error) {
	return NewFromReader(strings.NewReader(html), opts)
}

// NewFromReader parses the HTML read from r and constructs a Document over
// the result.
func NewFromReader(r io.Reader, opts Options) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return NewFromDocument(doc, opts)
}

// Parse runs the extraction pipeline (§4.14) and returns the result
// record. It never fails except for the two fatal categories of §7:
// missing document handle (returned at construction, not here) and
// maxElemsToParse exceeded.
func (d *Document) Parse() (*Article, error) {
	result, err := engine.Parse(d.selection, d.options)
	if err != nil {
		return nil, err
	}
	return &Article{
		Title:         result.Title,
		Byline:        result.Byline,
		Dir:           result.Dir,
		Lang:          result.Lang,
		Content:       result.Content,
		TextContent:   result.TextContent,
		Length:        result.Length,
		Excerpt:       result.Excerpt,
		SiteName:      result.SiteName,
		PublishedTime: result.PublishedTime,
		serializer:    d.options.Serializer,
	}, nil
}

// ContentHTML renders an article's extracted subtree to an HTML string
// using the configured Options.Serializer (§3, §9). With the default
// serializer this is goquery's OuterHtml; with IdentitySerializer (or any
// serializer reporting ok=false) it returns "" and callers are expected to
// consume Content (the subtree) directly. A nil or empty Content (no
// successful extraction) always renders as "".
func (a *Article) ContentHTML() string {
	if a.Content == nil || a.Content.Length() == 0 {
		return ""
	}
	serialize := a.serializer
	if serialize == nil {
		serialize = engine.DefaultSerializer
	}
	html, ok := serialize(a.Content)
	if !ok {
		return ""
	}
	return html
}

// DefaultVideoHosts is re-exported so callers building a custom
// allowedVideoRegex can extend rather than replace the built-in pattern.
var DefaultVideoHosts = engine.RegexpVideos
