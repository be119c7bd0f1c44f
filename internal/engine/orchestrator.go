package engine

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Serializer renders an extracted article subtree to its final HTML string
// (§3, §9's "Serializer contract"). The bool result reports whether
// rendering actually happened: false is the identity variant, for callers
// that want to consume the subtree itself (Result.Content) rather than a
// rendered string.
type Serializer func(*goquery.Selection) (string, bool)

// DefaultSerializer renders content with goquery's OuterHtml, matching the
// reference implementation's default serializer.
func DefaultSerializer(content *goquery.Selection) (string, bool) {
	if content == nil || content.Length() == 0 {
		return "", true
	}
	out, err := goquery.OuterHtml(content)
	if err != nil {
		return "", true
	}
	return out, true
}

// IdentitySerializer is the pass-through variant of §9's serializer
// contract: it performs no rendering at all, leaving the subtree itself as
// the content to consume.
func IdentitySerializer(*goquery.Selection) (string, bool) {
	return "", false
}

// Options mirrors spec.md §3's enumerated option set. The zero value is not
// meaningful on its own; use NewOptions for the documented defaults.
type Options struct {
	Debug               bool
	MaxElemsToParse     int
	NbTopCandidates     int
	CharThreshold       int
	KeepClasses         bool
	ClassesToPreserve   []string
	DisableJSONLD       bool
	AllowedVideoRegex   *regexp.Regexp
	LinkDensityModifier float64
	Extraction          bool
	BaseURI             string
	Serializer          Serializer
}

// NewOptions returns the documented defaults (§3).
func NewOptions() Options {
	return Options{
		MaxElemsToParse:     DefaultMaxElemsToParse,
		NbTopCandidates:     DefaultNTopCandidates,
		CharThreshold:       DefaultCharThreshold,
		ClassesToPreserve:   append([]string(nil), DefaultClassesToPreserve...),
		AllowedVideoRegex:   RegexpVideos,
		Extraction:          true,
		Serializer:          DefaultSerializer,
	}
}

// Result is the extraction record of §3. All fields may be left at their
// zero value on total failure or when Options.Extraction is false.
type Result struct {
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
}

// Parse runs the full pipeline of §4.14 over doc: element-count enforcement,
// metadata extraction, pre-pass cleanup, and the flag-relaxation retry loop
// around the scorer/preparator, followed by post-processing.
func Parse(doc *goquery.Selection, opts Options) (*Result, error) {
	if doc == nil || doc.Length() == 0 {
		return nil, ErrNoDocument
	}
	logger := newLogger(opts.Debug)

	if opts.MaxElemsToParse > 0 {
		count := doc.Find("*").Length()
		if count > opts.MaxElemsToParse {
			return nil, &MaxElemsExceededError{Count: count, Max: opts.MaxElemsToParse}
		}
	}

	unwrapNoscriptImages(doc)
	meta := ExtractMetadata(doc, opts.DisableJSONLD)
	logger.Debugf("metadata: title=%q byline=%q siteName=%q", meta.Title, meta.Byline, meta.SiteName)

	result := &Result{
		Title:         meta.Title,
		Byline:        meta.Byline,
		SiteName:      meta.SiteName,
		Excerpt:       meta.Excerpt,
		PublishedTime: meta.PublishedTime,
	}

	if !opts.Extraction {
		result.Excerpt = ""
		return result, nil
	}

	removeCommentsScriptsAndStyles(doc)
	prepDocument(doc)

	bodySnapshot, ok := snapshotBody(doc)
	if !ok {
		return result, nil
	}

	ann := NewAnnotations()
	flags := allFlags
	charThreshold := opts.CharThreshold
	if charThreshold <= 0 {
		charThreshold = DefaultCharThreshold
	}

	var best *ScoreResult
	bestLen := -1

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			restoreBody(doc, bodySnapshot)
			ann = NewAnnotations()
		}

		scored := scoreDocument(doc, flags, defaultedTopCandidates(opts.NbTopCandidates), ann, result.Title)
		if scored.Byline != "" && result.Byline == "" {
			result.Byline = scored.Byline
		}
		if scored.Lang != "" {
			result.Lang = scored.Lang
		}

		PrepareArticle(scored.Article, ann, PrepareOptions{
			AllowedVideoRegex:   opts.AllowedVideoRegex,
			LinkDensityModifier: opts.LinkDensityModifier,
			CharThreshold:       charThreshold,
			Flags:               flags,
		})

		textLength := len(getInnerText(scored.Article, true))
		logger.Debugf("attempt %d: flags=%03b textLength=%d", attempt, flags, textLength)

		if textLength > bestLen {
			best = scored
			bestLen = textLength
		}

		if textLength >= charThreshold {
			break
		}

		next, relaxed := relaxFlags(flags)
		if !relaxed {
			break
		}
		flags = next
	}

	if best == nil || bestLen <= 0 {
		return result, nil
	}

	// The article subtree — the sibling collector's container, or the
	// synthetic top candidate itself when one had to be created — becomes
	// the readability-page-1 wrapper (§4.14).
	article := best.Article
	article.SetAttr("id", "readability-page-1")
	addClassToken(article, "page")

	result.Dir = best.Dir

	PostProcessContent(article, PostProcessOptions{
		BaseURI:           opts.BaseURI,
		ClassesToPreserve: classSet(opts.ClassesToPreserve),
		KeepClasses:       opts.KeepClasses,
	})

	result.Content = article
	result.TextContent = getInnerText(article, true)
	result.Length = len(result.TextContent)
	if result.Excerpt == "" {
		result.Excerpt = firstParagraphExcerpt(article)
	}

	return result, nil
}

func defaultedTopCandidates(n int) int {
	if n <= 0 {
		return DefaultNTopCandidates
	}
	return n
}

// relaxFlags clears the next flag in the STRIP_UNLIKELYS, WEIGHT_CLASSES,
// CLEAN_CONDITIONALLY order (§4.14), reporting whether anything was left to
// clear.
func relaxFlags(flags Flags) (Flags, bool) {
	switch {
	case flags&FlagStripUnlikelys != 0:
		return flags &^ FlagStripUnlikelys, true
	case flags&FlagWeightClasses != 0:
		return flags &^ FlagWeightClasses, true
	case flags&FlagCleanConditionally != 0:
		return flags &^ FlagCleanConditionally, true
	default:
		return flags, false
	}
}

// snapshotBody serializes <body>'s HTML so a failed attempt can be undone
// and retried against a clean slate (§3 Lifecycle, §5).
func snapshotBody(doc *goquery.Selection) (string, bool) {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return "", false
	}
	html, err := body.Html()
	if err != nil {
		return "", false
	}
	return html, true
}

func restoreBody(doc *goquery.Selection, snapshot string) {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return
	}
	body.SetHtml(snapshot)
}

// detectTextDirection scans the dir attribute on the top candidate, its
// parent, and ancestors, returning the first one found (§4.14).
func detectTextDirection(article *goquery.Selection) string {
	for s := article; s != nil && s.Length() > 0; s = s.Parent() {
		if dir, ok := s.Attr("dir"); ok && dir != "" {
			return dir
		}
	}
	return ""
}

func addClassToken(s *goquery.Selection, token string) {
	class, _ := s.Attr("class")
	for _, c := range strings.Fields(class) {
		if c == token {
			return
		}
	}
	if class == "" {
		s.SetAttr("class", token)
		return
	}
	s.SetAttr("class", class+" "+token)
}

func classSet(classes []string) map[string]bool {
	set := make(map[string]bool, len(classes))
	for _, c := range classes {
		set[c] = true
	}
	return set
}

// firstParagraphExcerpt is the excerpt fallback of §4.14: the first
// paragraph's trimmed text, when metadata supplied none.
func firstParagraphExcerpt(article *goquery.Selection) string {
	p := article.Find("p").First()
	if p.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(getInnerText(p, false))
}
