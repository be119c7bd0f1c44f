package engine

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Metadata is the set of document-level fields extracted by §4.12, before
// being folded into the final result record.
type Metadata struct {
	Title         string
	Byline        string
	Excerpt       string
	SiteName      string
	PublishedTime string
}

// ExtractMetadata runs the JSON-LD and <meta>-tag extraction of §4.12: the
// JSON-LD payload (when present and enabled) takes priority, then a
// prefix-ordered scan of <meta name>/<meta property> values, and finally
// the DOM-derived title as the last resort. Every string field is
// HTML-entity-unescaped before being returned.
func ExtractMetadata(doc *goquery.Selection, disableJSONLD bool) Metadata {
	articleTitle := getArticleTitle(doc)
	values := scanMetaTags(doc)

	var jsonLD jsonLDResult
	if !disableJSONLD {
		jsonLD = extractJSONLD(doc, articleTitle)
	}

	meta := Metadata{
		Title:         firstNonEmpty(jsonLD.Title, lookupMetaField(values, "title"), articleTitle),
		Byline:        firstNonEmpty(jsonLD.Byline, lookupMetaField(values, "creator"), lookupMetaField(values, "author")),
		Excerpt:       firstNonEmpty(jsonLD.Excerpt, lookupMetaField(values, "description")),
		SiteName:      firstNonEmpty(jsonLD.SiteName, lookupMetaField(values, "site_name")),
		PublishedTime: firstNonEmpty(jsonLD.Date, lookupMetaField(values, "published_time"), lookupMetaField(values, "pub-date")),
	}

	meta.Title = unescapeHTMLEntities(meta.Title)
	meta.Byline = unescapeHTMLEntities(meta.Byline)
	meta.Excerpt = unescapeHTMLEntities(meta.Excerpt)
	meta.SiteName = unescapeHTMLEntities(meta.SiteName)
	meta.PublishedTime = unescapeHTMLEntities(meta.PublishedTime)

	return meta
}

// metaPrefixOrder is the fallback priority of §4.12's <meta> scan: JSON-LD
// is tried by the caller first; this covers article: → dc: → dcterm: →
// og: → weibo:…: → bare → twitter: → parsely. The parsely keys keep their
// dash separator ("parsely-author"), everything else joins with a colon.
var metaPrefixOrder = []string{"article", "dc", "dcterm", "og", "weibo:article", "weibo:webpage", "", "twitter", "parsely"}

func lookupMetaField(values map[string]string, field string) string {
	for _, prefix := range metaPrefixOrder {
		key := field
		switch prefix {
		case "":
		case "parsely":
			key = prefix + "-" + field
		default:
			key = prefix + ":" + field
		}
		if v := values[key]; v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// scanMetaTags builds the normalized key→content map from every <meta>
// whose property or name attribute matches the known field regexes (§4.12):
// keys are lowercased, spaces removed, dots turned into colons.
func scanMetaTags(doc *goquery.Selection) map[string]string {
	values := make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		if property, ok := s.Attr("property"); ok && RegexpMetaProperty.MatchString(property) {
			values[normalizeMetaKey(property)] = content
		}
		if name, ok := s.Attr("name"); ok && RegexpMetaName.MatchString(name) {
			values[normalizeMetaKey(name)] = content
		}
	})
	return values
}

func normalizeMetaKey(raw string) string {
	key := strings.ToLower(strings.ReplaceAll(raw, " ", ""))
	return strings.ReplaceAll(key, ".", ":")
}

// jsonLDResult is what a single successfully-matched JSON-LD script
// contributes; the first script to satisfy §4.12's @context/@type
// requirements wins and later scripts are not consulted.
type jsonLDResult struct {
	Title    string
	Byline   string
	Excerpt  string
	SiteName string
	Date     string
}

// extractJSONLD finds every <script type="application/ld+json">, via an
// XPath selection over the already-parsed document tree, and decodes the
// first one whose @context is schema.org and whose @type (directly, or via
// the first matching @graph entry) is in the Article family (§4.12).
// Malformed JSON is a tolerated anomaly (§7): the script is skipped, not
// fatal.
func extractJSONLD(doc *goquery.Selection, articleTitle string) jsonLDResult {
	var result jsonLDResult

	root := node(doc)
	if root == nil {
		return result
	}
	scripts, err := htmlquery.QueryAll(root, "//script[@type='application/ld+json']")
	if err != nil {
		return result
	}

	for _, n := range scripts {
		content := RegexpJSONLDCDATA.ReplaceAllString(htmlquery.InnerText(n), "")

		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(content), &payload); err != nil {
			continue
		}

		obj := payload
		ctx, _ := obj["@context"].(string)
		if !RegexpSchemaOrgContext.MatchString(ctx) {
			continue
		}
		if _, hasType := obj["@type"]; !hasType {
			graph, ok := obj["@graph"].([]interface{})
			if !ok {
				continue
			}
			match, found := firstArticleInGraph(graph)
			if !found {
				continue
			}
			obj = match
		}

		typ, hasType := obj["@type"]
		if !hasType || !jsonLDTypeMatches(typ) {
			continue
		}

		result = jsonLDResultFrom(obj, articleTitle)
		return result
	}

	return result
}

func firstArticleInGraph(graph []interface{}) (map[string]interface{}, bool) {
	for _, item := range graph {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if t, ok := m["@type"]; ok && jsonLDTypeMatches(t) {
			return m, true
		}
	}
	return nil, false
}

func jsonLDTypeMatches(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return RegexpJSONLDArticleType.MatchString(t)
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && RegexpJSONLDArticleType.MatchString(s) {
				return true
			}
		}
	}
	return false
}

func jsonLDResultFrom(obj map[string]interface{}, articleTitle string) jsonLDResult {
	var result jsonLDResult

	name, _ := obj["name"].(string)
	headline, _ := obj["headline"].(string)
	switch {
	case name != "" && headline != "":
		nameMatches := textSimilarity(articleTitle, name) > 0.75
		headlineMatches := textSimilarity(articleTitle, headline) > 0.75
		if headlineMatches && !nameMatches {
			result.Title = headline
		} else {
			result.Title = name
		}
	case name != "":
		result.Title = name
	case headline != "":
		result.Title = headline
	}

	if author, ok := obj["author"]; ok {
		result.Byline = jsonLDAuthorName(author)
	}
	if desc, ok := obj["description"].(string); ok {
		result.Excerpt = desc
	}
	if pub, ok := obj["publisher"]; ok {
		result.SiteName = jsonLDNestedName(pub)
	}
	if date, ok := obj["datePublished"].(string); ok {
		result.Date = date
	}

	return result
}

// jsonLDAuthorName resolves the polymorphic JSON-LD author field: a plain
// string, a single {name} object, or an array of either, comma-joined.
func jsonLDAuthorName(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		name, _ := t["name"].(string)
		return name
	case []interface{}:
		var names []string
		for _, item := range t {
			switch it := item.(type) {
			case string:
				if it != "" {
					names = append(names, it)
				}
			case map[string]interface{}:
				if name, ok := it["name"].(string); ok && name != "" {
					names = append(names, name)
				}
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

func jsonLDNestedName(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		name, _ := t["name"].(string)
		return name
	}
	return ""
}
