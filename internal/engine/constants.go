// Package engine implements the Readability extraction pipeline: tree and
// text utilities, the candidate scorer, the article preparator, metadata
// extraction, and the retry orchestrator described in spec.md.
package engine

import "regexp"

// Flags control which optional passes the scorer and preparator apply.
// The orchestrator relaxes them one at a time on retry (§4.14).
type Flags uint8

const (
	FlagStripUnlikelys Flags = 1 << iota
	FlagWeightClasses
	FlagCleanConditionally
)

const allFlags = FlagStripUnlikelys | FlagWeightClasses | FlagCleanConditionally

// Defaults mirror §3's enumerated options.
const (
	DefaultMaxElemsToParse = 0
	DefaultNTopCandidates  = 5
	DefaultCharThreshold   = 500
)

// DefaultTagsToScore are the scorable element tags (§4.5, Scorable element).
var DefaultTagsToScore = []string{"SECTION", "H2", "H3", "H4", "H5", "H6", "P", "TD", "PRE"}

// DefaultClassesToPreserve seeds Options.ClassesToPreserve. A caller that
// supplies its own list replaces this one outright; listing "page" again is
// the caller's responsibility if the wrapper's class should survive
// class cleaning.
var DefaultClassesToPreserve = []string{"page"}

// UnlikelyRoles are ARIA roles that mark a node as non-content (§4.5 pass 1).
var UnlikelyRoles = map[string]bool{
	"menu": true, "menubar": true, "complementary": true,
	"navigation": true, "alert": true, "alertdialog": true, "dialog": true,
}

// DivToPElems are block-level tags that disqualify a div from being
// unwrapped into a <p> (§4.5 pass 1).
var DivToPElems = map[string]bool{
	"BLOCKQUOTE": true, "DL": true, "DIV": true, "IMG": true, "OL": true,
	"P": true, "PRE": true, "TABLE": true, "UL": true,
}

// AlterToDivExceptions are tags that sibling-inclusion (§4.5.3) never
// renames to <div> because they already carry acceptable semantics.
var AlterToDivExceptions = map[string]bool{
	"DIV": true, "ARTICLE": true, "SECTION": true, "P": true,
}

// PresentationalAttributes are stripped from every element in the
// collected subtree (§4.6 step 1).
var PresentationalAttributes = []string{
	"align", "background", "bgcolor", "border", "cellpadding", "cellspacing",
	"frame", "hspace", "rules", "style", "valign", "vspace",
}

// DeprecatedSizeAttributeElems are the tags allowed to keep width/height
// (§4.6 step 1).
var DeprecatedSizeAttributeElems = map[string]bool{
	"TABLE": true, "TH": true, "TD": true, "HR": true, "PRE": true,
}

// PhrasingElems is the fixed phrasing-content tag set (§4.3).
var PhrasingElems = map[string]bool{
	"ABBR": true, "AUDIO": true, "B": true, "BDO": true, "BR": true,
	"BUTTON": true, "CITE": true, "CODE": true, "DATA": true,
	"DATALIST": true, "DFN": true, "EM": true, "EMBED": true, "I": true,
	"IMG": true, "INPUT": true, "KBD": true, "LABEL": true, "MARK": true,
	"MATH": true, "METER": true, "NOSCRIPT": true, "OBJECT": true,
	"OUTPUT": true, "PROGRESS": true, "Q": true, "RUBY": true, "SAMP": true,
	"SCRIPT": true, "SELECT": true, "SMALL": true, "SPAN": true,
	"STRONG": true, "SUB": true, "SUP": true, "TEXTAREA": true,
	"TIME": true, "VAR": true, "WBR": true,
}

// HTMLEscapeMap covers the five named entities used by unescapeHTMLEntities.
var HTMLEscapeMap = map[string]string{
	"lt": "<", "gt": ">", "amp": "&", "quot": "\"", "apos": "'",
}

// Regular expressions driving the heuristics, per spec.md §9 ("compiled
// once, read-only, safe to share").
var (
	RegexpUnlikelyCandidates = regexp.MustCompile(`-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`)
	RegexpMaybeCandidate     = regexp.MustCompile(`and|article|body|column|content|main|shadow`)
	RegexpPositive           = regexp.MustCompile(`article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story`)
	RegexpNegative           = regexp.MustCompile(`-ad-|hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|foot|footer|footnote|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|tool|widget`)
	RegexpByline             = regexp.MustCompile(`(?i)byline|author|dateline|writtenby|p-author`)
	RegexpReplaceFonts       = regexp.MustCompile(`(?i)<(/?)font[^>]*>`)
	RegexpNormalize          = regexp.MustCompile(`\s{2,}`)
	RegexpVideos             = regexp.MustCompile(`//(www\.)?((dailymotion|youtube|youtube-nocookie|player\.vimeo|v\.qq)\.com|(archive|upload\.wikimedia)\.org|player\.twitch\.tv)`)
	RegexpShareElements      = regexp.MustCompile(`(\b|_)(share|sharedaddy)(\b|_)`)
	RegexpTokenize           = regexp.MustCompile(`\W+`)
	RegexpWhitespace         = regexp.MustCompile(`^\s*$`)
	RegexpHashURL            = regexp.MustCompile(`^#.+`)
	RegexpSrcsetURL          = regexp.MustCompile(`(\S+)(\s+[\d.]+[xw])?(\s*(?:,|$))`)
	RegexpB64DataURL         = regexp.MustCompile(`(?i)^data:\s*([^\s;,]+)\s*;\s*base64\s*,`)
	RegexpImageExtension     = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)`)
	RegexpSrcsetCandidate    = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)\s+\d`)
	RegexpSingleImageURL     = regexp.MustCompile(`(?i)^\s*\S+\.(jpg|jpeg|png|webp)\S*\s*$`)
	RegexpTitleSeparator     = regexp.MustCompile(` [\|\-/>»] `)
	RegexpTitleSeparatorAny  = regexp.MustCompile(`[\|\-/>»]+`)
	RegexpTitleTrailingSplit = regexp.MustCompile(`(.*)[\|\-/>»] .*`)
	RegexpTitleLeadingSplit  = regexp.MustCompile(`[^\|\-/>»]*[\|\-/>»](.*)`)
	RegexpJSONLDArticleType  = regexp.MustCompile(`^(Article|AdvertiserContentArticle|NewsArticle|AnalysisNewsArticle|AskPublicNewsArticle|BackgroundNewsArticle|OpinionNewsArticle|ReportageNewsArticle|ReviewNewsArticle|Report|SatiricalArticle|ScholarlyArticle|MedicalScholarlyArticle|SocialMediaPosting|BlogPosting|LiveBlogPosting|DiscussionForumPosting|TechArticle|APIReference)$`)
	RegexpMetaProperty       = regexp.MustCompile(`(?i)^\s*(article|dc|dcterm|og|twitter)\s*:\s*(author|creator|description|published_time|title|site_name)\s*$`)
	RegexpMetaName           = regexp.MustCompile(`(?i)^\s*(?:(dc|dcterm|og|twitter|parsely|weibo:(article|webpage))\s*[-.:]\s*)?(author|creator|pub-date|description|title|site_name)\s*$`)
	RegexpJSONLDCDATA        = regexp.MustCompile(`^\s*<!\[CDATA\[|\]\]>\s*$`)
	RegexpSchemaOrgContext   = regexp.MustCompile(`^https?://schema\.org/?$`)
	RegexpSentenceEnd        = regexp.MustCompile(`\.( |$)`)
)

// commaLikeRunes are the Unicode characters treated as commas by the
// candidate scorer's split-count bonus (§4.5 pass 2): U+002C, U+060C,
// U+FE50, U+FE10, U+FE11, U+2E41, U+2E34, U+2E32, U+FF0C.
var commaLikeRunes = []rune{
	0x002C, 0x060C, 0xFE50, 0xFE10, 0xFE11, 0x2E41, 0x2E34, 0x2E32, 0xFF0C,
}
