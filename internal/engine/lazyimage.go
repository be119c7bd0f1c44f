package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fixLazyImages repairs lazy-loaded <img>/<picture>/<figure> elements whose
// real image URL lives in a data-* attribute instead of src/srcset (§4.9).
func fixLazyImages(root *goquery.Selection) {
	root.Find("img, picture, figure").Each(func(_ int, elem *goquery.Selection) {
		if src, ok := elem.Attr("src"); ok {
			if m := RegexpB64DataURL.FindStringSubmatch(src); m != nil && m[1] != "image/svg+xml" {
				if hasOtherImageURLAttr(elem) && base64PayloadSize(src) < 133 {
					elem.RemoveAttr("src")
				}
			}
		}

		var imageAttr string
		n := node(elem)
		for _, attr := range n.Attr {
			if attr.Key == "src" || attr.Key == "srcset" || attr.Key == "alt" {
				continue
			}
			switch {
			case RegexpSrcsetCandidate.MatchString(attr.Val):
				elem.SetAttr("srcset", attr.Val)
				imageAttr = attr.Val
			case RegexpSingleImageURL.MatchString(attr.Val):
				elem.SetAttr("src", attr.Val)
				imageAttr = attr.Val
			}
		}

		if imageAttr != "" && nodeName(elem) == "FIGURE" && elem.Find("img").Length() == 0 {
			img := createElement("img")
			img.SetAttr("src", imageAttr)
			elem.AppendSelection(img)
		}
	})
}

func hasOtherImageURLAttr(elem *goquery.Selection) bool {
	n := node(elem)
	for _, attr := range n.Attr {
		if attr.Key == "src" {
			continue
		}
		if RegexpImageExtension.MatchString(attr.Val) {
			return true
		}
	}
	return false
}

// base64PayloadSize returns the byte length of the base64 payload after
// "base64,", or -1 if the marker is absent.
func base64PayloadSize(src string) int {
	idx := strings.Index(src, "base64,")
	if idx < 0 {
		return -1
	}
	return len(src) - (idx + len("base64,"))
}
