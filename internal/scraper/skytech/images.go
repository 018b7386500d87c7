package skytech

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"PriceScraper/utils"

	"github.com/PuerkitoBio/goquery"
)

var sizeSuffixRe = regexp.MustCompile(`_(thumb|small|medium|popup)\.`)

// ParseImages collects full-resolution gallery URLs with an ordered strategy
// cascade: the zoom anchor, a size-path rewrite of the main image, gallery
// anchors, hidden high-res anchors, and finally the JSON-LD image field.
// Results are de-duplicated preserving discovery order.
func (s *Scraper) ParseImages(doc *goquery.Document, base *url.URL) []string {
	var imageURLs []string

	// The zoom anchor points at the highest-quality rendition.
	if href, ok := doc.Find("a#zoom1").First().Attr("href"); ok && href != "" {
		imageURLs = append(imageURLs, utils.AbsoluteURL(base, href))
	}

	// No zoom target: rewrite the visible image's size path segments.
	if len(imageURLs) == 0 {
		if src, ok := doc.Find("a#zoom1 img").First().Attr("src"); ok && src != "" {
			large := src
			for _, size := range []string{"/thumb/", "/xsmall/", "/medium/"} {
				large = strings.ReplaceAll(large, size, "/large/")
			}
			large = strings.ReplaceAll(large, "_thumb.", "_popup.")
			imageURLs = append(imageURLs, utils.AbsoluteURL(base, large))

			if original := sizeSuffixRe.ReplaceAllString(src, "."); original != src {
				imageURLs = append(imageURLs, utils.AbsoluteURL(base, original))
			}
		}
	}

	doc.Find("div.additionalImages a, div.imageGallery a").Each(func(i int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); ok && href != "" {
			imageURLs = append(imageURLs, utils.AbsoluteURL(base, href))
		}
	})

	doc.Find(`div[style*="display:none"] a[href*="images/"], div.hidden a[href*="images/"]`).Each(func(i int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); ok && href != "" {
			imageURLs = append(imageURLs, utils.AbsoluteURL(base, href))
		}
	})

	imageURLs = append(imageURLs, jsonLDImages(doc)...)

	return utils.UniqueStrings(imageURLs)
}

// jsonLDImages pulls the "image" field out of a structured-data script. It
// may be a single URL or an array.
func jsonLDImages(doc *goquery.Document) []string {
	script := doc.Find(`script[type="application/ld+json"]`).First()
	if script.Length() == 0 {
		return nil
	}

	var data struct {
		Image json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil || len(data.Image) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(data.Image, &single); err == nil && single != "" {
		return []string{single}
	}
	var many []string
	if err := json.Unmarshal(data.Image, &many); err == nil {
		return many
	}
	return nil
}
