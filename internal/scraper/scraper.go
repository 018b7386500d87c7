package scraper

import (
	"net/url"

	"PriceScraper/internal/models"
	"PriceScraper/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
)

// Consent describes how a site's cookie dialog is dismissed. Absence of any
// match is not an error.
type Consent struct {
	// Selectors are tried in order as CSS queries.
	Selectors []string
	// ButtonText, when set, is matched against button text as a fallback.
	ButtonText string
}

// CategorySpec is either a fixed literal ("laptops") or a localized category
// that gets resolved against the store's categories collection.
type CategorySpec struct {
	Literal string
	Remote  *models.Category
}

// Adapter captures everything site-specific: where to start, how to read a
// listing row, how to find the next page, and how to mine the detail page.
// One shared engine drives every adapter.
type Adapter interface {
	// Source is the fixed identifier written to every record ("skytech").
	Source() string
	// BaseURL anchors relative hrefs.
	BaseURL() string
	// CategoryURL is the listing entry point.
	CategoryURL() string
	// KeyStrategy picks the natural key for upserts.
	KeyStrategy() models.KeyStrategy
	// Category is the category assigned to every product of this run.
	Category() CategorySpec
	// Consent describes the cookie dialog, if any.
	Consent() Consent

	// RowSelectors are candidate listing-row selectors, tried in order until
	// one yields elements. The first one doubles as the content-ready wait.
	RowSelectors() []string
	// ParseRow extracts one product from a listing row. ok=false means the
	// row lacks required fields (name or price) and is skipped.
	ParseRow(row *goquery.Selection, base *url.URL) (p *models.Product, ok bool)
	// NextPageURL returns the absolute URL of the next listing page, or ""
	// when pagination is exhausted.
	NextPageURL(doc *goquery.Document, current *url.URL, pageNum int) string

	// NeedsDetail reports whether products get enriched from their own page.
	NeedsDetail() bool
	// PrepareDetail runs before the detail page HTML is captured, for sites
	// that hide specifications behind a tab click.
	PrepareDetail(page *rod.Page)
	// ParseSpecs mines the detail page for specification key/value pairs.
	ParseSpecs(doc *goquery.Document) map[string]string
	// ParseImages mines the detail page for full-resolution image URLs,
	// de-duplicated in discovery order. Index 0 is the thumbnail.
	ParseImages(doc *goquery.Document, base *url.URL) []string
}

// Base provides no-op defaults for the detail-page hooks so listing-only
// adapters stay small.
type Base struct{}

func (Base) NeedsDetail() bool                                  { return false }
func (Base) PrepareDetail(page *rod.Page)                       {}
func (Base) ParseSpecs(doc *goquery.Document) map[string]string { return map[string]string{} }
func (Base) ParseImages(*goquery.Document, *url.URL) []string   { return nil }

// FindNextLink implements the common "next" control lookup shared by the grid
// sites: explicit next classes first, then rel="next".
func FindNextLink(doc *goquery.Document, current *url.URL) string {
	for _, sel := range []string{"a.next-page", `a[rel="next"]`, "a.pagination-next", "li.next a"} {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && href != "" {
			return utils.AbsoluteURL(current, href)
		}
	}
	return ""
}
