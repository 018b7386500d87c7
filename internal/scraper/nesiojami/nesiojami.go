// Package nesiojami scrapes the laptop listings of nesiojami.lt. The shop is
// a WooCommerce storefront: product cards in a grid, rel="next" pagination,
// an attributes table on the product page, and gallery anchors wrapping the
// full-size photos.
package nesiojami

import (
	"net/url"
	"strings"

	"PriceScraper/internal/models"
	"PriceScraper/internal/scraper"
	"PriceScraper/utils"

	"github.com/PuerkitoBio/goquery"
)

type Scraper struct {
	scraper.Base
	baseURL     string
	categoryURL string
}

func New(baseURL, categoryURL string) *Scraper {
	return &Scraper{baseURL: baseURL, categoryURL: categoryURL}
}

func (s *Scraper) Source() string { return "nesiojami" }
func (s *Scraper) BaseURL() string { return s.baseURL }
func (s *Scraper) CategoryURL() string { return s.categoryURL }
func (s *Scraper) KeyStrategy() models.KeyStrategy { return models.KeyByURL }

func (s *Scraper) Category() scraper.CategorySpec {
	return scraper.CategorySpec{Remote: &models.Category{
		NameLT: "Nešiojami kompiuteriai",
		NameEN: "Laptops",
	}}
}

func (s *Scraper) Consent() scraper.Consent {
	return scraper.Consent{
		Selectors: []string{".cookie-notice-container .cn-set-cookie", "#cookie_action_close_header"},
	}
}

func (s *Scraper) RowSelectors() []string {
	return []string{"ul.products li.product", ".products .product-item"}
}

func (s *Scraper) ParseRow(row *goquery.Selection, base *url.URL) (*models.Product, bool) {
	nameEl := row.Find(".woocommerce-loop-product__title, h3.product-title").First()
	priceEl := row.Find(".price .amount, .price").First()
	if nameEl.Length() == 0 || priceEl.Length() == 0 {
		return nil, false
	}

	p := &models.Product{
		Name:  strings.TrimSpace(nameEl.Text()),
		Price: utils.ParsePrice(priceEl.Text()),
	}
	if p.Name == "" {
		return nil, false
	}

	if href, ok := row.Find("a").First().Attr("href"); ok {
		p.URL = utils.AbsoluteURL(base, href)
	}
	if src, ok := row.Find("img").First().Attr("src"); ok && src != "" {
		p.ImageURLs = models.JSONStringSlice{utils.AbsoluteURL(base, src)}
	}
	if stock := strings.TrimSpace(row.Find(".stock").First().Text()); stock != "" {
		p.StockText = stock
		p.Stock = utils.ParseStock(stock)
	}

	return p, true
}

func (s *Scraper) NextPageURL(doc *goquery.Document, current *url.URL, pageNum int) string {
	if href, ok := doc.Find("a.next.page-numbers").First().Attr("href"); ok && href != "" {
		return utils.AbsoluteURL(current, href)
	}
	return scraper.FindNextLink(doc, current)
}

func (s *Scraper) NeedsDetail() bool { return true }

// ParseSpecs reads the WooCommerce attributes table, falling back to "key:
// value" lines in the short description.
func (s *Scraper) ParseSpecs(doc *goquery.Document) map[string]string {
	specs := map[string]string{}

	doc.Find("table.woocommerce-product-attributes tr, #specifications table tr").Each(func(i int, row *goquery.Selection) {
		key := strings.TrimRight(strings.TrimSpace(row.Find("th").First().Text()), ":")
		value := strings.TrimSpace(row.Find("td").First().Text())
		if key == "" {
			cells := row.Find("td")
			if cells.Length() >= 2 {
				key = strings.TrimRight(strings.TrimSpace(cells.Eq(0).Text()), ":")
				value = strings.TrimSpace(cells.Eq(1).Text())
			}
		}
		if key != "" && value != "" {
			if _, exists := specs[key]; !exists {
				specs[key] = value
			}
		}
	})

	if len(specs) == 0 {
		doc.Find(".woocommerce-product-details__short-description p, .product-description p").Each(func(i int, block *goquery.Selection) {
			text := block.Text()
			if !strings.Contains(text, ":") {
				return
			}
			parts := strings.SplitN(text, ":", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if key != "" && value != "" {
				if _, exists := specs[key]; !exists {
					specs[key] = value
				}
			}
		})
	}

	return specs
}

// ParseImages collects the full-size photos wrapped by the gallery anchors.
func (s *Scraper) ParseImages(doc *goquery.Document, base *url.URL) []string {
	var imageURLs []string

	doc.Find(".woocommerce-product-gallery__image a, .product-gallery a").Each(func(i int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); ok && href != "" {
			imageURLs = append(imageURLs, utils.AbsoluteURL(base, href))
		}
	})

	// Zoom data attributes carry the original rendition on some themes.
	doc.Find(".woocommerce-product-gallery__image img").Each(func(i int, img *goquery.Selection) {
		if large, ok := img.Attr("data-large_image"); ok && large != "" {
			imageURLs = append(imageURLs, utils.AbsoluteURL(base, large))
		}
	})

	return utils.UniqueStrings(imageURLs)
}
