// Package kilobaitas scrapes the notebook category of kilobaitas.lt. The
// listing markup varies between the grid and list layouts the shop serves, so
// several row selectors are tried; specifications hide behind a tab on the
// product page.
package kilobaitas

import (
	"net/url"
	"strings"
	"time"

	"PriceScraper/internal/models"
	"PriceScraper/internal/scraper"
	"PriceScraper/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// stockUnknown is the default when the listing carries no stock cell.
const stockUnknown = "Nėra sandėlyje"

type Scraper struct {
	scraper.Base
	baseURL     string
	categoryURL string
}

func New(baseURL, categoryURL string) *Scraper {
	return &Scraper{baseURL: baseURL, categoryURL: categoryURL}
}

func (s *Scraper) Source() string { return "kilobaitas" }
func (s *Scraper) BaseURL() string { return s.baseURL }
func (s *Scraper) CategoryURL() string { return s.categoryURL }
func (s *Scraper) KeyStrategy() models.KeyStrategy { return models.KeyByName }

func (s *Scraper) Category() scraper.CategorySpec {
	return scraper.CategorySpec{Literal: "laptops"}
}

func (s *Scraper) Consent() scraper.Consent {
	return scraper.Consent{
		Selectors: []string{"button#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll"},
	}
}

func (s *Scraper) RowSelectors() []string {
	return []string{
		".product-grid .item-box",
		".product-list .item-box",
		".item-grid .item-box",
		".product-grid .product-item",
		".item-box",
	}
}

func (s *Scraper) ParseRow(row *goquery.Selection, base *url.URL) (*models.Product, bool) {
	nameEl := row.Find("h2.product-title a").First()
	priceEl := row.Find(".prices .price").First()
	if nameEl.Length() == 0 || priceEl.Length() == 0 {
		return nil, false
	}

	p := &models.Product{
		Name:      strings.TrimSpace(nameEl.Text()),
		Price:     utils.ParsePrice(priceEl.Text()),
		StockText: stockUnknown,
	}
	if p.Name == "" {
		return nil, false
	}

	if href, ok := nameEl.Attr("href"); ok {
		p.URL = utils.AbsoluteURL(base, href)
	}
	if code := strings.TrimSpace(row.Find(".sku .value").First().Text()); code != "" {
		p.Code = code
	}
	if stock := strings.TrimSpace(row.Find(".stock .value").First().Text()); stock != "" {
		p.StockText = stock
		p.Stock = utils.ParseStock(stock)
	}

	return p, true
}

func (s *Scraper) NextPageURL(doc *goquery.Document, current *url.URL, pageNum int) string {
	return scraper.FindNextLink(doc, current)
}

func (s *Scraper) NeedsDetail() bool { return true }

// PrepareDetail opens the "Specifikacija" tab so its content renders before
// the page HTML is captured.
func (s *Scraper) PrepareDetail(page *rod.Page) {
	tab, err := page.Timeout(5 * time.Second).Element(`a[href="#specifikacija"]`)
	if err != nil {
		return
	}
	if err := tab.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return
	}
	// Wait for the tab body to activate; a miss just means we parse whatever
	// is already in the DOM.
	_, _ = page.Timeout(10 * time.Second).Element("div.resp-tab-content-active")
}

// ParseSpecs reads the active specification tab, trying the table layout
// first and the list layout as fallback.
func (s *Scraper) ParseSpecs(doc *goquery.Document) map[string]string {
	specs := map[string]string{}

	rows := doc.Find("div.resp-tab-content-active tr")
	if rows.Length() == 0 {
		rows = doc.Find(".specification-list li")
	}

	rows.Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}
		key := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if key != "" && value != "" {
			specs[key] = value
		}
	})

	return specs
}
