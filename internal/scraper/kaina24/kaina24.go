// Package kaina24 scrapes the laptop listings of kaina24.lt, a price
// aggregator. Listings carry everything we store, so there is no detail
// fetch; records are keyed by name because the aggregator reuses URLs across
// shop offers.
package kaina24

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

func (s *Scraper) Source() string { return "kaina24" }
func (s *Scraper) BaseURL() string { return s.baseURL }
func (s *Scraper) CategoryURL() string { return s.categoryURL }
func (s *Scraper) KeyStrategy() models.KeyStrategy { return models.KeyByName }

func (s *Scraper) Category() scraper.CategorySpec {
	return scraper.CategorySpec{Literal: "laptops"}
}

func (s *Scraper) Consent() scraper.Consent {
	return scraper.Consent{ButtonText: "SUTINKU"}
}

func (s *Scraper) RowSelectors() []string {
	return []string{".product-grid > div"}
}

func (s *Scraper) ParseRow(row *goquery.Selection, base *url.URL) (*models.Product, bool) {
	nameEl := row.Find("a.product-link").First()
	priceEl := row.Find(".price-new").First()
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

	if href, ok := nameEl.Attr("href"); ok {
		p.URL = utils.AbsoluteURL(base, href)
	}

	// The aggregator lazy-loads thumbnails, so src may live in data-src.
	img := row.Find(".image img").First()
	src, ok := img.Attr("src")
	if !ok || src == "" {
		src, _ = img.Attr("data-src")
	}
	if src != "" {
		p.ImageURLs = models.JSONStringSlice{utils.AbsoluteURL(base, src)}
	}

	if title, ok := row.Find(".store-logo").First().Attr("title"); ok {
		p.Shop = strings.TrimSpace(title)
	}

	return p, true
}

func (s *Scraper) NextPageURL(doc *goquery.Document, current *url.URL, pageNum int) string {
	return scraper.FindNextLink(doc, current)
}
