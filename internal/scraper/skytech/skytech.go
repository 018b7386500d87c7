// Package skytech scrapes the branded desktop computer category of
// skytech.lt. The shop renders a classic server-side table listing with
// page-parameter pagination, and its product pages carry the richest
// specification and gallery markup of the supported sites.
package skytech

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"PriceScraper/internal/models"
	"PriceScraper/internal/scraper"
	"PriceScraper/utils"

	"github.com/PuerkitoBio/goquery"
)

// productsPerPage matches the pagesize parameter the site accepts.
const productsPerPage = 100

var pageParamRe = regexp.MustCompile(`page=(\d+)`)

type Scraper struct {
	scraper.Base
	baseURL     string
	categoryURL string
}

func New(baseURL, categoryURL string) *Scraper {
	return &Scraper{baseURL: baseURL, categoryURL: categoryURL}
}

func (s *Scraper) Source() string { return "skytech" }
func (s *Scraper) BaseURL() string { return s.baseURL }
func (s *Scraper) CategoryURL() string { return s.categoryURL }
func (s *Scraper) KeyStrategy() models.KeyStrategy { return models.KeyByURL }

func (s *Scraper) Category() scraper.CategorySpec {
	return scraper.CategorySpec{Remote: &models.Category{
		NameLT: "Staliniai kompiuteriai",
		NameEN: "Desktop Computers",
	}}
}

func (s *Scraper) Consent() scraper.Consent { return scraper.Consent{} }

func (s *Scraper) RowSelectors() []string {
	return []string{"table.productListing tr.productListing"}
}

func (s *Scraper) ParseRow(row *goquery.Selection, base *url.URL) (*models.Product, bool) {
	nameCell := row.Find("td.name a").First()
	if nameCell.Length() == 0 {
		return nil, false
	}
	href, ok := nameCell.Attr("href")
	if !ok || href == "" {
		return nil, false
	}

	name := strings.TrimSpace(nameCell.Text())
	if name == "" {
		return nil, false
	}
	name, model := splitModel(name)

	p := &models.Product{
		Name:  name,
		Model: model,
		URL:   utils.AbsoluteURL(base, href),
		Price: utils.ParsePrice(row.Find("td strong").First().Text()),
	}

	if src, ok := row.Find("td.image img").First().Attr("src"); ok && src != "" {
		p.ImageURLs = models.JSONStringSlice{utils.AbsoluteURL(base, src)}
	}

	stockCell := row.Find("td.kiekis").First()
	p.StockText = strings.TrimSpace(stockCell.Text())
	if class, _ := stockCell.Attr("class"); strings.Contains(class, "date") {
		// A date-classed cell is an arrival estimate, not a count.
		p.Stock = 0
	} else {
		p.Stock = utils.ParseStock(p.StockText)
	}

	return p, true
}

// splitModel pulls the "MODELIS: XYZ" prefix out of a listing name.
func splitModel(name string) (string, string) {
	if !strings.Contains(name, "MODELIS:") {
		return name, ""
	}
	parts := strings.SplitN(name, "MODELIS:", 2)
	rest := strings.TrimSpace(parts[1])
	fields := strings.SplitN(rest, " ", 2)
	model := strings.TrimSpace(fields[0])
	if len(fields) > 1 {
		return strings.TrimSpace(fields[1]), model
	}
	return strings.TrimSpace(parts[0]), model
}

// NextPageURL paginates by page parameter. Total pages are discovered from
// the pagination links on the current page; no link with a higher page number
// means the listing is exhausted.
func (s *Scraper) NextPageURL(doc *goquery.Document, current *url.URL, pageNum int) string {
	totalPages := 1
	doc.Find(`a[href*="page="]`).Each(func(i int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if m := pageParamRe.FindStringSubmatch(href); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > totalPages {
				totalPages = n
			}
		}
	})
	if pageNum >= totalPages {
		return ""
	}

	baseURL := s.categoryURL
	if i := strings.Index(baseURL, "?"); i >= 0 {
		baseURL = baseURL[:i]
	}
	return fmt.Sprintf("%s?grp=0&sort=5d&pagesize=%d&page=%d", baseURL, productsPerPage, pageNum+1)
}

func (s *Scraper) NeedsDetail() bool { return true }
