package kaina24

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing test HTML: %v", err)
	}
	return doc
}

const listingHTML = `
<div class="product-grid">
  <div>
    <div class="image"><img src="/img/dell-xps.jpg"></div>
    <a class="product-link" href="/p/dell-xps-13">Dell XPS 13</a>
    <span class="price-new">1 299,99 €</span>
    <span class="store-logo" title="Top Shop"></span>
  </div>
  <div>
    <div class="image"><img data-src="/img/lazy-hp.jpg"></div>
    <a class="product-link" href="/p/hp-pavilion-15">HP Pavilion 15</a>
    <span class="price-new">749,00 €</span>
  </div>
  <div>
    <a class="product-link" href="/p/no-price">Broken Listing</a>
  </div>
</div>`

func TestParseRow(t *testing.T) {
	s := New("https://www.kaina24.lt", "https://www.kaina24.lt/c/nesiojami-kompiuteriai/")
	doc := mustDoc(t, listingHTML)
	base, _ := url.Parse("https://www.kaina24.lt/c/nesiojami-kompiuteriai/")

	rows := doc.Find(s.RowSelectors()[0])
	if rows.Length() != 3 {
		t.Fatalf("found %d rows; want 3", rows.Length())
	}

	p, ok := s.ParseRow(rows.Eq(0), base)
	if !ok {
		t.Fatal("first row should parse")
	}
	if p.Name != "Dell XPS 13" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Price != 1299.99 {
		t.Errorf("Price = %f", p.Price)
	}
	if p.URL != "https://www.kaina24.lt/p/dell-xps-13" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.Shop != "Top Shop" {
		t.Errorf("Shop = %q", p.Shop)
	}
	if len(p.ImageURLs) != 1 || p.ImageURLs[0] != "https://www.kaina24.lt/img/dell-xps.jpg" {
		t.Errorf("ImageURLs = %v", p.ImageURLs)
	}
}

func TestParseRowLazyImage(t *testing.T) {
	s := New("https://www.kaina24.lt", "https://www.kaina24.lt/c/nesiojami-kompiuteriai/")
	doc := mustDoc(t, listingHTML)
	base, _ := url.Parse("https://www.kaina24.lt/")

	p, ok := s.ParseRow(doc.Find(s.RowSelectors()[0]).Eq(1), base)
	if !ok {
		t.Fatal("second row should parse")
	}
	if len(p.ImageURLs) != 1 || p.ImageURLs[0] != "https://www.kaina24.lt/img/lazy-hp.jpg" {
		t.Errorf("data-src fallback missing: %v", p.ImageURLs)
	}
}

func TestParseRowSkipsMissingPrice(t *testing.T) {
	s := New("https://www.kaina24.lt", "https://www.kaina24.lt/c/nesiojami-kompiuteriai/")
	doc := mustDoc(t, listingHTML)
	base, _ := url.Parse("https://www.kaina24.lt/")

	if _, ok := s.ParseRow(doc.Find(s.RowSelectors()[0]).Eq(2), base); ok {
		t.Error("row without a price element should be skipped")
	}
}

func TestNoDetailFetch(t *testing.T) {
	s := New("https://www.kaina24.lt", "https://www.kaina24.lt/c/nesiojami-kompiuteriai/")
	if s.NeedsDetail() {
		t.Error("aggregator listings carry everything, no detail fetch expected")
	}
}
