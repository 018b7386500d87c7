package skytech

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// PrepareDetail activates the description tab when it is not already
// selected, so its content is present in the captured HTML.
func (s *Scraper) PrepareDetail(page *rod.Page) {
	tab, err := page.Timeout(5 * time.Second).Element("#tab_description")
	if err != nil {
		return
	}
	if class, err := tab.Attribute("class"); err == nil && class != nil && strings.Contains(*class, "selected") {
		return
	}
	if err := tab.Click(proto.InputMouseButtonLeft, 1); err == nil {
		time.Sleep(time.Second)
	}
}

// ParseSpecs mines the product page with a cascade of strategies. Earlier
// strategies win on key conflicts; the title/meta fallback only fires when
// fewer than three keys were found by everything else.
func (s *Scraper) ParseSpecs(doc *goquery.Document) map[string]string {
	specs := map[string]string{}

	s.specsFromInfoBlock(doc, specs)
	s.specsFromTables(doc, "table.produktas", specs)
	s.specsFromDescription(doc, specs)
	s.specsFromTables(doc, "table.technical-parameters", specs)
	s.specsFromFeatures(doc, specs)

	if len(specs) < 3 {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			specs["Pilnas pavadinimas"] = title
		}
		if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			specs["Meta aprašymas"] = strings.TrimSpace(content)
		}
	}

	return specs
}

// specsFromInfoBlock reads the summary block above the tabs: model, price
// label, and manufacturer.
func (s *Scraper) specsFromInfoBlock(doc *goquery.Document, specs map[string]string) {
	info := doc.Find("div.productInfoMain").First()
	if info.Length() == 0 {
		return
	}
	if model := info.Find("div.model").First().Text(); strings.Contains(model, ":") {
		parts := strings.SplitN(model, ":", 2)
		if v := strings.TrimSpace(parts[1]); v != "" {
			setIfAbsent(specs, "Modelis", v)
		}
	}
	if price := strings.TrimSpace(info.Find("span.productPrice").First().Text()); price != "" {
		setIfAbsent(specs, "Kaina", price)
	}
	if brand := strings.TrimSpace(info.Find("div.brand a").First().Text()); brand != "" {
		setIfAbsent(specs, "Gamintojas", brand)
	}
}

// specsFromTables reads two-column key/value rows from the given table
// selector.
func (s *Scraper) specsFromTables(doc *goquery.Document, tableSel string, specs map[string]string) {
	doc.Find(tableSel + " tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		key := strings.TrimRight(strings.TrimSpace(cells.Eq(0).Text()), ":")
		value := strings.TrimSpace(cells.Eq(1).Text())
		if key != "" && value != "" {
			setIfAbsent(specs, key, value)
		}
	})
}

// specsFromDescription parses the free-form description tab: bold-tag keys
// first, then plain "key: value" lines. When nothing structured exists at all
// the whole text is kept as the description.
func (s *Scraper) specsFromDescription(doc *goquery.Document, specs map[string]string) {
	container := doc.Find("#tab-description, div.tab-container, div.description-text").First()
	if container.Length() == 0 {
		return
	}

	before := len(specs)
	container.Find("div.description-text, p, li").Each(func(i int, block *goquery.Selection) {
		strong := block.Find("strong, b").First()
		if strong.Length() > 0 {
			key := strings.TrimSpace(strong.Text())
			value := strings.TrimSpace(strings.Replace(block.Text(), strong.Text(), "", 1))
			value = strings.Trim(value, ":- ")
			key = strings.Trim(key, ":- ")
			if key != "" && value != "" {
				setIfAbsent(specs, key, value)
			}
			return
		}
		text := block.Text()
		if strings.Contains(text, ":") {
			parts := strings.SplitN(text, ":", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if key != "" && value != "" {
				setIfAbsent(specs, key, value)
			}
		}
	})

	if len(specs) == before && before == 0 {
		if full := strings.TrimSpace(container.Text()); full != "" {
			specs["Aprašymas"] = full
		}
	}
}

// specsFromFeatures collapses the feature bullet list into one joined value.
func (s *Scraper) specsFromFeatures(doc *goquery.Document, specs map[string]string) {
	var features []string
	doc.Find("div.productFeatures li").Each(func(i int, item *goquery.Selection) {
		if text := strings.TrimSpace(item.Text()); text != "" {
			features = append(features, text)
		}
	})
	if len(features) > 0 {
		setIfAbsent(specs, "Ypatybės", strings.Join(features, ", "))
	}
}

func setIfAbsent(specs map[string]string, key, value string) {
	if _, exists := specs[key]; !exists {
		specs[key] = value
	}
}
