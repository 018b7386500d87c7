package pipeline

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"PriceScraper/internal/browser"
	"PriceScraper/internal/images"
	"PriceScraper/internal/journal"
	"PriceScraper/internal/models"
	"PriceScraper/internal/pocketbase"
	"PriceScraper/internal/scraper"
	"PriceScraper/pkg/config"
	"PriceScraper/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// Engine drives one site adapter through the full pipeline: listing
// navigation, per-row extraction, detail enrichment, upsert, and image
// attachment. Everything runs on a single sequential flow.
type Engine struct {
	Cfg      config.ScraperConfig
	Session  *browser.Session
	Upserter *pocketbase.Upserter
	Images   *images.Pipeline
	Journal  *journal.Repository
	Log      *logrus.Entry

	BackupDir string

	collected []models.Product
}

// Run scrapes every listing page of the adapter's category until pagination
// is exhausted or the configured page cap is hit. Partial results survive any
// failure: they are journaled per item and snapshotted on the way out.
func (e *Engine) Run(adapter scraper.Adapter) error {
	log := e.Log.WithField("site", adapter.Source())
	e.collected = nil

	if adapter.KeyStrategy() == models.KeyByName {
		log.Warn("Site uses name-only natural key; identically named products will collide")
	}

	categoryID, err := e.resolveCategory(adapter)
	if err != nil {
		return err
	}

	base, err := url.Parse(adapter.BaseURL())
	if err != nil {
		return fmt.Errorf("invalid base URL for %s: %w", adapter.Source(), err)
	}

	page, err := e.Session.NewPage()
	if err != nil {
		return fmt.Errorf("creating listing page: %w", err)
	}
	defer e.Session.ClosePage(page)

	// Every snapshot written below covers whatever was collected so far.
	defer func() {
		journal.Snapshot(e.BackupDir, adapter.Source(), e.collected, log)
	}()

	currentURL := adapter.CategoryURL()
	if err := e.navigate(page, currentURL, log); err != nil {
		e.Session.Screenshot(page, fmt.Sprintf("debug_%s_error_state.png", adapter.Source()))
		return fmt.Errorf("loading category page: %w", err)
	}

	e.handleConsent(page, adapter.Consent(), log)

	for pageNum := 1; pageNum <= e.Cfg.MaxPages; pageNum++ {
		pageLog := log.WithField("page", pageNum)
		pageLog.Infof("Processing listing page: %s", currentURL)

		doc, rowSel, err := e.readListing(page, adapter, pageLog)
		if err != nil {
			pageLog.WithError(err).Error("Failed to read listing page, stopping pagination")
			e.Session.Screenshot(page, fmt.Sprintf("debug_%s_page_%d.png", adapter.Source(), pageNum))
			break
		}

		rows := doc.Find(rowSel)
		pageLog.Infof("Found %d products", rows.Length())
		if rows.Length() == 0 {
			break
		}

		rows.Each(func(i int, row *goquery.Selection) {
			e.processRow(adapter, row, base, categoryID, pageLog.WithField("item", i+1))
			time.Sleep(time.Duration(e.Cfg.ItemDelayMs) * time.Millisecond)
		})

		cur, _ := url.Parse(currentURL)
		next := adapter.NextPageURL(doc, cur, pageNum)
		if next == "" {
			pageLog.Info("No more pages to process")
			break
		}
		if pageNum == e.Cfg.MaxPages {
			pageLog.Warnf("Page cap of %d reached, stopping pagination", e.Cfg.MaxPages)
			break
		}

		if err := e.navigate(page, next, pageLog); err != nil {
			pageLog.WithError(err).Error("Failed to load next page, keeping partial results")
			break
		}
		currentURL = next
	}

	log.Infof("Run finished with %d products collected", len(e.collected))
	return nil
}

// processRow turns one listing row into a journaled, upserted product. Any
// failure is contained to this row.
func (e *Engine) processRow(adapter scraper.Adapter, row *goquery.Selection, base *url.URL, categoryID string, log *logrus.Entry) {
	p, ok := adapter.ParseRow(row, base)
	if !ok {
		log.Warn("Essential elements (name/price) not found, skipping row")
		return
	}

	now := time.Now()
	p.Source = adapter.Source()
	p.Slug = utils.CreateSlug(p.Name)
	p.Category = categoryID
	p.Created = now
	p.Updated = now

	if adapter.NeedsDetail() && p.URL != "" {
		specs, imgs := e.fetchDetail(adapter, p.URL, log)
		if len(specs) > 0 {
			p.Specifications = specs
		}
		// Detail-page images replace the listing thumbnail only when the
		// detail page actually yielded something.
		if len(imgs) > 0 {
			p.ImageURLs = imgs
		}
		if p.Model == "" {
			p.Model = specs["Modelis"]
		}
	}

	log.Infof("Extracted product: %s (%.2f€, %d images, %d specs)",
		p.Name, p.Price, len(p.ImageURLs), len(p.Specifications))

	e.collected = append(e.collected, *p)
	if err := e.Journal.SaveProduct(p); err != nil {
		log.WithError(err).Warn("Journal write failed, continuing")
	}

	recordID, _, err := e.Upserter.Upsert(p, adapter.KeyStrategy())
	if err != nil {
		log.WithError(err).Errorf("Error saving to store, payload: %+v", *p)
		journal.Snapshot(e.BackupDir, adapter.Source(), e.collected, log)
		return
	}
	if err := e.Journal.MarkUpserted(p.Source, p.URL, recordID); err != nil {
		log.WithError(err).Warn("Could not mark journal row as upserted")
	}

	if len(p.ImageURLs) > 0 {
		e.Images.AttachImages(recordID, p.ImageURLs, p.Name)
	}
}

// fetchDetail opens the product's own page in an isolated tab, lets the
// adapter prepare and parse it, and always closes the tab. Unrecoverable
// errors produce empty results, never abort the run.
func (e *Engine) fetchDetail(adapter scraper.Adapter, productURL string, log *logrus.Entry) (map[string]string, []string) {
	detailPage, err := e.Session.NewPage()
	if err != nil {
		log.WithError(err).Error("Could not open detail page")
		return map[string]string{}, nil
	}
	defer e.Session.ClosePage(detailPage)

	err = Retry(e.Cfg.MaxNavRetries, time.Duration(e.Cfg.RetryBackoffSec)*time.Second, log,
		"loading "+productURL, func() error {
			if err := detailPage.Timeout(time.Duration(e.Cfg.NavTimeoutSec) * time.Second).Navigate(productURL); err != nil {
				return err
			}
			return detailPage.Timeout(time.Duration(e.Cfg.NavTimeoutSec) * time.Second).WaitLoad()
		})
	if err != nil {
		return map[string]string{}, nil
	}

	adapter.PrepareDetail(detailPage)
	browser.Settle(time.Duration(e.Cfg.SettleDelayMs) * time.Millisecond)

	html, err := detailPage.HTML()
	if err != nil {
		log.WithError(err).Error("Could not capture detail page HTML")
		return map[string]string{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.WithError(err).Error("Could not parse detail page HTML")
		return map[string]string{}, nil
	}

	base, _ := url.Parse(adapter.BaseURL())
	specs := adapter.ParseSpecs(doc)
	imgs := adapter.ParseImages(doc, base)
	log.Infof("Detail page yielded %d specifications and %d images", len(specs), len(imgs))
	return specs, imgs
}

// readListing waits for listing content, applies the settle delay, and
// returns the parsed document along with the row selector that matched.
func (e *Engine) readListing(page *rod.Page, adapter scraper.Adapter, log *logrus.Entry) (*goquery.Document, string, error) {
	waitTimeout := time.Duration(e.Cfg.WaitTimeoutSec) * time.Second
	if _, err := page.Timeout(waitTimeout).Element(adapter.RowSelectors()[0]); err != nil {
		log.WithError(err).Warnf("Timeout waiting for selector %s", adapter.RowSelectors()[0])
	}
	browser.Settle(time.Duration(e.Cfg.SettleDelayMs) * time.Millisecond)

	html, err := page.HTML()
	if err != nil {
		return nil, "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", err
	}

	for _, sel := range adapter.RowSelectors() {
		if doc.Find(sel).Length() > 0 {
			if sel != adapter.RowSelectors()[0] {
				log.Infof("Using fallback row selector: %s", sel)
			}
			return doc, sel, nil
		}
	}
	// No candidate matched; report with the primary selector so the caller
	// still gets a document to decide on.
	return doc, adapter.RowSelectors()[0], nil
}

// navigate loads a URL with the shared bounded retry policy.
func (e *Engine) navigate(page *rod.Page, target string, log *logrus.Entry) error {
	navTimeout := time.Duration(e.Cfg.NavTimeoutSec) * time.Second
	return Retry(e.Cfg.MaxNavRetries, time.Duration(e.Cfg.RetryBackoffSec)*time.Second, log,
		"loading "+target, func() error {
			if err := page.Timeout(navTimeout).Navigate(target); err != nil {
				return err
			}
			return page.Timeout(navTimeout).WaitLoad()
		})
}

// handleConsent tries each cookie-dialog selector and an optional button-text
// match. Not finding anything is the normal case after the first visit.
func (e *Engine) handleConsent(page *rod.Page, consent scraper.Consent, log *logrus.Entry) {
	for _, sel := range consent.Selectors {
		if el, err := page.Timeout(5 * time.Second).Element(sel); err == nil {
			if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
				log.Info("Accepted cookies")
				browser.Settle(time.Second)
				return
			}
		}
	}
	if consent.ButtonText != "" {
		if el, err := page.Timeout(3 * time.Second).ElementR("button", consent.ButtonText); err == nil {
			if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
				log.Info("Accepted cookies")
				browser.Settle(time.Second)
				return
			}
		}
	}
	log.Info("No cookie consent button found")
}

// resolveCategory turns the adapter's category spec into the value written on
// every product: either the literal string or a store record id.
func (e *Engine) resolveCategory(adapter scraper.Adapter) (string, error) {
	spec := adapter.Category()
	if spec.Remote == nil {
		return spec.Literal, nil
	}
	return e.Upserter.ResolveCategory(*spec.Remote)
}
