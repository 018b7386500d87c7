package pocketbase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"PriceScraper/internal/models"
	"PriceScraper/utils"
)

// priority spec keys drive the composed description, in this order.
var prioritySpecs = []string{
	"Procesorius", "Processor", "CPU",
	"Operatyvioji atmintis", "RAM", "Memory",
	"Kietasis diskas", "Storage", "SSD", "HDD",
	"Ekranas", "Display", "Screen",
	"Vaizdo plokštė", "Graphics", "GPU",
	"Operacinė sistema", "OS", "Operating System",
	"Modelis", "Model", "Part Number",
}

var descriptionFields = []string{"Aprašymas", "Meta aprašymas", "Pilnas pavadinimas"}

// Upserter writes products through to the store with natural-key
// de-duplication, and resolves categories lazily with an in-process cache.
type Upserter struct {
	Client *Client

	categoryIDs map[string]string // name_lt -> record id, lives for one run
}

// NewUpserter wraps a client.
func NewUpserter(client *Client) *Upserter {
	return &Upserter{Client: client, categoryIDs: make(map[string]string)}
}

func filterQuote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

// ResolveCategory returns the record id for a localized category, creating it
// on first sight. The id is memoized for the rest of the run; there is no
// cross-run cache.
func (u *Upserter) ResolveCategory(cat models.Category) (string, error) {
	if id, ok := u.categoryIDs[cat.NameLT]; ok {
		return id, nil
	}

	items, err := u.Client.ListCategories("name_lt = " + filterQuote(cat.NameLT))
	if err != nil {
		return "", fmt.Errorf("category lookup failed: %w", err)
	}
	if len(items) > 0 {
		u.categoryIDs[cat.NameLT] = items[0].ID
		u.Client.Log.WithField("category_id", items[0].ID).Info("Found existing category")
		return items[0].ID, nil
	}

	now := time.Now().Format(time.RFC3339)
	created, err := u.Client.CreateCategory(CategoryRecord{
		NameLT:        cat.NameLT,
		NameEN:        cat.NameEN,
		Slug:          utils.CreateSlug(cat.NameLT),
		DescriptionLT: "Plataus asortimento " + cat.NameLT,
		DescriptionEN: "Wide range of " + cat.NameEN + " for every need",
		Created:       now,
		Updated:       now,
	})
	if err != nil {
		return "", fmt.Errorf("category create failed: %w", err)
	}
	u.categoryIDs[cat.NameLT] = created.ID
	u.Client.Log.WithField("category_id", created.ID).Info("Created new category")
	return created.ID, nil
}

// keyFilter builds the lookup filter for a product's natural key.
func keyFilter(p *models.Product, key models.KeyStrategy) string {
	if key == models.KeyByURL {
		return "url = " + filterQuote(p.URL) + " && source = " + filterQuote(p.Source)
	}
	return "name = " + filterQuote(p.Name)
}

// Upsert looks the product up by its natural key and creates or updates the
// remote record. The record write happens before any image upload: the
// returned id is what the image pipeline PATCHes against. A matched record
// keeps its original created timestamp.
func (u *Upserter) Upsert(p *models.Product, key models.KeyStrategy) (id string, createdNew bool, err error) {
	existing, err := u.Client.ListProducts(keyFilter(p, key))
	if err != nil {
		return "", false, fmt.Errorf("product lookup failed: %w", err)
	}

	rec := u.buildRecord(p)
	if len(existing) > 0 {
		rec.Created = "" // never touch the original created timestamp
		updated, err := u.Client.UpdateProduct(existing[0].ID, rec)
		if err != nil {
			return "", false, err
		}
		u.Client.Log.WithField("record_id", updated.ID).Infof("Updated product: %s", p.Name)
		return updated.ID, false, nil
	}

	created, err := u.Client.CreateProduct(rec)
	if err != nil {
		return "", false, err
	}
	u.Client.Log.WithField("record_id", created.ID).Infof("Created new product: %s", p.Name)
	return created.ID, true, nil
}

func (u *Upserter) buildRecord(p *models.Product) ProductRecord {
	specsJSON := ""
	if len(p.Specifications) > 0 {
		if b, err := json.Marshal(p.Specifications); err == nil {
			specsJSON = string(b)
		}
	}

	return ProductRecord{
		Name:           p.Name,
		Slug:           p.Slug,
		Price:          p.Price,
		URL:            p.URL,
		Code:           p.Code,
		Model:          p.Model,
		Shop:           p.Shop,
		ImageURL:       p.Thumbnail(),
		Specifications: specsJSON,
		Description:    ComposeDescription(p),
		Stock:          p.Stock,
		StockText:      p.StockText,
		Category:       p.Category,
		Source:         p.Source,
		ProductType:    "physical",
		Created:        p.Created.Format(time.RFC3339),
		Updated:        time.Now().Format(time.RFC3339),
	}
}

// ComposeDescription builds a short human-readable description from the
// scraped specifications: priority hardware keys first, then free-text
// description fields, then whatever else fits, capped at 2000 characters.
func ComposeDescription(p *models.Product) string {
	specs := p.Specifications
	var parts []string

	for _, key := range prioritySpecs {
		if v, ok := specs[key]; ok {
			parts = append(parts, key+": "+v)
		}
	}
	for _, field := range descriptionFields {
		if v, ok := specs[field]; ok && v != "" && len(parts) < 5 {
			parts = append(parts, v)
		}
	}
	if len(parts) < 5 {
		for key, value := range specs {
			if contains(prioritySpecs, key) || contains(descriptionFields, key) {
				continue
			}
			parts = append(parts, key+": "+value)
			if len(parts) >= 5 {
				break
			}
		}
	}

	description := strings.Join(parts, "\n")
	if len(description) > 2000 {
		description = description[:1997] + "..."
	}
	if description == "" {
		description = p.Name + " - " + p.Source
	}
	return description
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
