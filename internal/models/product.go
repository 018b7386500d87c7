package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// KeyStrategy selects the natural key used to detect an existing remote record.
type KeyStrategy int

const (
	// KeyByURL matches records on url + source. This is the strong key.
	KeyByURL KeyStrategy = iota
	// KeyByName matches records on name alone. Distinct products that share a
	// name will collide, so adapters using it get a warning logged per run.
	KeyByName
)

// Product holds everything extracted for a single listing row, optionally
// enriched by a detail-page fetch. It is built fresh per row and handed to the
// upsert client exactly once.
type Product struct {
	Name           string            `json:"name"`
	Model          string            `json:"model,omitempty"`
	Slug           string            `json:"slug"`
	Price          float64           `json:"price"`
	URL            string            `json:"url"`
	Code           string            `json:"code,omitempty"`
	Shop           string            `json:"shop,omitempty"`
	Stock          int               `json:"stock"`
	StockText      string            `json:"stock_text,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	ImageURLs      JSONStringSlice   `json:"image_urls,omitempty"`
	Category       string            `json:"category"`
	Source         string            `json:"source"`
	Created        time.Time         `json:"created"`
	Updated        time.Time         `json:"updated"`
}

// Thumbnail returns the designated primary image, or "" when none was found.
func (p *Product) Thumbnail() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// Gallery returns every image after the thumbnail, in discovery order.
func (p *Product) Gallery() []string {
	if len(p.ImageURLs) < 2 {
		return nil
	}
	return p.ImageURLs[1:]
}

// Category describes a localized product category in the remote store.
type Category struct {
	ID            string
	NameLT        string
	NameEN        string
	Slug          string
	DescriptionLT string
	DescriptionEN string
}

// JSONStringSlice stores a []string as a JSON column in the journal database.
type JSONStringSlice []string

// Value implements driver.Valuer.
func (j JSONStringSlice) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSONStringSlice) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for JSONStringSlice")
	}
	return json.Unmarshal(bytes, j)
}
