package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"PriceScraper/internal/models"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // pure Go driver, no cgo on the scrape hosts
)

// Repository is the local scrape journal: every extracted product lands here
// before (and regardless of) the remote upsert, so a crashed run still leaves
// a durable local trail. It also feeds the read-only inspection server.
type Repository struct {
	DB  *sql.DB
	Log *logrus.Entry
}

// Open initializes the journal database, creating the schema if needed.
func Open(path string, log *logrus.Entry) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging journal database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS products (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"source" TEXT,
		"url" TEXT,
		"name" TEXT,
		"model" TEXT,
		"slug" TEXT,
		"price" REAL,
		"code" TEXT,
		"shop" TEXT,
		"stock" INTEGER,
		"stock_text" TEXT,
		"specifications" TEXT,
		"image_urls" TEXT,
		"category" TEXT,
		"record_id" TEXT,
		"upserted" BOOLEAN DEFAULT 0,
		"scraped_at" DATETIME,
		UNIQUE(source, url)
	);`
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("creating products table: %w", err)
	}

	log.Info("Journal database initialized")
	return &Repository{DB: db, Log: log}, nil
}

// Close closes the underlying database.
func (r *Repository) Close() {
	r.DB.Close()
}

// SaveProduct records one scraped product, replacing any earlier row for the
// same (source, url) within or across runs.
func (r *Repository) SaveProduct(p *models.Product) error {
	specsJSON, err := json.Marshal(p.Specifications)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO products (
		source, url, name, model, slug, price, code, shop, stock, stock_text,
		specifications, image_urls, category, scraped_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(source, url) DO UPDATE SET
		name=excluded.name,
		model=excluded.model,
		slug=excluded.slug,
		price=excluded.price,
		code=excluded.code,
		shop=excluded.shop,
		stock=excluded.stock,
		stock_text=excluded.stock_text,
		specifications=excluded.specifications,
		image_urls=excluded.image_urls,
		category=excluded.category,
		scraped_at=excluded.scraped_at;
	`
	_, err = r.DB.Exec(query,
		p.Source, p.URL, p.Name, p.Model, p.Slug, p.Price, p.Code, p.Shop,
		p.Stock, p.StockText, string(specsJSON), p.ImageURLs, p.Category, time.Now(),
	)
	if err != nil {
		r.Log.WithError(err).Errorf("Failed to journal product %s", p.URL)
	}
	return err
}

// MarkUpserted stores the remote record id for a journaled product.
func (r *Repository) MarkUpserted(source, url, recordID string) error {
	_, err := r.DB.Exec(
		`UPDATE products SET record_id = ?, upserted = 1 WHERE source = ? AND url = ?`,
		recordID, source, url,
	)
	return err
}

// GetProducts returns journaled products for one source (or all when source
// is empty), newest first, with limit/offset pagination.
func (r *Repository) GetProducts(source string, limit, offset int) ([]models.Product, error) {
	query := `
		SELECT source, url, name, model, slug, price, code, shop, stock,
		       stock_text, specifications, image_urls, category, scraped_at
		FROM products`
	args := []any{}
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY scraped_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var specsJSON string
		if err := rows.Scan(
			&p.Source, &p.URL, &p.Name, &p.Model, &p.Slug, &p.Price, &p.Code,
			&p.Shop, &p.Stock, &p.StockText, &specsJSON, &p.ImageURLs,
			&p.Category, &p.Updated,
		); err != nil {
			r.Log.WithError(err).Error("Error scanning journal row")
			continue
		}
		if specsJSON != "" {
			_ = json.Unmarshal([]byte(specsJSON), &p.Specifications)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CountProducts returns the number of journaled products for a source, or all
// sources when source is empty.
func (r *Repository) CountProducts(source string) (int, error) {
	var count int
	var err error
	if source == "" {
		err = r.DB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count)
	} else {
		err = r.DB.QueryRow(`SELECT COUNT(*) FROM products WHERE source = ?`, source).Scan(&count)
	}
	return count, err
}

// Snapshot writes the accumulated products of one run to a JSON backup file.
// Called on store failures and at run completion; errors are logged, not returned.
func Snapshot(dir, source string, products []models.Product, log *logrus.Entry) {
	if len(products) == 0 {
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_products.json", source))
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		log.WithError(err).Error("Error encoding JSON backup")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.WithError(err).Error("Error saving JSON backup")
		return
	}
	log.Infof("Saved %d products to %s (backup)", len(products), path)
}
