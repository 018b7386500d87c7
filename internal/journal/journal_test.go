package journal

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"PriceScraper/internal/models"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log.WithField("component", "test")
}

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "journal.db"), testLog())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(repo.Close)
	return repo
}

func journalProduct(url string) *models.Product {
	return &models.Product{
		Name:           "Dell XPS 13",
		Model:          "9315",
		Slug:           "dell-xps-13",
		Price:          1299.99,
		URL:            url,
		Source:         "skytech.lt",
		Stock:          3,
		StockText:      "3",
		Specifications: map[string]string{"Procesorius": "Intel Core i7"},
		ImageURLs:      models.JSONStringSlice{"https://cdn.example.com/a.jpg"},
		Category:       "cat1",
	}
}

func TestSaveAndGetProduct(t *testing.T) {
	repo := openTestRepo(t)
	p := journalProduct("https://www.skytech.lt/dell-xps-13.html")

	if err := repo.SaveProduct(p); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}

	products, err := repo.GetProducts("skytech.lt", 10, 0)
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products; want 1", len(products))
	}

	got := products[0]
	if got.Name != p.Name || got.Price != p.Price || got.URL != p.URL {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.Specifications["Procesorius"] != "Intel Core i7" {
		t.Errorf("specifications lost in roundtrip: %v", got.Specifications)
	}
	if len(got.ImageURLs) != 1 || got.ImageURLs[0] != "https://cdn.example.com/a.jpg" {
		t.Errorf("image urls lost in roundtrip: %v", got.ImageURLs)
	}
}

func TestSaveProductReplacesSameKey(t *testing.T) {
	repo := openTestRepo(t)
	p := journalProduct("https://www.skytech.lt/dell-xps-13.html")

	if err := repo.SaveProduct(p); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	p.Price = 1199.00
	if err := repo.SaveProduct(p); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	count, err := repo.CountProducts("skytech.lt")
	if err != nil {
		t.Fatalf("CountProducts failed: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d rows; want 1 after same-key save", count)
	}

	products, _ := repo.GetProducts("skytech.lt", 1, 0)
	if len(products) != 1 || products[0].Price != 1199.00 {
		t.Errorf("second save did not replace the row: %+v", products)
	}
}

func TestGetProductsFiltersBySource(t *testing.T) {
	repo := openTestRepo(t)

	a := journalProduct("https://www.skytech.lt/a.html")
	b := journalProduct("https://www.nesiojami.lt/b.html")
	b.Source = "nesiojami.lt"

	repo.SaveProduct(a)
	repo.SaveProduct(b)

	products, err := repo.GetProducts("nesiojami.lt", 10, 0)
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(products) != 1 || products[0].Source != "nesiojami.lt" {
		t.Errorf("source filter broken: %+v", products)
	}

	all, err := repo.GetProducts("", 10, 0)
	if err != nil {
		t.Fatalf("GetProducts all failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d products for all sources; want 2", len(all))
	}
}

func TestMarkUpserted(t *testing.T) {
	repo := openTestRepo(t)
	p := journalProduct("https://www.skytech.lt/a.html")
	repo.SaveProduct(p)

	if err := repo.MarkUpserted(p.Source, p.URL, "rec42"); err != nil {
		t.Fatalf("MarkUpserted failed: %v", err)
	}

	var recordID string
	var upserted bool
	err := repo.DB.QueryRow(
		`SELECT record_id, upserted FROM products WHERE source = ? AND url = ?`,
		p.Source, p.URL,
	).Scan(&recordID, &upserted)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if recordID != "rec42" || !upserted {
		t.Errorf("got record_id=%q upserted=%v; want rec42 true", recordID, upserted)
	}
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	products := []models.Product{*journalProduct("https://www.skytech.lt/a.html")}

	Snapshot(dir, "skytech.lt", products, testLog())

	data, err := os.ReadFile(filepath.Join(dir, "skytech.lt_products.json"))
	if err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	var decoded []models.Product
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "Dell XPS 13" {
		t.Errorf("snapshot content wrong: %+v", decoded)
	}
}

func TestSnapshotSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	Snapshot(dir, "skytech.lt", nil, testLog())

	if _, err := os.Stat(filepath.Join(dir, "skytech.lt_products.json")); !os.IsNotExist(err) {
		t.Error("empty snapshot should not create a file")
	}
}
