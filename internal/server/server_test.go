package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"PriceScraper/internal/journal"
	"PriceScraper/internal/models"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log.WithField("component", "test")
}

func seededRepo(t *testing.T) *journal.Repository {
	t.Helper()
	repo, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), testLog())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(repo.Close)

	for _, p := range []models.Product{
		{Name: "Dell XPS 13", Source: "skytech.lt", URL: "https://www.skytech.lt/a.html", Price: 1299.99},
		{Name: "HP Pavilion 15", Source: "skytech.lt", URL: "https://www.skytech.lt/b.html", Price: 749.00},
		{Name: "Lenovo IdeaPad 3", Source: "kilobaitas.lt", URL: "https://www.kilobaitas.lt/c", Price: 549.00},
	} {
		if err := repo.SaveProduct(&p); err != nil {
			t.Fatalf("seeding journal: %v", err)
		}
	}
	return repo
}

func getProducts(t *testing.T, repo *journal.Repository, query string) productsResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/products"+query, nil)
	rr := httptest.NewRecorder()
	productsHandler(repo, testLog())(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rr.Code, rr.Body.String())
	}
	var resp productsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestProductsHandler(t *testing.T) {
	repo := seededRepo(t)
	resp := getProducts(t, repo, "")

	if resp.Pagination.TotalItems != 3 {
		t.Errorf("TotalItems = %d; want 3", resp.Pagination.TotalItems)
	}
	if len(resp.Data) != 3 {
		t.Errorf("got %d products; want 3", len(resp.Data))
	}
	if resp.Pagination.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d; want 1", resp.Pagination.CurrentPage)
	}
}

func TestProductsHandlerSourceFilter(t *testing.T) {
	repo := seededRepo(t)
	resp := getProducts(t, repo, "?source=kilobaitas.lt")

	if resp.Pagination.TotalItems != 1 {
		t.Errorf("TotalItems = %d; want 1", resp.Pagination.TotalItems)
	}
	if len(resp.Data) != 1 || resp.Data[0].Source != "kilobaitas.lt" {
		t.Errorf("filtered data = %+v", resp.Data)
	}
}

func TestProductsHandlerPagination(t *testing.T) {
	repo := seededRepo(t)
	resp := getProducts(t, repo, "?limit=2&page=2")

	if resp.Pagination.TotalPages != 2 {
		t.Errorf("TotalPages = %d; want 2", resp.Pagination.TotalPages)
	}
	if resp.Pagination.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d; want 2", resp.Pagination.CurrentPage)
	}
	if len(resp.Data) != 1 {
		t.Errorf("second page holds %d products; want 1", len(resp.Data))
	}
}
