package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
scraper:
  headless: true
  max_pages: 10
store:
  url: "http://localhost:8090"
sites:
  skytech:
    base_url: "https://www.skytech.lt"
    category_url: "https://www.skytech.lt/category.html"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Scraper.Headless {
		t.Error("headless not read")
	}
	if cfg.Scraper.MaxPages != 10 {
		t.Errorf("MaxPages = %d; want 10", cfg.Scraper.MaxPages)
	}
	if cfg.Sites["skytech"].BaseURL != "https://www.skytech.lt" {
		t.Errorf("site base url = %q", cfg.Sites["skytech"].BaseURL)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `sites: {}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scraper.MaxPages != 50 {
		t.Errorf("default MaxPages = %d; want 50", cfg.Scraper.MaxPages)
	}
	if cfg.Scraper.MaxNavRetries != 3 {
		t.Errorf("default MaxNavRetries = %d; want 3", cfg.Scraper.MaxNavRetries)
	}
	if cfg.Scraper.UserAgent == "" {
		t.Error("default user agent missing")
	}
	if cfg.Store.URL != "http://127.0.0.1:8090" {
		t.Errorf("default store url = %q", cfg.Store.URL)
	}
	if cfg.Journal.Path != "products.db" {
		t.Errorf("default journal path = %q", cfg.Journal.Path)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default server port = %q", cfg.Server.Port)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "scraper: [not: a map")); err == nil {
		t.Error("broken YAML should be an error")
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("POCKETBASE_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("POCKETBASE_ADMIN_PASSWORD", "secret")

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials failed: %v", err)
	}
	if creds.Email != "admin@example.com" || creds.Password != "secret" {
		t.Errorf("credentials = %+v", creds)
	}
}

func TestLoadCredentialsMissing(t *testing.T) {
	t.Setenv("POCKETBASE_ADMIN_EMAIL", "")
	t.Setenv("POCKETBASE_ADMIN_PASSWORD", "")

	if _, err := LoadCredentials(); err == nil {
		t.Error("missing credentials should be an error")
	}
}
