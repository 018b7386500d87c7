package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ScraperConfig holds behavior shared by every site pipeline.
type ScraperConfig struct {
	Headless        bool   `yaml:"headless"`
	UserAgent       string `yaml:"user_agent"`
	SettleDelayMs   int    `yaml:"settle_delay_ms"`
	ItemDelayMs     int    `yaml:"item_delay_ms"`
	NavTimeoutSec   int    `yaml:"nav_timeout_sec"`
	WaitTimeoutSec  int    `yaml:"wait_timeout_sec"`
	MaxPages        int    `yaml:"max_pages"`
	MaxNavRetries   int    `yaml:"max_nav_retries"`
	RetryBackoffSec int    `yaml:"retry_backoff_sec"`
}

// SiteConfig holds the per-site entry points. Selectors live in the adapter
// code; only URLs are configuration.
type SiteConfig struct {
	BaseURL     string `yaml:"base_url"`
	CategoryURL string `yaml:"category_url"`
}

// StoreConfig points at the PocketBase instance.
type StoreConfig struct {
	URL string `yaml:"url"`
}

// Config is the complete structure of config.yml.
type Config struct {
	Scraper ScraperConfig         `yaml:"scraper"`
	Store   StoreConfig           `yaml:"store"`
	Sites   map[string]SiteConfig `yaml:"sites"`
	Journal struct {
		Path string `yaml:"path"`
	} `yaml:"journal"`
	BackupDir string `yaml:"backup_dir"`
	Server    struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// Credentials are the admin login for the store, read from the environment.
type Credentials struct {
	Email    string
	Password string
}

// LoadConfig reads and validates config.yml, applying defaults for anything
// the file leaves out.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config YAML: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	s := &c.Scraper
	if s.UserAgent == "" {
		s.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	}
	if s.SettleDelayMs == 0 {
		s.SettleDelayMs = 2000
	}
	if s.ItemDelayMs == 0 {
		s.ItemDelayMs = 500
	}
	if s.NavTimeoutSec == 0 {
		s.NavTimeoutSec = 60
	}
	if s.WaitTimeoutSec == 0 {
		s.WaitTimeoutSec = 10
	}
	// The sites have no documented page bound; an unbounded loop on broken
	// pagination would never finish, so a cap always applies.
	if s.MaxPages == 0 {
		s.MaxPages = 50
	}
	if s.MaxNavRetries == 0 {
		s.MaxNavRetries = 3
	}
	if s.RetryBackoffSec == 0 {
		s.RetryBackoffSec = 2
	}
	if c.Store.URL == "" {
		c.Store.URL = "http://127.0.0.1:8090"
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "products.db"
	}
	if c.BackupDir == "" {
		c.BackupDir = "."
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}

// LoadCredentials reads the admin credentials, consulting .env first. Missing
// credentials are a fatal startup condition for the scraper binary: nothing
// can be written to the store without them.
func LoadCredentials() (Credentials, error) {
	_ = godotenv.Load() // a missing .env file is fine, the vars may be exported

	creds := Credentials{
		Email:    os.Getenv("POCKETBASE_ADMIN_EMAIL"),
		Password: os.Getenv("POCKETBASE_ADMIN_PASSWORD"),
	}
	if creds.Email == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf("POCKETBASE_ADMIN_EMAIL and POCKETBASE_ADMIN_PASSWORD must be set")
	}
	return creds, nil
}
