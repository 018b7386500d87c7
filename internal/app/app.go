package app

import (
	"fmt"
	"os"

	"PriceScraper/internal/browser"
	"PriceScraper/internal/images"
	"PriceScraper/internal/journal"
	"PriceScraper/internal/pipeline"
	"PriceScraper/internal/pocketbase"
	"PriceScraper/internal/scraper"
	"PriceScraper/internal/scraper/kaina24"
	"PriceScraper/internal/scraper/kilobaitas"
	"PriceScraper/internal/scraper/nesiojami"
	"PriceScraper/internal/scraper/skytech"
	"PriceScraper/pkg/config"
	"PriceScraper/utils"

	"github.com/sirupsen/logrus"
)

// App holds everything a scrape run needs: configuration, credentials, the
// logger, and the local journal.
type App struct {
	Config  *config.Config
	Creds   config.Credentials
	Log     *logrus.Logger
	Journal *journal.Repository
}

// New loads configuration and credentials and opens the journal. Missing
// credentials abort startup: nothing can be written to the store without
// them.
func New(configPath string) (*App, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}

	repo, err := journal.Open(cfg.Journal.Path, log.WithField("component", "journal"))
	if err != nil {
		return nil, err
	}

	utils.LogHostInfo(log.WithField("component", "app"))

	return &App{Config: cfg, Creds: creds, Log: log, Journal: repo}, nil
}

// Close releases the journal.
func (a *App) Close() {
	a.Journal.Close()
}

// Sites returns the adapter names this build knows, in run order.
func Sites() []string {
	return []string{"kaina24", "kilobaitas", "skytech", "nesiojami"}
}

// newAdapter builds the adapter for a configured site.
func (a *App) newAdapter(name string) (scraper.Adapter, error) {
	site, ok := a.Config.Sites[name]
	if !ok {
		return nil, fmt.Errorf("site %q is not configured in config.yml", name)
	}
	switch name {
	case "kaina24":
		return kaina24.New(site.BaseURL, site.CategoryURL), nil
	case "kilobaitas":
		return kilobaitas.New(site.BaseURL, site.CategoryURL), nil
	case "skytech":
		return skytech.New(site.BaseURL, site.CategoryURL), nil
	case "nesiojami":
		return nesiojami.New(site.BaseURL, site.CategoryURL), nil
	}
	return nil, fmt.Errorf("unknown site: %s", name)
}

// RunSite executes the full pipeline for one site.
func (a *App) RunSite(name string) error {
	log := a.Log.WithField("site", name)
	log.Info("--- Starting scrape run ---")

	adapter, err := a.newAdapter(name)
	if err != nil {
		return err
	}

	store := pocketbase.NewClient(a.Config.Store.URL, a.Log.WithField("component", "store"))
	if err := store.Authenticate(a.Creds.Email, a.Creds.Password); err != nil {
		return fmt.Errorf("store authentication failed: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "scraper-images-*")
	if err != nil {
		return fmt.Errorf("creating temp image directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			log.WithError(err).Warn("Could not remove temp image directory")
		}
	}()
	log.Infof("Temporary images directory created at: %s", tempDir)

	session, err := browser.Start(a.Config.Scraper.Headless, a.Config.Scraper.UserAgent,
		a.Log.WithField("component", "browser"))
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	engine := &pipeline.Engine{
		Cfg:      a.Config.Scraper,
		Session:  session,
		Upserter: pocketbase.NewUpserter(store),
		Images: images.NewPipeline(store, tempDir, a.Config.Scraper.UserAgent,
			a.Log.WithField("component", "images")),
		Journal:   a.Journal,
		Log:       a.Log.WithField("component", "pipeline"),
		BackupDir: a.Config.BackupDir,
	}

	if err := engine.Run(adapter); err != nil {
		return err
	}
	log.Info("--- Scrape run finished ---")
	return nil
}

// RunAll executes every configured site sequentially. A failed site does not
// stop the others; the first error is reported at the end.
func (a *App) RunAll() error {
	var firstErr error
	for _, name := range Sites() {
		if _, ok := a.Config.Sites[name]; !ok {
			a.Log.Warnf("Site %s not configured, skipping", name)
			continue
		}
		if err := a.RunSite(name); err != nil {
			a.Log.WithError(err).Errorf("Site %s failed", name)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
