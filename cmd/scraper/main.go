package main

import (
	"flag"
	"os"
	"strings"

	"PriceScraper/internal/app"

	"github.com/sirupsen/logrus"
)

func main() {
	site := flag.String("site", "all", "Site to scrape: "+strings.Join(app.Sites(), ", ")+", or all")
	configPath := flag.String("config", "config.yml", "Path to config.yml")
	flag.Parse()

	application, err := app.New(*configPath)
	if err != nil {
		logrus.Fatalf("Startup failed: %v", err)
	}
	defer application.Close()

	if *site == "all" {
		err = application.RunAll()
	} else {
		err = application.RunSite(*site)
	}
	if err != nil {
		application.Log.WithError(err).Error("Scrape run failed")
		os.Exit(1)
	}
}
