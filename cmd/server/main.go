package main

import (
	"flag"
	"os"

	"PriceScraper/internal/journal"
	"PriceScraper/internal/server"
	"PriceScraper/pkg/config"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yml", "Path to config.yml")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	repo, err := journal.Open(cfg.Journal.Path, log.WithField("component", "journal"))
	if err != nil {
		log.Fatalf("Opening journal failed: %v", err)
	}
	defer repo.Close()

	if err := server.Start(repo, cfg.Server.Port, log.WithField("component", "server")); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
