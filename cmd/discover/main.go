package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fund-scout/config"
	"fund-scout/providers/edgar"
	"fund-scout/services"
	"fund-scout/storage"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: discover <start-date> <end-date> [max-results]")
		fmt.Fprintln(os.Stderr, "Dates im Format YYYY-MM-DD.")
		os.Exit(1)
	}
	startDate, endDate := os.Args[1], os.Args[2]

	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	maxResults := cfg.EdgarMaxResults
	if len(os.Args) > 3 {
		n, err := strconv.Atoi(os.Args[3])
		if err != nil {
			logging.Fatal("max-results ist keine Zahl", zap.String("arg", os.Args[3]))
		}
		maxResults = n
	}

	var archive *gorm.DB
	if cfg.ArchiveEnabled() {
		archive, err = storage.OpenArchive(cfg, logging)
		if err != nil {
			logging.Fatal("Filing-Archiv nicht erreichbar", zap.Error(err))
		}
	}

	client := edgar.NewClient(cfg, logging)
	svc := services.NewDiscoveryService(cfg, logging, client, archive)

	count, err := svc.Run(context.Background(), startDate, endDate, maxResults)
	if err != nil {
		logging.Fatal("Discovery fehlgeschlagen", zap.Error(err))
	}
	fmt.Printf("Discovery: %d Kandidaten gefunden (%s bis %s).\n", count, startDate, endDate)
}
