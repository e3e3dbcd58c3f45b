package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"fund-scout/config"
	"fund-scout/services"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	svc := services.NewMergeService(cfg, logging)
	report, err := svc.Run(context.Background())
	if err != nil {
		logging.Fatal("Merge fehlgeschlagen", zap.Error(err))
	}

	fmt.Printf("Merge %s: %d added, %d skipped, %d flagged.\n",
		report.RunID, len(report.Added), len(report.Skipped), len(report.FlaggedForReview))
	if report.BackupFile != "" {
		fmt.Printf("Backup: %s\n", report.BackupFile)
	}
}
