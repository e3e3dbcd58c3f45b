package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"fund-scout/config"
	"fund-scout/rules"
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

	ruleSet, err := rules.Load(cfg.RulesFile)
	if err != nil {
		logging.Fatal("Regel-Tabellen nicht ladbar", zap.Error(err))
	}
	exclusions, positive, negative := ruleSet.Counts()
	logging.Info("Regel-Tabellen geladen",
		zap.Int("exclusions", exclusions),
		zap.Int("positive_patterns", positive),
		zap.Int("negative_patterns", negative))

	svc := services.NewEnrichService(cfg, logging, ruleSet)
	report, err := svc.Run(context.Background())
	if err != nil {
		logging.Fatal("Enrichment fehlgeschlagen", zap.Error(err))
	}

	fmt.Printf("Enrichment: %d gescannt, %d Skeletons, %d ausgeschlossen, %d entfernt, %d angereichert, %d behalten.\n",
		report.Scanned, report.Skeletons, len(report.Excluded),
		len(report.Removed), len(report.Enriched), report.Kept)
}
