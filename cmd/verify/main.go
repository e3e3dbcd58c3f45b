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

	svc := services.NewVerifyService(cfg, logging)
	result, err := svc.Run(context.Background())
	if err != nil {
		logging.Fatal("Verification fehlgeschlagen", zap.Error(err))
	}

	fmt.Printf("Verification: %d Kandidaten -> %d verified, %d flagged, %d duplicates.\n",
		result.Summary.Candidates, result.Summary.Verified,
		result.Summary.FlaggedForReview, result.Summary.Duplicates)
}
