package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"fund-scout/config"
	"fund-scout/models"
	"fund-scout/rules"
	"fund-scout/storage"
)

// keepThreshold ist der Completeness-Score, ab dem ein Skeleton-Eintrag im
// Directory verbleibt. Darunter wird er gelöscht, nicht nur markiert.
const keepThreshold = 2

// substantiveThesisLen: kürzere Texte zählen nicht als substanzielle Thesis.
const substantiveThesisLen = 50

// EnrichService orchestriert Stufe 4: Non-VC-Filter, kuratiertes Overlay und
// Completeness-Pruning über die Skeleton-Einträge des Directories.
// Einträge, die nicht aus dieser Pipeline stammen, werden nie angefasst.
type EnrichService struct {
	Config *config.Config
	Logger *zap.Logger
	Rules  *rules.RuleSet
}

// NewEnrichService erstellt eine neue Instanz des EnrichService.
func NewEnrichService(cfg *config.Config, logger *zap.Logger, rs *rules.RuleSet) *EnrichService {
	return &EnrichService{Config: cfg, Logger: logger, Rules: rs}
}

// Run scannt das volle Directory und schreibt es gefiltert und angereichert
// zurück. Gibt den Enrichment-Report zurück.
func (s *EnrichService) Run(ctx context.Context) (*models.EnrichmentReport, error) {
	dirPath := filepath.Join(s.Config.DataDir, s.Config.DirectoryFile)
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s fehlt — erst die Merge-Stufe ausführen (cmd/merge)", dirPath)
	}
	directory, err := storage.LoadDirectory(dirPath)
	if err != nil {
		return nil, err
	}

	overlay, err := storage.LoadOverlay(filepath.Join(s.Config.DataDir, s.Config.OverlayFile))
	if err != nil {
		return nil, err
	}

	report := &models.EnrichmentReport{
		Scanned:     len(directory),
		GeneratedAt: time.Now().UTC(),
	}

	kept := make([]models.Investor, 0, len(directory))
	changed := false
	for _, inv := range directory {
		if !inv.IsSkeleton() {
			kept = append(kept, inv)
			continue
		}
		report.Skeletons++

		if excluded, reason := s.Rules.IsNonVC(inv.Firm); excluded {
			report.Excluded = append(report.Excluded, inv.Firm)
			changed = true
			s.Logger.Info("Eintrag als Non-VC ausgeschlossen",
				zap.String("firm", inv.Firm), zap.String("reason", reason))
			continue
		}

		if entry, ok := overlay[inv.Firm]; ok {
			if entry.Remove {
				report.Removed = append(report.Removed, inv.Firm)
				changed = true
				s.Logger.Info("Eintrag per Overlay-Direktive entfernt", zap.String("firm", inv.Firm))
				continue
			}
			inv = ApplyOverlay(inv, entry)
			report.Enriched = append(report.Enriched, inv.Firm)
			changed = true
		}

		if score := CompletenessScore(inv); score < keepThreshold {
			report.Removed = append(report.Removed, inv.Firm)
			changed = true
			s.Logger.Info("Skeleton-Eintrag unter der Completeness-Schwelle entfernt",
				zap.String("firm", inv.Firm), zap.Int("score", score))
			continue
		}

		kept = append(kept, inv)
	}
	report.Kept = len(kept)

	if changed {
		backupPath, err := storage.BackupFile(dirPath)
		if err != nil {
			return nil, fmt.Errorf("backup %s: %w", dirPath, err)
		}
		report.BackupFile = backupPath
		if err := storage.SaveDirectory(dirPath, kept); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("Enrichment abgeschlossen",
		zap.Int("scanned", report.Scanned),
		zap.Int("skeletons", report.Skeletons),
		zap.Int("excluded", len(report.Excluded)),
		zap.Int("removed", len(report.Removed)),
		zap.Int("enriched", len(report.Enriched)),
		zap.Int("kept", report.Kept))
	return report, nil
}

// ApplyOverlay wendet die kuratierten Overrides auf einen Eintrag an.
// Leere Overlay-Felder lassen das jeweilige Feld unverändert.
func ApplyOverlay(inv models.Investor, entry models.OverlayEntry) models.Investor {
	if entry.Thesis != "" {
		inv.Thesis = entry.Thesis
		// Ein kuratierter Eintrag ist kein Pipeline-Skelett mehr.
		inv.Origin = models.OriginCurated
	}
	if entry.Website != "" {
		inv.Website = entry.Website
	}
	if entry.LinkedIn != "" {
		inv.LinkedIn = entry.LinkedIn
	}
	if entry.Twitter != "" {
		inv.Twitter = entry.Twitter
	}
	if entry.Photo != "" {
		inv.Photo = entry.Photo
	}
	if len(entry.Stages) > 0 {
		inv.Stages = entry.Stages
	}
	if len(entry.Sectors) > 0 {
		inv.Sectors = entry.Sectors
	}
	if len(entry.PortfolioHighlights) > 0 {
		inv.PortfolioHighlights = entry.PortfolioHighlights
	}
	if len(entry.RecentInvestments) > 0 {
		inv.RecentInvestments = entry.RecentInvestments
	}
	return inv
}

// CompletenessScore bewertet, ob ein Skeleton-Eintrag genug anreicherbares
// Signal trägt. Additiv: substanzielle Thesis +2, Portfolio-Highlights +2,
// Recent Investments +2, Foto +1, LinkedIn +1, Firm-URL +1.
func CompletenessScore(inv models.Investor) int {
	score := 0
	if hasSubstantiveThesis(inv.Thesis) {
		score += 2
	}
	if len(inv.PortfolioHighlights) > 0 {
		score += 2
	}
	if len(inv.RecentInvestments) > 0 {
		score += 2
	}
	if inv.Photo != "" {
		score++
	}
	if inv.LinkedIn != "" {
		score++
	}
	if inv.Website != "" {
		score++
	}
	return score
}

func hasSubstantiveThesis(thesis string) bool {
	if strings.Contains(thesis, models.SkeletonThesisMarker) {
		return false
	}
	return len(strings.TrimSpace(thesis)) > substantiveThesisLen
}
