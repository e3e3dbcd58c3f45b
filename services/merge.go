package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fund-scout/config"
	"fund-scout/models"
	"fund-scout/storage"
)

// MergeService orchestriert Stufe 3: letzte Duplikat-Prüfung gegen das live
// Directory, Id-Kollisionsauflösung, Backup und Rewrite des Directories.
type MergeService struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewMergeService erstellt eine neue Instanz des MergeService.
func NewMergeService(cfg *config.Config, logger *zap.Logger) *MergeService {
	return &MergeService{Config: cfg, Logger: logger}
}

// Run wendet die verifizierten Kandidaten auf das Directory an und schreibt
// den Merge-Report. Nur high-Confidence-Kandidaten werden übernommen.
func (s *MergeService) Run(ctx context.Context) (*models.MergeReport, error) {
	inPath := filepath.Join(s.Config.DataDir, s.Config.VerifiedFile)
	var verification models.VerificationResult
	if err := storage.ReadJSON(inPath, &verification); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s fehlt — erst die Verification-Stufe ausführen (cmd/verify)", inPath)
		}
		return nil, err
	}

	dirPath := filepath.Join(s.Config.DataDir, s.Config.DirectoryFile)
	directory, err := storage.LoadDirectory(dirPath)
	if err != nil {
		return nil, err
	}

	report := &models.MergeReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	// Backup unmittelbar vor der ersten Mutation, einmal pro Lauf.
	backedUp := false
	backup := func() error {
		if backedUp {
			return nil
		}
		if _, err := os.Stat(dirPath); os.IsNotExist(err) {
			backedUp = true
			return nil
		}
		backupPath, err := storage.BackupFile(dirPath)
		if err != nil {
			return fmt.Errorf("backup %s: %w", dirPath, err)
		}
		report.BackupFile = backupPath
		backedUp = true
		s.Logger.Info("Directory-Backup angelegt", zap.String("backup", backupPath))
		return nil
	}

	mutated := false
	for _, cand := range verification.Verified {
		now := time.Now().UTC()

		if cand.Confidence != models.ConfidenceHigh {
			report.FlaggedForReview = append(report.FlaggedForReview, models.MergeItem{
				ID: cand.ID, Firm: cand.Firm,
				Reason:    fmt.Sprintf("confidence %s, manuelles Review nötig", cand.Confidence),
				Timestamp: now,
			})
			continue
		}

		// Merge ist das letzte Gate vor der Mutation und prüft unabhängig vom
		// Verification-Zustand erneut (teilweise Re-Runs, editierte Zwischendateien).
		if reason, dup := DuplicateOfDirectory(cand.Firm, directory); dup {
			report.Skipped = append(report.Skipped, models.MergeItem{
				ID: cand.ID, Firm: cand.Firm, Reason: reason, Timestamp: now,
			})
			s.Logger.Info("Kandidat übersprungen", zap.String("firm", cand.Firm), zap.String("reason", reason))
			continue
		}

		if err := backup(); err != nil {
			return nil, err
		}

		inv := cand.ToInvestor()
		inv.ID = ResolveID(inv.ID, directory)
		directory = append(directory, inv)
		mutated = true

		report.Added = append(report.Added, models.MergeItem{
			ID: inv.ID, Firm: inv.Firm, Timestamp: now,
		})
		s.Logger.Info("Investor ins Directory übernommen", zap.String("id", inv.ID), zap.String("firm", inv.Firm))
	}

	if mutated {
		if err := storage.SaveDirectory(dirPath, directory); err != nil {
			return nil, err
		}
	}

	report.FinishedAt = time.Now().UTC()
	if err := storage.WriteJSON(filepath.Join(s.Config.DataDir, s.Config.ReportFile), report); err != nil {
		return nil, err
	}

	s.Logger.Info("Merge abgeschlossen",
		zap.String("run_id", report.RunID),
		zap.Int("added", len(report.Added)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("flagged", len(report.FlaggedForReview)))
	return report, nil
}

// DuplicateOfDirectory ist das Dedup-Gate der Merge-Stufe: Gleichheit oder
// Containment der normalisierten Namen gegen jeden Directory-Eintrag.
// Id-Kollisionen sind hier kein Duplikat-Trigger, sie laufen durch ResolveID.
func DuplicateOfDirectory(firm string, directory []models.Investor) (string, bool) {
	norm := NormalizeFirmName(firm)
	if norm == "" {
		return "leerer Firmenname", true
	}
	for _, inv := range directory {
		existing := NormalizeFirmName(inv.Firm)
		if existing == norm {
			return fmt.Sprintf("Name identisch mit Eintrag %s", inv.ID), true
		}
		if containsLongEnough(norm, existing) {
			return fmt.Sprintf("Name enthält/enthalten in Eintrag %s", inv.ID), true
		}
	}
	return "", false
}

// ResolveID liefert eine innerhalb des Directories eindeutige Id: bei
// Kollision wird -1, -2, ... angehängt, bis die Id frei ist.
func ResolveID(id string, directory []models.Investor) string {
	used := make(map[string]struct{}, len(directory))
	for _, inv := range directory {
		used[inv.ID] = struct{}{}
	}
	if _, taken := used[id]; !taken {
		return id
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", id, i)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}
