package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fund-scout/models"
	"fund-scout/rules"
	"fund-scout/storage"
)

func skeletonInvestor(id, firm string) models.Investor {
	return models.Investor{
		ID:     id,
		Name:   firm,
		Firm:   firm,
		Type:   "vc",
		Active: true,
		Origin: models.OriginSECEdgar,
		Thesis: models.SkeletonThesisMarker + " (test).",
	}
}

func TestCompletenessScore(t *testing.T) {
	// Nur Platzhalter-Thesis, sonst nichts: Score 0
	bare := skeletonInvestor("bare", "Bare Fund")
	assert.Equal(t, 0, CompletenessScore(bare))

	// Substanzielle Thesis + Portfolio-Highlights: Score >= 4
	rich := bare
	rich.Thesis = "Backs technical founders at the earliest stage, with a focus on developer tools and infrastructure software."
	rich.PortfolioHighlights = []string{"ExampleCo", "OtherCo"}
	assert.GreaterOrEqual(t, CompletenessScore(rich), 4)

	// Einzelsignale
	withLinks := bare
	withLinks.Photo = "photo.jpg"
	withLinks.LinkedIn = "https://linkedin.com/company/x"
	withLinks.Website = "https://example.vc"
	assert.Equal(t, 3, CompletenessScore(withLinks))
}

func TestApplyOverlay(t *testing.T) {
	inv := skeletonInvestor("acme", "Acme")
	entry := models.OverlayEntry{
		Thesis:              "Concentrated pre-seed fund for climate hardware, writing first checks before a product exists.",
		Website:             "https://acme.vc",
		PortfolioHighlights: []string{"VoltCo"},
	}

	got := ApplyOverlay(inv, entry)
	assert.Equal(t, entry.Thesis, got.Thesis)
	assert.Equal(t, "https://acme.vc", got.Website)
	assert.Equal(t, models.OriginCurated, got.Origin)
	assert.False(t, got.IsSkeleton())

	// Leere Felder lassen den Eintrag unverändert
	unchanged := ApplyOverlay(inv, models.OverlayEntry{})
	assert.Equal(t, inv.Thesis, unchanged.Thesis)
	assert.Equal(t, models.OriginSECEdgar, unchanged.Origin)
}

func TestEnrichRun(t *testing.T) {
	cfg := testConfig(t)
	dirPath := filepath.Join(cfg.DataDir, cfg.DirectoryFile)

	original := models.Investor{
		ID:     "hand-curated",
		Name:   "Hand Curated",
		Firm:   "Hand Curated Partners",
		Type:   "vc",
		Thesis: "A long-standing, manually maintained profile.",
	}
	excludable := skeletonInvestor("yield-fund", "Evergreen Yield Fund")
	removable := skeletonInvestor("ghost", "Ghost Capital")
	enrichable := skeletonInvestor("acme", "Acme")

	require.NoError(t, storage.SaveDirectory(dirPath, []models.Investor{
		original, excludable, removable, enrichable,
	}))

	overlay := models.Overlay{
		"Acme": {
			Thesis:              "Concentrated pre-seed fund for climate hardware, writing first checks before a product exists.",
			PortfolioHighlights: []string{"VoltCo"},
		},
	}
	require.NoError(t, storage.WriteJSON(filepath.Join(cfg.DataDir, cfg.OverlayFile), overlay))

	rs, err := rules.Default()
	require.NoError(t, err)

	report, err := NewEnrichService(cfg, zap.NewNop(), rs).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 3, report.Skeletons)
	assert.Contains(t, report.Excluded, "Evergreen Yield Fund")
	assert.Contains(t, report.Removed, "Ghost Capital")
	assert.Contains(t, report.Enriched, "Acme")

	directory, err := storage.LoadDirectory(dirPath)
	require.NoError(t, err)
	require.Len(t, directory, 2)

	byID := map[string]models.Investor{}
	for _, inv := range directory {
		byID[inv.ID] = inv
	}
	// Nicht-Pipeline-Einträge bleiben unangetastet
	assert.Equal(t, original.Thesis, byID["hand-curated"].Thesis)
	// Angereicherter Eintrag trägt die Overlay-Felder
	assert.Equal(t, []string{"VoltCo"}, byID["acme"].PortfolioHighlights)

	// Backup wurde angelegt
	require.NotEmpty(t, report.BackupFile)
	_, err = os.Stat(report.BackupFile)
	assert.NoError(t, err)
}

func TestEnrichMissingDirectoryNamesUpstreamStage(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewEnrichService(cfg, zap.NewNop(), mustRules(t)).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Merge")
}

func mustRules(t *testing.T) *rules.RuleSet {
	t.Helper()
	rs, err := rules.Default()
	require.NoError(t, err)
	return rs
}
