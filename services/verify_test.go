package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fund-scout/config"
	"fund-scout/models"
	"fund-scout/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:        t.TempDir(),
		DiscoveredFile: "discovered_funds.json",
		VerifiedFile:   "verified_investors.json",
		DirectoryFile:  "investors.json",
		ReportFile:     "merge_report.json",
		OverlayFile:    "enrichment_overlay.json",
	}
}

func fullSignalCandidate() models.FilingCandidate {
	return models.FilingCandidate{
		IssuerName:  "Acme Ventures Fund II, L.P.",
		Firm:        "Acme Ventures",
		EntityType:  "Limited Partnership",
		FundType:    "Venture Capital Fund",
		City:        "San Francisco",
		State:       "CA",
		KeyPeople:   []string{"Jane Roe"},
		TotalSold:   25_000_000,
		AccessionNo: "0000000000-24-000001",
		CIK:         "1000001",
	}
}

func TestScoreConfidenceTiers(t *testing.T) {
	full := fullSignalCandidate()
	assert.Equal(t, models.ConfidenceHigh, ScoreConfidence(full, false))

	partial := models.FilingCandidate{
		Firm:      "Quiet Capital",
		KeyPeople: []string{"John Doe"},
		State:     "NY",
		TotalSold: 1_000_000,
	}
	assert.Equal(t, models.ConfidenceMedium, ScoreConfidence(partial, false))

	empty := models.FilingCandidate{Firm: "Mystery"}
	assert.Equal(t, models.ConfidenceLow, ScoreConfidence(empty, false))
}

func tierRank(tier string) int {
	switch tier {
	case models.ConfidenceHigh:
		return 2
	case models.ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Jedes zusätzliche Positiv-Signal darf die Stufe nie senken.
func TestScoreConfidenceMonotonic(t *testing.T) {
	base := models.FilingCandidate{Firm: "Base"}

	additions := []func(models.FilingCandidate) models.FilingCandidate{
		func(c models.FilingCandidate) models.FilingCandidate { c.KeyPeople = []string{"A B"}; return c },
		func(c models.FilingCandidate) models.FilingCandidate { c.City = "Boston"; return c },
		func(c models.FilingCandidate) models.FilingCandidate { c.FundType = "Venture Capital Fund"; return c },
		func(c models.FilingCandidate) models.FilingCandidate { c.TotalSold = 1_000_000; return c },
		func(c models.FilingCandidate) models.FilingCandidate { c.TotalSold = 10_000_000; return c },
	}

	cand := base
	prev := tierRank(ScoreConfidence(cand, true))
	for i, add := range additions {
		cand = add(cand)
		got := tierRank(ScoreConfidence(cand, true))
		assert.GreaterOrEqual(t, got, prev, "signal %d lowered the tier", i)
		prev = got
	}

	// Kein Directory-Match ist ebenfalls ein Positiv-Signal.
	withMatch := tierRank(ScoreConfidence(cand, true))
	withoutMatch := tierRank(ScoreConfidence(cand, false))
	assert.GreaterOrEqual(t, withoutMatch, withMatch)
}

func TestBuildCandidateInvestor(t *testing.T) {
	cand := fullSignalCandidate()
	inv := BuildCandidateInvestor(cand, models.ConfidenceHigh)

	assert.Equal(t, "acme-ventures", inv.ID)
	assert.Equal(t, "vc", inv.Type)
	assert.Equal(t, models.OriginSECEdgar, inv.Origin)
	assert.Equal(t, models.ConfidenceHigh, inv.Confidence)
	assert.Equal(t, []string{cand.AccessionNo}, inv.FilingIDs)
	assert.True(t, inv.Investor.IsSkeleton())

	// ToInvestor darf keine internen Felder ins Directory tragen.
	persisted := inv.ToInvestor()
	assert.Equal(t, inv.ID, persisted.ID)
	assert.Equal(t, models.OriginSECEdgar, persisted.Origin)
}

func TestClassifyStagesAndCheckSize(t *testing.T) {
	assert.Equal(t, []string{"pre-seed", "seed"}, ClassifyStages(2_000_000))
	assert.Equal(t, []string{"seed", "series-a"}, ClassifyStages(25_000_000))
	assert.Equal(t, []string{"series-a", "series-b"}, ClassifyStages(100_000_000))
	assert.Equal(t, []string{"growth"}, ClassifyStages(500_000_000))

	assert.Equal(t, "$100K-$1M", ClassifyCheckSize(0))
	assert.Equal(t, "$5M-$20M", ClassifyCheckSize(300_000_000))
}

func TestClassifyGeography(t *testing.T) {
	assert.Equal(t, []string{"us-west", "california"}, ClassifyGeography("CA"))
	assert.Equal(t, []string{"us-east", "new-york"}, ClassifyGeography("ny"))
	assert.Equal(t, []string{"united-states"}, ClassifyGeography("WY"))
}

func TestVerifyRoutesFuzzyDuplicates(t *testing.T) {
	cfg := testConfig(t)
	logger := zap.NewNop()

	// Bestehender Directory-Eintrag, der dem Kandidaten per Fuzzy-Match entspricht
	directory := []models.Investor{{
		ID:   "acme-ventures",
		Name: "Acme Ventures",
		Firm: "Acme Ventures, LLC",
		Type: "vc",
	}}
	require.NoError(t, storage.SaveDirectory(filepath.Join(cfg.DataDir, cfg.DirectoryFile), directory))

	candidates := []models.FilingCandidate{fullSignalCandidate()}
	require.NoError(t, storage.WriteJSON(filepath.Join(cfg.DataDir, cfg.DiscoveredFile), candidates))

	result, err := NewVerifyService(cfg, logger).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Duplicates, 1)
	assert.Empty(t, result.Verified)
	assert.Empty(t, result.FlaggedForReview)
	assert.Equal(t, "acme-ventures", result.Duplicates[0].MatchedID)
	assert.Equal(t, 1, result.Summary.Duplicates)
}

func TestVerifyMissingInputNamesUpstreamStage(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewVerifyService(cfg, zap.NewNop()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Discovery")
}
