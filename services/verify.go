package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"fund-scout/config"
	"fund-scout/models"
	"fund-scout/storage"
)

// sizeFloor ist das Offering-Volumen, ab dem ein Filing als starkes Signal
// für einen echten Fonds zählt (USD).
const sizeFloor = 5_000_000

// Explizite Fonds-Klassifikationen, die den vollen Punktwert bekommen.
var strongFundTypes = map[string]struct{}{
	"Venture Capital Fund": {},
	"Private Equity Fund":  {},
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// VerifyService orchestriert Stufe 2: Fuzzy-Match gegen das Directory,
// Klassifikation und Confidence-Scoring der entdeckten Kandidaten.
type VerifyService struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewVerifyService erstellt eine neue Instanz des VerifyService.
func NewVerifyService(cfg *config.Config, logger *zap.Logger) *VerifyService {
	return &VerifyService{Config: cfg, Logger: logger}
}

// Run lädt die Kandidaten der Discovery-Stufe, partitioniert sie in
// verified/flaggedForReview/duplicates und schreibt das Verification-File.
func (s *VerifyService) Run(ctx context.Context) (*models.VerificationResult, error) {
	inPath := filepath.Join(s.Config.DataDir, s.Config.DiscoveredFile)
	var candidates []models.FilingCandidate
	if err := storage.ReadJSON(inPath, &candidates); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s fehlt — erst die Discovery-Stufe ausführen (cmd/discover)", inPath)
		}
		return nil, err
	}

	directory, err := storage.LoadDirectory(filepath.Join(s.Config.DataDir, s.Config.DirectoryFile))
	if err != nil {
		return nil, err
	}

	result := &models.VerificationResult{GeneratedAt: time.Now().UTC()}
	for _, cand := range candidates {
		matchedID, score := BestDirectoryMatch(cand.Firm, directory)

		if IsDuplicateName(score) {
			result.Duplicates = append(result.Duplicates, models.DuplicateEntry{
				Firm:       cand.Firm,
				MatchedID:  matchedID,
				MatchScore: score,
			})
			s.Logger.Info("Kandidat ist Duplikat eines Directory-Eintrags",
				zap.String("firm", cand.Firm), zap.String("matched_id", matchedID), zap.Float64("score", score))
			continue
		}

		confidence := ScoreConfidence(cand, false)
		investor := BuildCandidateInvestor(cand, confidence)

		switch confidence {
		case models.ConfidenceHigh, models.ConfidenceMedium:
			result.Verified = append(result.Verified, investor)
		default:
			result.FlaggedForReview = append(result.FlaggedForReview, investor)
		}
	}

	result.Summary = models.VerificationSummary{
		Candidates:       len(candidates),
		Verified:         len(result.Verified),
		FlaggedForReview: len(result.FlaggedForReview),
		Duplicates:       len(result.Duplicates),
	}

	outPath := filepath.Join(s.Config.DataDir, s.Config.VerifiedFile)
	if err := storage.WriteJSON(outPath, result); err != nil {
		return nil, err
	}

	s.Logger.Info("Verification abgeschlossen",
		zap.Int("candidates", result.Summary.Candidates),
		zap.Int("verified", result.Summary.Verified),
		zap.Int("flagged", result.Summary.FlaggedForReview),
		zap.Int("duplicates", result.Summary.Duplicates),
		zap.String("output", outPath))
	return result, nil
}

// BestDirectoryMatch liefert den Directory-Eintrag mit dem höchsten
// Similarity-Score für den Firmennamen.
func BestDirectoryMatch(firm string, directory []models.Investor) (matchedID string, best float64) {
	for _, inv := range directory {
		score := FirmSimilarity(firm, inv.Firm)
		if score > best {
			best = score
			matchedID = inv.ID
		}
	}
	return matchedID, best
}

// ScoreConfidence bewertet, ob ein Filing genug strukturiertes Signal trägt,
// um ohne Review einen Directory-Eintrag zu erzeugen. Additiv:
// Personen +1, Standort +1, expliziter VC/PE-Fondstyp +2, Offering > 0 +1,
// kein Directory-Match +1, Offering über der Größenschwelle +1.
// >=5 high, >=3 medium, sonst low.
func ScoreConfidence(cand models.FilingCandidate, hasExistingMatch bool) string {
	score := 0
	if len(cand.KeyPeople) > 0 {
		score++
	}
	if cand.City != "" || cand.State != "" {
		score++
	}
	if _, ok := strongFundTypes[cand.FundType]; ok {
		score += 2
	}
	if cand.TotalSold > 0 {
		score++
	}
	if !hasExistingMatch {
		score++
	}
	if cand.TotalSold > sizeFloor {
		score++
	}

	switch {
	case score >= 5:
		return models.ConfidenceHigh
	case score >= 3:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// BuildCandidateInvestor baut aus einem Filing-Kandidaten den Investor-Datensatz
// mit internem Confidence-Tag und Provenance-Metadaten.
func BuildCandidateInvestor(cand models.FilingCandidate, confidence string) models.CandidateInvestor {
	return models.CandidateInvestor{
		Investor: models.Investor{
			ID:        SlugID(cand.Firm),
			Name:      cand.Firm,
			Firm:      cand.Firm,
			Type:      ClassifyInvestorType(cand),
			Stages:    ClassifyStages(cand.TotalSold),
			Sectors:   []string{"generalist"},
			CheckSize: ClassifyCheckSize(cand.TotalSold),
			Geography: ClassifyGeography(cand.State),
			FundSize:  formatFundSize(cand.TotalSold),
			Active:    true,
			Origin:    models.OriginSECEdgar,
			Thesis:    fmt.Sprintf("%s (%s).", models.SkeletonThesisMarker, cand.AccessionNo),
		},
		Confidence: confidence,
		SourceType: "sec-form-d",
		FilingIDs:  []string{cand.AccessionNo},
		VerifiedAt: time.Now().UTC(),
	}
}

// ClassifyInvestorType leitet den Investor-Typ aus Filing-Attributen ab.
func ClassifyInvestorType(cand models.FilingCandidate) string {
	name := strings.ToLower(cand.IssuerName)
	switch {
	case strings.Contains(name, "family office"):
		return "family-office"
	case strings.Contains(name, "angel"):
		return "angel"
	default:
		return "vc"
	}
}

// ClassifyStages leitet die Funding-Stages aus dem Offering-Volumen ab.
func ClassifyStages(totalSold float64) []string {
	switch {
	case totalSold <= 0 || totalSold < 10_000_000:
		return []string{"pre-seed", "seed"}
	case totalSold < 50_000_000:
		return []string{"seed", "series-a"}
	case totalSold < 250_000_000:
		return []string{"series-a", "series-b"}
	default:
		return []string{"growth"}
	}
}

// ClassifyCheckSize leitet die typische Check-Size-Range aus dem
// Offering-Volumen ab.
func ClassifyCheckSize(totalSold float64) string {
	switch {
	case totalSold <= 0 || totalSold < 10_000_000:
		return "$100K-$1M"
	case totalSold < 50_000_000:
		return "$500K-$2M"
	case totalSold < 250_000_000:
		return "$1M-$5M"
	default:
		return "$5M-$20M"
	}
}

// us-Regionen für die gängigsten Filing-Staaten; alles andere bleibt generisch.
var stateRegions = map[string][]string{
	"CA": {"us-west", "california"},
	"NY": {"us-east", "new-york"},
	"MA": {"us-east", "boston"},
	"TX": {"us-south", "texas"},
	"WA": {"us-west", "seattle"},
	"IL": {"us-midwest", "chicago"},
	"CO": {"us-west", "colorado"},
	"FL": {"us-south", "florida"},
	"DE": {"us-east"},
	"CT": {"us-east"},
}

// ClassifyGeography leitet Geografie-Tags aus dem Filing-Staat ab.
func ClassifyGeography(state string) []string {
	if tags, ok := stateRegions[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return tags
	}
	return []string{"united-states"}
}

// SlugID erzeugt die Kandidaten-Id aus dem Firmennamen (lowercase, Bindestriche).
func SlugID(firm string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(firm), "-")
	return strings.Trim(slug, "-")
}

func formatFundSize(totalSold float64) string {
	switch {
	case totalSold <= 0:
		return ""
	case totalSold >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", totalSold/1_000_000_000)
	case totalSold >= 1_000_000:
		return fmt.Sprintf("$%.0fM", totalSold/1_000_000)
	default:
		return fmt.Sprintf("$%.0fK", totalSold/1_000)
	}
}
