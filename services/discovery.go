package services

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fund-scout/config"
	"fund-scout/models"
	"fund-scout/providers/edgar"
	"fund-scout/storage"
)

// Fonds-Keywords für den Vorfilter der Discovery-Stufe.
var fundKeywords = []string{"fund", "capital", "ventures", "venture", "partners", "equity", "investments"}

// Sektoren, deren Filer grundsätzlich keine Investment-Fonds im Sinne des
// Directories sind.
var excludedSectorKeywords = []string{"bank", "insurance", "realty", "real estate", "mortgage", "housing"}

var fundSuffixPattern = regexp.MustCompile(`(?i)[,\s]+(fund|feeder|master)(\s+[ivxlcdm]+|\s+\d+[a-z]?)?\s*$`)

// DiscoveryService orchestriert Stufe 1: EDGAR-Suche, Filing-Abruf,
// Fonds-Vorfilter und Batch-Dedup nach normalisiertem Firmennamen.
type DiscoveryService struct {
	Config  *config.Config
	Logger  *zap.Logger
	Client  *edgar.Client
	Archive *gorm.DB // optional, nil wenn kein Archiv konfiguriert
}

// NewDiscoveryService erstellt eine neue Instanz des DiscoveryService.
func NewDiscoveryService(cfg *config.Config, logger *zap.Logger, client *edgar.Client, archive *gorm.DB) *DiscoveryService {
	return &DiscoveryService{Config: cfg, Logger: logger, Client: client, Archive: archive}
}

// Run führt die Discovery für den Datumsbereich aus und schreibt die
// deduplizierte Kandidatenliste. Gibt die Anzahl geschriebener Kandidaten zurück.
func (s *DiscoveryService) Run(ctx context.Context, startDate, endDate string, max int) (int, error) {
	hits, err := s.Client.SearchFilings(ctx, startDate, endDate, max)
	if err != nil {
		return 0, err
	}

	var accepted []models.FilingCandidate
	for _, hit := range hits {
		if len(hit.Source.CIKs) == 0 {
			continue
		}
		cik := hit.Source.CIKs[0]
		accession := hit.Source.Adsh

		doc, err := s.Client.FetchFilingDoc(ctx, cik, accession)
		if err != nil {
			// Einzelner Fehlschlag bricht den Batch nicht ab.
			continue
		}

		cand := FilingToCandidate(doc, cik, accession, hit.Source.FileDate)
		likely := LikelyInvestmentFund(cand)

		if s.Archive != nil {
			rec := filingToRecord(cand, likely)
			if err := storage.UpsertFiling(s.Archive, rec); err != nil {
				s.Logger.Warn("Archiv-Upsert fehlgeschlagen", zap.String("accession", accession), zap.Error(err))
			}
		}

		if !likely {
			s.Logger.Debug("Filer fällt durch den Fonds-Vorfilter",
				zap.String("issuer", cand.IssuerName), zap.String("entity_type", cand.EntityType))
			continue
		}
		accepted = append(accepted, cand)
	}

	unique := DedupeCandidates(accepted)

	outPath := filepath.Join(s.Config.DataDir, s.Config.DiscoveredFile)
	if err := storage.WriteJSON(outPath, unique); err != nil {
		return 0, err
	}

	s.Logger.Info("Discovery abgeschlossen",
		zap.Int("filings", len(hits)),
		zap.Int("candidates", len(unique)),
		zap.Int("fetch_errors", s.Client.FetchErrors()),
		zap.String("output", outPath))
	return len(unique), nil
}

// DedupeCandidates dedupliziert einen Batch nach normalisiertem Firmennamen.
// First-Writer-Wins; bei Schlüssel-Kollision gewinnt der größere totalSold.
func DedupeCandidates(batch []models.FilingCandidate) []models.FilingCandidate {
	byKey := make(map[string]int, len(batch))
	var unique []models.FilingCandidate
	for _, cand := range batch {
		key := NormalizeFirmName(cand.Firm)
		if key == "" {
			continue
		}
		if idx, ok := byKey[key]; ok {
			if cand.TotalSold > unique[idx].TotalSold {
				unique[idx] = cand
			}
			continue
		}
		byKey[key] = len(unique)
		unique = append(unique, cand)
	}
	return unique
}

// FilingToCandidate wandelt ein geparstes Filing-Dokument in einen
// FilingCandidate um. Fehlende Felder bleiben leer.
func FilingToCandidate(doc *edgar.FilingDoc, cik, accessionNo, fileDate string) models.FilingCandidate {
	totalSold, _ := strconv.ParseFloat(doc.OfferingData.OfferingSalesAmounts.TotalAmountSold, 64)

	filingDate := fileDate
	if filingDate == "" {
		filingDate = doc.SignatureBlock.SignatureDate
	}

	issuer := strings.TrimSpace(doc.PrimaryIssuer.EntityName)
	return models.FilingCandidate{
		IssuerName:   issuer,
		Firm:         DeriveFirmName(issuer),
		EntityType:   doc.PrimaryIssuer.EntityType,
		FundType:     doc.OfferingData.IndustryGroup.InvestmentFundInfo.InvestmentFundType,
		City:         doc.PrimaryIssuer.Address.City,
		State:        doc.PrimaryIssuer.Address.StateOrCountry,
		KeyPeople:    doc.KeyPeople(),
		TotalSold:    totalSold,
		FilingDate:   filingDate,
		AccessionNo:  accessionNo,
		CIK:          cik,
		Source:       "sec-edgar",
		DiscoveredAt: time.Now().UTC(),
	}
}

// DeriveFirmName leitet den kurzen Firmennamen aus dem Issuer-Namen ab:
// juristische Suffixe und Fonds-Nummerierungen ("Fund III") am Ende fallen weg.
func DeriveFirmName(issuerName string) string {
	name := strings.TrimSpace(issuerName)
	for _, suffix := range []string{", L.P.", ", LP", ", L.L.C.", ", LLC", ", Inc.", ", Ltd.", " L.P.", " LP", " LLC"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
		}
	}
	name = fundSuffixPattern.ReplaceAllString(name, "")
	return strings.TrimSpace(strings.TrimRight(name, ","))
}

// LikelyInvestmentFund ist der Vorfilter der Discovery-Stufe. Alle drei
// Bedingungen sind notwendig: Fonds-Signal im Namen oder explizite
// Fonds-Klassifikation, LP/LLC-Rechtsform, kein ausgeschlossener Sektor.
func LikelyInvestmentFund(cand models.FilingCandidate) bool {
	name := strings.ToLower(cand.IssuerName)

	hasFundSignal := cand.FundType != ""
	if !hasFundSignal {
		for _, kw := range fundKeywords {
			if strings.Contains(name, kw) {
				hasFundSignal = true
				break
			}
		}
	}
	if !hasFundSignal {
		return false
	}

	entity := strings.ToLower(cand.EntityType)
	if !strings.Contains(entity, "limited partnership") && !strings.Contains(entity, "limited liability") {
		return false
	}

	for _, kw := range excludedSectorKeywords {
		if strings.Contains(name, kw) {
			return false
		}
	}
	return true
}

func filingToRecord(cand models.FilingCandidate, likely bool) *models.FilingRecord {
	return &models.FilingRecord{
		AccessionNo: cand.AccessionNo,
		CIK:         cand.CIK,
		IssuerName:  cand.IssuerName,
		EntityType:  cand.EntityType,
		FundType:    cand.FundType,
		City:        cand.City,
		State:       cand.State,
		TotalSold:   cand.TotalSold,
		FilingDate:  cand.FilingDate,
		FundLikely:  likely,
	}
}
