package models

import (
	"strings"
	"time"
)

// Herkunft eines Directory-Eintrags. Pipeline-Skelette tragen OriginSECEdgar,
// kuratierte Einträge bleiben für die Enrichment-Stufe unantastbar.
const (
	OriginSECEdgar = "sec-edgar"
	OriginCurated  = "curated"
)

// Confidence-Stufen aus der Verification-Stufe.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// SkeletonThesisMarker kennzeichnet automatisch generierte Thesis-Texte.
// Nur noch als Migrations-Fallback für Alt-Einträge ohne origin-Feld relevant.
const SkeletonThesisMarker = "Discovered via SEC EDGAR Form D filing"

// Investor ist ein persistierter Directory-Eintrag. Die id ist innerhalb des
// Directories global eindeutig; Kollisionen löst die Merge-Stufe per Umbenennung.
type Investor struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Firm      string   `json:"firm"`
	Type      string   `json:"type"`
	Stages    []string `json:"stages,omitempty"`
	Sectors   []string `json:"sectors,omitempty"`
	CheckSize string   `json:"checkSize,omitempty"`
	Geography []string `json:"geography,omitempty"`
	FundSize  string   `json:"fundSize,omitempty"`
	Active    bool     `json:"active"`
	Origin    string   `json:"origin,omitempty"`

	Thesis              string   `json:"thesis,omitempty"`
	Website             string   `json:"website,omitempty"`
	LinkedIn            string   `json:"linkedin,omitempty"`
	Twitter             string   `json:"twitter,omitempty"`
	Photo               string   `json:"photo,omitempty"`
	PortfolioHighlights []string `json:"portfolioHighlights,omitempty"`
	RecentInvestments   []string `json:"recentInvestments,omitempty"`
}

// IsSkeleton meldet, ob der Eintrag von dieser Pipeline erzeugt wurde.
// Alt-Einträge ohne origin-Feld werden über den Thesis-Marker erkannt.
func (inv *Investor) IsSkeleton() bool {
	if inv.Origin != "" {
		return inv.Origin == OriginSECEdgar
	}
	return strings.Contains(inv.Thesis, SkeletonThesisMarker)
}

// CandidateInvestor ist die Obermenge des Directory-Schemas mit internen
// Feldern, die vor der Übernahme ins Directory entfernt werden.
type CandidateInvestor struct {
	Investor

	Confidence string    `json:"confidence"`
	SourceType string    `json:"sourceType"`
	FilingIDs  []string  `json:"filingIds,omitempty"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// ToInvestor entfernt Confidence-Tag und Provenance-Metadaten.
func (c *CandidateInvestor) ToInvestor() Investor {
	inv := c.Investor
	inv.Origin = OriginSECEdgar
	return inv
}
