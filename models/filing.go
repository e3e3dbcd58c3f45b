package models

import "time"

// FilingCandidate repräsentiert einen Form-D-Filer nach dem Discovery-Vorfilter.
// Identitätsschlüssel innerhalb eines Batches ist der normalisierte Firmenname.
type FilingCandidate struct {
	IssuerName  string   `json:"issuerName"`
	Firm        string   `json:"firm"`
	EntityType  string   `json:"entityType"`
	FundType    string   `json:"fundType,omitempty"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	KeyPeople   []string `json:"keyPeople,omitempty"`
	TotalSold   float64  `json:"totalSold"`
	FilingDate  string   `json:"filingDate,omitempty"`
	AccessionNo string   `json:"accessionNo"`
	CIK         string   `json:"cik"`
	Source      string   `json:"source"`

	DiscoveredAt time.Time `json:"discoveredAt"`
}
