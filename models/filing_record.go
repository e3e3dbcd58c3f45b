package models

import "time"

// FilingRecord ist die Archiv-Repräsentation eines abgerufenen Filings für das
// optionale Postgres-Audit-Archiv. Upsert-Schlüssel ist die Accession-Nummer.
type FilingRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccessionNo string  `json:"accession_no" gorm:"uniqueIndex;not null"`
	CIK         string  `json:"cik" gorm:"index"`
	IssuerName  string  `json:"issuer_name"`
	EntityType  string  `json:"entity_type"`
	FundType    string  `json:"fund_type,omitempty" gorm:"index"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty" gorm:"index"`
	TotalSold   float64 `json:"total_sold"`
	FilingDate  string  `json:"filing_date,omitempty"`
	FundLikely  bool    `json:"fund_likely" gorm:"index"`
}
