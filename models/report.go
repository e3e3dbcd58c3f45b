package models

import "time"

// VerificationResult ist der Datei-Kontrakt zwischen Verification- und Merge-Stufe.
type VerificationResult struct {
	Verified         []CandidateInvestor `json:"verified"`
	FlaggedForReview []CandidateInvestor `json:"flaggedForReview"`
	Duplicates       []DuplicateEntry    `json:"duplicates"`
	Summary          VerificationSummary `json:"summary"`
	GeneratedAt      time.Time           `json:"generatedAt"`
}

// DuplicateEntry dokumentiert einen Kandidaten, der per Fuzzy-Match auf einen
// bestehenden Directory-Eintrag gefallen ist.
type DuplicateEntry struct {
	Firm       string  `json:"firm"`
	MatchedID  string  `json:"matchedId"`
	MatchScore float64 `json:"matchScore"`
}

// VerificationSummary fasst die Partitionierung eines Laufs zusammen.
type VerificationSummary struct {
	Candidates       int `json:"candidates"`
	Verified         int `json:"verified"`
	FlaggedForReview int `json:"flaggedForReview"`
	Duplicates       int `json:"duplicates"`
}

// MergeReport dokumentiert einen Merge-Lauf gegen das Directory.
type MergeReport struct {
	RunID            string        `json:"runId"`
	Added            []MergeItem   `json:"added"`
	Skipped          []MergeItem   `json:"skipped"`
	FlaggedForReview []MergeItem   `json:"flaggedForReview"`
	BackupFile       string        `json:"backupFile,omitempty"`
	StartedAt        time.Time     `json:"startedAt"`
	FinishedAt       time.Time     `json:"finishedAt"`
}

// MergeItem ist ein einzelner Eintrag im Merge-Report.
type MergeItem struct {
	ID        string    `json:"id"`
	Firm      string    `json:"firm"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EnrichmentReport fasst einen Enrichment-Lauf über das volle Directory zusammen.
type EnrichmentReport struct {
	Scanned     int       `json:"scanned"`
	Skeletons   int       `json:"skeletons"`
	Excluded    []string  `json:"excluded,omitempty"`
	Removed     []string  `json:"removed,omitempty"`
	Enriched    []string  `json:"enriched,omitempty"`
	Kept        int       `json:"kept"`
	BackupFile  string    `json:"backupFile,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}
