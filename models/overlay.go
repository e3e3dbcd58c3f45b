package models

// OverlayEntry ist ein kuratierter Override pro Firmenname. Remove hat Vorrang
// vor allen Feld-Overrides; fehlende Felder lassen den Eintrag unverändert.
type OverlayEntry struct {
	Remove bool `json:"remove,omitempty"`

	Thesis              string   `json:"thesis,omitempty"`
	Website             string   `json:"website,omitempty"`
	LinkedIn            string   `json:"linkedin,omitempty"`
	Twitter             string   `json:"twitter,omitempty"`
	Photo               string   `json:"photo,omitempty"`
	Stages              []string `json:"stages,omitempty"`
	Sectors             []string `json:"sectors,omitempty"`
	PortfolioHighlights []string `json:"portfolioHighlights,omitempty"`
	RecentInvestments   []string `json:"recentInvestments,omitempty"`
}

// Overlay ist das operator-kuratierte Overlay-File, keyed über den Firmennamen.
type Overlay map[string]OverlayEntry
