package edgar

import "strings"

// SearchResponse ist die Antwort der EDGAR Full-Text-Search auf eine
// Form-D-Abfrage (paginierte Hit-Liste).
type SearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []SearchHit `json:"hits"`
	} `json:"hits"`
}

// SearchHit ist ein einzelner Treffer mit Accession-Nummer und Filer-Identität.
type SearchHit struct {
	ID     string `json:"_id"`
	Source struct {
		Adsh         string   `json:"adsh"`
		CIKs         []string `json:"ciks"`
		DisplayNames []string `json:"display_names"`
		FileDate     string   `json:"file_date"`
	} `json:"_source"`
}

// FilingDoc ist das strukturierte Primärdokument eines Form-D-Filings
// (primary_doc.xml). Fehlende Felder bleiben Zero Values, Filings variieren
// stark in ihrer Vollständigkeit.
type FilingDoc struct {
	PrimaryIssuer struct {
		CIK        string `xml:"cik"`
		EntityName string `xml:"entityName"`
		EntityType string `xml:"entityType"`
		Address    struct {
			City           string `xml:"city"`
			StateOrCountry string `xml:"stateOrCountry"`
		} `xml:"issuerAddress"`
	} `xml:"primaryIssuer"`

	OfferingData struct {
		IndustryGroup struct {
			IndustryGroupType  string `xml:"industryGroupType"`
			InvestmentFundInfo struct {
				InvestmentFundType string `xml:"investmentFundType"`
			} `xml:"investmentFundInfo"`
		} `xml:"industryGroup"`
		OfferingSalesAmounts struct {
			TotalAmountSold string `xml:"totalAmountSold"`
		} `xml:"offeringSalesAmounts"`
	} `xml:"offeringData"`

	RelatedPersonsList struct {
		RelatedPersonInfo []struct {
			Name struct {
				FirstName string `xml:"firstName"`
				LastName  string `xml:"lastName"`
			} `xml:"relatedPersonName"`
		} `xml:"relatedPersonInfo"`
	} `xml:"relatedPersonsList"`

	SignatureBlock struct {
		SignatureDate string `xml:"signatureDate"`
	} `xml:"signatureBlock"`
}

// KeyPeople sammelt die benannten Personen aus den Related-Persons-Blöcken.
func (d *FilingDoc) KeyPeople() []string {
	var people []string
	for _, p := range d.RelatedPersonsList.RelatedPersonInfo {
		name := strings.TrimSpace(p.Name.FirstName + " " + p.Name.LastName)
		if name != "" {
			people = append(people, name)
		}
	}
	return people
}
