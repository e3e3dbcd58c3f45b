package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fund-scout/models"
	"fund-scout/providers/edgar"
	"fund-scout/storage"
)

func TestDedupeCandidatesKeepsLargerTotalSold(t *testing.T) {
	batch := []models.FilingCandidate{
		{Firm: "Acme Ventures", TotalSold: 5_000_000, AccessionNo: "a-1"},
		{Firm: "Blue Horizon", TotalSold: 1_000_000, AccessionNo: "b-1"},
		{Firm: "ACME VENTURES, LLC", TotalSold: 12_000_000, AccessionNo: "a-2"},
	}

	unique := DedupeCandidates(batch)
	require.Len(t, unique, 2)

	byFirm := map[string]models.FilingCandidate{}
	for _, c := range unique {
		byFirm[NormalizeFirmName(c.Firm)] = c
	}
	assert.Equal(t, "a-2", byFirm["acme"].AccessionNo)
	assert.Equal(t, 12_000_000.0, byFirm["acme"].TotalSold)
}

func TestLikelyInvestmentFund(t *testing.T) {
	tests := []struct {
		name string
		cand models.FilingCandidate
		want bool
	}{
		{
			"LP mit Fonds-Keyword",
			models.FilingCandidate{IssuerName: "Acme Ventures Fund II, L.P.", EntityType: "Limited Partnership"},
			true,
		},
		{
			"LLC mit expliziter Fonds-Klassifikation",
			models.FilingCandidate{IssuerName: "Quiet Holdings LLC", EntityType: "Limited Liability Company", FundType: "Venture Capital Fund"},
			true,
		},
		{
			"Corporation fällt durch die Rechtsform-Bedingung",
			models.FilingCandidate{IssuerName: "Acme Ventures Inc.", EntityType: "Corporation"},
			false,
		},
		{
			"Ausgeschlossener Sektor trotz Fonds-Keyword",
			models.FilingCandidate{IssuerName: "Sunrise Real Estate Fund LP", EntityType: "Limited Partnership"},
			false,
		},
		{
			"Kein Fonds-Signal",
			models.FilingCandidate{IssuerName: "Quiet Dynamics LLC", EntityType: "Limited Liability Company"},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LikelyInvestmentFund(tt.cand))
		})
	}
}

func TestDeriveFirmName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Ventures Fund II, L.P.", "Acme Ventures"},
		{"Blue Horizon Partners LLC", "Blue Horizon Partners"},
		{"Lightspeed Select Fund V", "Lightspeed Select"},
		{"Plain Name", "Plain Name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveFirmName(tt.in))
	}
}

func formDXML(entityName, entityType, fundType, city, state, person, totalSold string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<edgarSubmission>
  <primaryIssuer>
    <cik>1000001</cik>
    <entityName>%s</entityName>
    <entityType>%s</entityType>
    <issuerAddress><city>%s</city><stateOrCountry>%s</stateOrCountry></issuerAddress>
  </primaryIssuer>
  <relatedPersonsList>
    <relatedPersonInfo><relatedPersonName><firstName>%s</firstName><lastName>Roe</lastName></relatedPersonName></relatedPersonInfo>
  </relatedPersonsList>
  <offeringData>
    <industryGroup>
      <industryGroupType>Pooled Investment Fund</industryGroupType>
      <investmentFundInfo><investmentFundType>%s</investmentFundType></investmentFundInfo>
    </industryGroup>
    <offeringSalesAmounts><totalAmountSold>%s</totalAmountSold></offeringSalesAmounts>
  </offeringData>
  <signatureBlock><signatureDate>2026-05-01</signatureDate></signatureBlock>
</edgarSubmission>`, entityName, entityType, city, state, person, fundType, totalSold)
}

func TestDiscoveryRunEndToEnd(t *testing.T) {
	filings := map[string]string{
		"000000000124000001": formDXML("Acme Ventures Fund II, L.P.", "Limited Partnership", "Venture Capital Fund", "San Francisco", "CA", "Jane", "5000000"),
		"000000000124000002": formDXML("Acme Ventures Fund III, L.P.", "Limited Partnership", "Venture Capital Fund", "San Francisco", "CA", "Jane", "12000000"),
		"000000000124000003": formDXML("Blue Horizon Partners LLC", "Limited Liability Company", "Venture Capital Fund", "New York", "NY", "John", "3000000"),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/search-index") {
			fmt.Fprint(w, `{"hits":{"total":{"value":3},"hits":[
				{"_id":"1","_source":{"adsh":"0000000001-24-000001","ciks":["1000001"],"file_date":"2026-05-01"}},
				{"_id":"2","_source":{"adsh":"0000000001-24-000002","ciks":["1000001"],"file_date":"2026-05-02"}},
				{"_id":"3","_source":{"adsh":"0000000001-24-000003","ciks":["1000001"],"file_date":"2026-05-03"}}]}}`)
			return
		}
		for key, xml := range filings {
			if strings.Contains(r.URL.Path, key) {
				fmt.Fprint(w, xml)
				return
			}
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.EdgarSearchURL = srv.URL + "/search-index"
	cfg.EdgarArchivesURL = srv.URL + "/Archives/edgar"
	cfg.EdgarContact = "test test@example.com"
	cfg.EdgarMinInterval = time.Millisecond

	client := edgar.NewClient(cfg, zap.NewNop())
	svc := NewDiscoveryService(cfg, zap.NewNop(), client, nil)

	count, err := svc.Run(context.Background(), "2026-05-01", "2026-05-07", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var candidates []models.FilingCandidate
	require.NoError(t, storage.ReadJSON(filepath.Join(cfg.DataDir, cfg.DiscoveredFile), &candidates))
	require.Len(t, candidates, 2)

	byFirm := map[string]models.FilingCandidate{}
	for _, c := range candidates {
		byFirm[c.Firm] = c
	}
	acme, ok := byFirm["Acme Ventures"]
	require.True(t, ok, "Acme-Kandidat fehlt")
	assert.Equal(t, 12_000_000.0, acme.TotalSold, "bei Schlüssel-Kollision gewinnt der größere totalSold")
	assert.Equal(t, "0000000001-24-000002", acme.AccessionNo)
	assert.Equal(t, []string{"Jane Roe"}, acme.KeyPeople)
	assert.Zero(t, client.FetchErrors())
}
