package edgar

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"fund-scout/config"
)

// pageSize ist die Seitengröße der EDGAR Full-Text-Search.
const pageSize = 10

// maxLoggedFetchErrors begrenzt das Logging wiederholter Transportfehler,
// damit ein schlechter Batch das Log nicht flutet.
const maxLoggedFetchErrors = 5

// contactTransport setzt den von der SEC geforderten identifizierenden
// User-Agent-Header auf jede Anfrage.
type contactTransport struct {
	contact   string
	transport http.RoundTripper
}

func (t *contactTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.contact)
	return t.transport.RoundTrip(req)
}

// Client kapselt den Zugriff auf die EDGAR-Endpunkte. Alle Anfragen laufen
// sequenziell durch einen Min-Interval-Throttle unterhalb des publizierten
// Rate-Limits.
type Client struct {
	Config *config.Config
	Logger *zap.Logger

	httpClient *http.Client
	limiter    *rate.Limiter

	fetchErrors int
}

// NewClient erstellt einen neuen EDGAR-Client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		Config: cfg,
		Logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &contactTransport{
				contact:   cfg.EdgarContact,
				transport: http.DefaultTransport,
			},
		},
		limiter: rate.NewLimiter(rate.Every(cfg.EdgarMinInterval), 1),
	}
}

// SearchFilings fragt den Filing-Suchindex für den Datumsbereich ab und gibt
// die Hit-Liste zurück, gedeckelt auf max Treffer.
func (c *Client) SearchFilings(ctx context.Context, startDate, endDate string, max int) ([]SearchHit, error) {
	log := c.Logger.With(zap.String("start", startDate), zap.String("end", endDate))
	log.Info("Starte EDGAR Full-Text-Search für Form D.")

	var allHits []SearchHit
	for offset := 0; ; offset += pageSize {
		searchURL := c.buildSearchURL(startDate, endDate, offset)
		log.Debug("Rufe Search-URL auf", zap.String("url", searchURL))

		body, err := c.get(ctx, searchURL)
		if err != nil {
			return nil, fmt.Errorf("edgar search: %w", err)
		}

		var resp SearchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parse search response: %w", err)
		}

		if len(resp.Hits.Hits) == 0 {
			break
		}
		allHits = append(allHits, resp.Hits.Hits...)
		log.Debug("Seite erhalten", zap.Int("count", len(resp.Hits.Hits)), zap.Int("offset", offset))

		if max > 0 && len(allHits) >= max {
			allHits = allHits[:max]
			break
		}
		if offset+pageSize >= resp.Hits.Total.Value {
			break
		}
	}

	log.Info("EDGAR-Suche abgeschlossen", zap.Int("total_hits", len(allHits)))
	return allHits, nil
}

// FetchFilingDoc holt das strukturierte Primärdokument für ein Accession/CIK-Paar.
func (c *Client) FetchFilingDoc(ctx context.Context, cik, accessionNo string) (*FilingDoc, error) {
	docURL := fmt.Sprintf("%s/data/%s/%s/primary_doc.xml",
		c.Config.EdgarArchivesURL,
		strings.TrimLeft(cik, "0"),
		strings.ReplaceAll(accessionNo, "-", ""))
	c.Logger.Debug("Rufe Filing-Dokument ab", zap.String("url", docURL))

	body, err := c.get(ctx, docURL)
	if err != nil {
		return nil, fmt.Errorf("filing %s: %w", accessionNo, err)
	}

	var doc FilingDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse filing %s: %w", accessionNo, err)
	}
	return &doc, nil
}

// FetchErrors meldet die Anzahl fehlgeschlagener Abrufe in diesem Lauf.
func (c *Client) FetchErrors() int {
	return c.fetchErrors
}

// get führt einen gedrosselten GET aus und liest den Body. Transportfehler
// werden gezählt und nur für die ersten Fälle geloggt.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFetchError(rawURL, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("bad status: %s", resp.Status)
		c.recordFetchError(rawURL, err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFetchError(rawURL, err)
		return nil, err
	}
	return body, nil
}

func (c *Client) recordFetchError(rawURL string, err error) {
	c.fetchErrors++
	if c.fetchErrors <= maxLoggedFetchErrors {
		c.Logger.Warn("EDGAR-Abruf fehlgeschlagen", zap.String("url", rawURL), zap.Error(err))
		if c.fetchErrors == maxLoggedFetchErrors {
			c.Logger.Warn("Weitere Abruf-Fehler werden nur noch gezählt.")
		}
	}
}

func (c *Client) buildSearchURL(startDate, endDate string, offset int) string {
	params := url.Values{}
	params.Set("q", `"Form D"`)
	params.Set("forms", "D")
	params.Set("dateRange", "custom")
	params.Set("startdt", startDate)
	params.Set("enddt", endDate)
	params.Set("from", fmt.Sprintf("%d", offset))
	return c.Config.EdgarSearchURL + "?" + params.Encode()
}
