package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"4310"`

	// EDGAR-Endpunkte und Fair-Access-Parameter
	EdgarSearchURL   string        `envconfig:"EDGAR_SEARCH_URL" default:"https://efts.sec.gov/LATEST/search-index"`
	EdgarArchivesURL string        `envconfig:"EDGAR_ARCHIVES_URL" default:"https://www.sec.gov/Archives/edgar"`
	EdgarContact     string        `envconfig:"EDGAR_CONTACT" required:"true"`
	EdgarMinInterval time.Duration `envconfig:"EDGAR_MIN_INTERVAL" default:"150ms"`
	EdgarMaxResults  int           `envconfig:"EDGAR_MAX_RESULTS" default:"100"`

	// Datei-Kontrakte zwischen den Pipeline-Stufen
	DataDir        string `envconfig:"DATA_DIR" default:"data"`
	DiscoveredFile string `envconfig:"DISCOVERED_FILE" default:"discovered_funds.json"`
	VerifiedFile   string `envconfig:"VERIFIED_FILE" default:"verified_investors.json"`
	DirectoryFile  string `envconfig:"DIRECTORY_FILE" default:"investors.json"`
	ReportFile     string `envconfig:"REPORT_FILE" default:"merge_report.json"`
	OverlayFile    string `envconfig:"OVERLAY_FILE" default:"enrichment_overlay.json"`

	// Externe Regel-Tabellen für den Non-VC-Klassifikator (leer = eingebettete Defaults)
	RulesFile string `envconfig:"RULES_FILE"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 2 * * *"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Optionales Filing-Archiv (Postgres); aktiv sobald ARCHIVE_DB_HOST gesetzt ist
	ArchiveDBHost     string `envconfig:"ARCHIVE_DB_HOST"`
	ArchiveDBPort     int    `envconfig:"ARCHIVE_DB_PORT" default:"5432"`
	ArchiveDBUser     string `envconfig:"ARCHIVE_DB_USER"`
	ArchiveDBPassword string `envconfig:"ARCHIVE_DB_PASSWORD"`
	ArchiveDBName     string `envconfig:"ARCHIVE_DB_NAME" default:"fund_scout"`
}

// ArchiveDSN gibt den Data Source Name für die PostgreSQL-Verbindung des Filing-Archivs zurück.
func (c *Config) ArchiveDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.ArchiveDBHost, c.ArchiveDBUser, c.ArchiveDBPassword, c.ArchiveDBName, c.ArchiveDBPort)
}

// ArchiveEnabled meldet, ob das optionale Filing-Archiv konfiguriert ist.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveDBHost != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
