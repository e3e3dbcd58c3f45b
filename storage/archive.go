package storage

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"fund-scout/config"
	"fund-scout/models"
)

// OpenArchive verbindet sich mit dem optionalen Filing-Archiv (Postgres) und
// migriert das Schema. Aufrufer prüfen vorher cfg.ArchiveEnabled().
func OpenArchive(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.ArchiveDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.FilingRecord{}); err != nil {
		return nil, err
	}
	log.Info("Filing-Archiv verbunden.", zap.String("host", cfg.ArchiveDBHost))
	return db, nil
}

// UpsertFiling schreibt ein Filing ins Archiv; Konflikt auf der
// Accession-Nummer aktualisiert den bestehenden Datensatz.
func UpsertFiling(db *gorm.DB, rec *models.FilingRecord) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "accession_no"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"issuer_name", "entity_type", "fund_type", "city", "state",
			"total_sold", "filing_date", "fund_likely", "updated_at",
		}),
	}).Create(rec).Error
}
