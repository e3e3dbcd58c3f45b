// Package storage bündelt die Persistenz der Pipeline: die JSON-Datei-Kontrakte
// zwischen den Stufen, das optionale Postgres-Filing-Archiv und das
// S3-Offsite-Backup des Directories.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"fund-scout/models"
)

// ReadJSON liest eine JSON-Datei in v ein.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// WriteJSON schreibt v als eingerücktes JSON, via Temp-Datei plus Rename,
// damit ein Crash beim Schreiben die Zieldatei nicht halb leert.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// BackupFile legt eine zeitgestempelte Kopie der Datei an und gibt den
// Backup-Pfad zurück. Einziger Rollback-Mechanismus der Mutations-Stufen.
func BackupFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	backupPath := fmt.Sprintf("%s.backup-%s", path, time.Now().UTC().Format("20060102-150405"))
	dst, err := os.Create(backupPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return backupPath, nil
}

// LoadDirectory lädt das Investor-Directory. Eine fehlende Datei ist ein
// leeres Directory, kein Fehler.
func LoadDirectory(path string) ([]models.Investor, error) {
	var investors []models.Investor
	if err := ReadJSON(path, &investors); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return investors, nil
}

// SaveDirectory schreibt das Directory wholesale zurück.
func SaveDirectory(path string, investors []models.Investor) error {
	if investors == nil {
		investors = []models.Investor{}
	}
	return WriteJSON(path, investors)
}

// LoadOverlay lädt das kuratierte Enrichment-Overlay. Fehlt die Datei, ist das
// Overlay leer; Abwesenheit ist kein Fehler.
func LoadOverlay(path string) (models.Overlay, error) {
	var overlay models.Overlay
	if err := ReadJSON(path, &overlay); err != nil {
		if os.IsNotExist(err) {
			return models.Overlay{}, nil
		}
		return nil, err
	}
	return overlay, nil
}
