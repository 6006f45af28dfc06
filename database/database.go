package database

import (
	"errors"
	"fmt"
	"go-portprobe/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a scan record does not exist.
var ErrNotFound = errors.New("record not found")

// DB defines the database instance containing the
// connection to the SQLite type database.
type DB struct {
	conn *gorm.DB
}

// New returns a new *DB instance backed by the SQLite file at path.
func New(path string) (*DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	db := &DB{conn: conn}

	if err = db.Migrate(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate migrates the current database structures.
func (db *DB) Migrate() error {
	return db.conn.AutoMigrate(&ScanRecord{}, &SettingsDB{})
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveScan saves the scan data.
func (db *DB) SaveScan(rec *ScanRecord) error {
	return db.conn.Create(rec).Error
}

// ListScans returns up to limit records, newest first.
func (db *DB) ListScans(limit int) ([]ScanRecord, error) {
	var recs []ScanRecord
	q := db.conn.Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// GetScan fetches a single record by id.
func (db *DB) GetScan(id uint) (*ScanRecord, error) {
	var rec ScanRecord
	if err := db.conn.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("scan %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &rec, nil
}

// SaveSettings stores s as the last used settings.
func (db *DB) SaveSettings(s models.Settings) error {
	var row SettingsDB
	if err := db.conn.FirstOrCreate(&row, SettingsDB{Model: gorm.Model{ID: 1}}).Error; err != nil {
		return err
	}

	row.Host = s.Host
	row.Ports = s.Ports
	row.Concurrency = s.Concurrency
	row.TimeoutMillis = s.TimeoutMillis
	row.Output = s.Output
	return db.conn.Save(&row).Error
}

// FetchSettings fetches the last used settings. ok is false when none were saved.
func (db *DB) FetchSettings() (s models.Settings, ok bool, err error) {
	var row SettingsDB
	err = db.conn.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Settings{}, false, nil
	}
	if err != nil {
		return models.Settings{}, false, err
	}

	return models.Settings{
		Host:          row.Host,
		Ports:         row.Ports,
		Concurrency:   row.Concurrency,
		TimeoutMillis: row.TimeoutMillis,
		Output:        row.Output,
	}, true, nil
}
