package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// ErrEmptyID is returned when saving a record without an id.
var ErrEmptyID = errors.New("history record has no id")

// Store saves and lists attempt records.
type Store interface {
	Save(r *Record) error
	Recent(account string, limit int) ([]*Record, error)
	Close() error
}

// SqliteStore is a Store backed by a sqlite file.
type SqliteStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open opens or creates the database at path and migrates the schema.
func Open(path string, log *zap.Logger) (*SqliteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	log.Debug("opening history database", zap.String("path", path))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating history database: %w", err)
	}
	return &SqliteStore{db: db, log: log}, nil
}

// Save inserts r or updates the mutable columns of an existing record.
func (s *SqliteStore) Save(r *Record) error {
	if r.ID == "" {
		return ErrEmptyID
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "tx_hash", "block_number", "error", "updated_at"}),
	}).Create(r).Error
	if err != nil {
		return fmt.Errorf("saving history record %s: %w", r.ID, err)
	}
	s.log.Debug("history record saved", zap.String("id", r.ID), zap.String("status", r.Status))
	return nil
}

// Recent lists the newest records first. An empty account lists all
// accounts; a non-positive limit lists everything.
func (s *SqliteStore) Recent(account string, limit int) ([]*Record, error) {
	q := s.db.Order("started_at desc")
	if account != "" {
		q = q.Where("account = ?", account)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var records []*Record
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return records, nil
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
