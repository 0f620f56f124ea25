package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is one named blob. liftlog keeps its whole document in a single row.
type KVEntry struct {
	Key       string `gorm:"column:slot_key;primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName pins the table name independent of gorm's pluralisation
func (KVEntry) TableName() string {
	return "kv_entries"
}

// Slot reads and writes the blob stored under one key
type Slot struct {
	db  *gorm.DB
	key string
}

// NewSlot returns a slot for key backed by db
func NewSlot(db *gorm.DB, key string) *Slot {
	return &Slot{db: db, key: key}
}

// Key returns the key this slot is bound to
func (s *Slot) Key() string {
	return s.key
}

// Read returns the stored blob. ok is false when nothing was stored yet.
func (s *Slot) Read() ([]byte, bool, error) {
	var entry KVEntry
	err := s.db.Where("slot_key = ?", s.key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", s.key, err)
	}
	return entry.Value, true, nil
}

// Write overwrites the blob unconditionally
func (s *Slot) Write(value []byte) error {
	entry := KVEntry{Key: s.key, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write %q: %w", s.key, err)
	}
	return nil
}

// Remove deletes the blob. Removing a missing key is not an error.
func (s *Slot) Remove() error {
	if err := s.db.Where("slot_key = ?", s.key).Delete(&KVEntry{}).Error; err != nil {
		return fmt.Errorf("remove %q: %w", s.key, err)
	}
	return nil
}
