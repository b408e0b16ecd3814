package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kvEntry is one row of the on-device key-value table.
type kvEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:128"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

type sqliteBackend struct {
	db    *gorm.DB
	owned bool
}

// NewSQLite builds a backend on a gorm sqlite handle, migrating the table.
// When owned is true Close also closes the database.
func NewSQLite(db *gorm.DB, owned bool) (Backend, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite token store requires database handle")
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &sqliteBackend{db: db, owned: owned}, nil
}

func (b *sqliteBackend) Name() string { return DriverSQLite }

func (b *sqliteBackend) Read(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := b.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select kv entry: %w", err)
	}
	return entry.Value, true, nil
}

func (b *sqliteBackend) Write(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert kv entry: %w", err)
	}
	return nil
}

func (b *sqliteBackend) Delete(ctx context.Context, key string) error {
	if err := b.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&kvEntry{}).Error; err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}
	return nil
}

func (b *sqliteBackend) Close() error {
	if !b.owned {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
