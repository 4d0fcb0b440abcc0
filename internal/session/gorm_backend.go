package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/router-for-me/ModelMarket/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend persists session values as rows in the session_entries table.
type GormBackend struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormBackend constructs a GormBackend. The schema must already be migrated.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db, now: time.Now}
}

// Get returns the stored value for key. Expired rows read as absent.
func (b *GormBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if b == nil || b.db == nil {
		return "", false, fmt.Errorf("gorm session backend: not initialized")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, fmt.Errorf("gorm session backend: missing key")
	}

	var entry models.SessionEntry
	errFind := b.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("gorm session backend: find %s: %w", key, errFind)
	}
	if entry.Expired(b.now().UTC()) {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Set upserts the value for key.
func (b *GormBackend) Set(ctx context.Context, key, value string, expiresAt time.Time) error {
	if b == nil || b.db == nil {
		return fmt.Errorf("gorm session backend: not initialized")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("gorm session backend: missing key")
	}

	now := b.now().UTC()
	entry := models.SessionEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	errUpsert := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if errUpsert != nil {
		return fmt.Errorf("gorm session backend: upsert %s: %w", key, errUpsert)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *GormBackend) Delete(ctx context.Context, key string) error {
	if b == nil || b.db == nil {
		return fmt.Errorf("gorm session backend: not initialized")
	}
	if errDelete := b.db.WithContext(ctx).Where("key = ?", strings.TrimSpace(key)).Delete(&models.SessionEntry{}).Error; errDelete != nil {
		return fmt.Errorf("gorm session backend: delete %s: %w", key, errDelete)
	}
	return nil
}
