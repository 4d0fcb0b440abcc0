package models

import "time"

// SessionEntry stores one session value keyed by name.
type SessionEntry struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"` // Session key (authToken, userData).
	Value     string    `gorm:"type:text;not null"`          // Stored value, possibly sealed.
	ExpiresAt time.Time `gorm:"not null;index"`              // Expiry timestamp.
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`     // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`     // Update timestamp.
}

// TableName overrides the default table name.
func (SessionEntry) TableName() string {
	return "session_entries"
}

// Expired reports whether the entry is past its expiry at now.
func (e *SessionEntry) Expired(now time.Time) bool {
	if e == nil {
		return true
	}
	return !now.Before(e.ExpiresAt)
}
