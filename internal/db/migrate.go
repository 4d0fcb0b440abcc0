package db

import (
	"fmt"
	"time"

	"github.com/router-for-me/ModelMarket/internal/models"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite:
		return migrateSQLite(conn)
	case DialectPostgres, "":
		return migratePostgres(conn)
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}
}

// migratePostgres applies the PostgreSQL schema.
func migratePostgres(conn *gorm.DB) error {
	if errAutoMigrate := conn.AutoMigrate(&models.SessionEntry{}); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	return nil
}

// migrateSQLite applies the SQLite schema and drops rows that expired while the store was closed.
func migrateSQLite(conn *gorm.DB) error {
	if errAutoMigrate := conn.AutoMigrate(&models.SessionEntry{}); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	if _, errPurge := PurgeExpiredSessions(conn, time.Now().UTC()); errPurge != nil {
		return errPurge
	}
	return nil
}

// PurgeExpiredSessions deletes session entries whose expiry is at or before now.
func PurgeExpiredSessions(conn *gorm.DB, now time.Time) (int64, error) {
	if conn == nil {
		return 0, fmt.Errorf("db: nil connection")
	}
	res := conn.Where("expires_at <= ?", now).Delete(&models.SessionEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("db: purge expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
