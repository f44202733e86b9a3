package sqlite

import (
	"fmt"
	"strings"
	"time"

	driver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DefaultBusyTimeout applies when the caller passes no timeout
const DefaultBusyTimeout = 5 * time.Second

var gormOpen = gorm.Open

// NewConnection opens the SQLite database at path. Write transactions start
// with BEGIN IMMEDIATE and wait up to busyTimeout for the database lock, so
// concurrent writers queue instead of failing with "database is locked".
func NewConnection(path string, busyTimeout time.Duration) (*gorm.DB, error) {
	db, err := gormOpen(driver.Open(DSN(path, busyTimeout)), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// DSN appends the busy timeout and transaction mode to path
func DSN(path string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d&_txlock=immediate", path, sep, busyTimeout.Milliseconds())
}
