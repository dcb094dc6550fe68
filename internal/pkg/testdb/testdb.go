// Package testdb opens throwaway in-memory databases for package tests.
package testdb

import (
	"testing"

	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/core/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens an in-memory SQLite database, migrates every table and seeds the
// known roles. The database is closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, role := range domain.KnownRoles {
		if err := db.Create(&models.Role{Name: string(role)}).Error; err != nil {
			t.Fatalf("seed role %s: %v", role, err)
		}
	}

	return db
}

// Count returns the number of rows in table matching the optional condition
func Count(t testing.TB, db *gorm.DB, table string, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Table(table)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
