// Package testutil provides an in-memory database and fixtures shared by
// package tests.
package testutil

import (
	"rentalChat/internal/models"
	"rentalChat/internal/servers/database"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the chat schema
// migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, id uint, fullName, role string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           id,
		FullName:     fullName,
		Phone:        fullName + "-phone",
		PasswordHash: "x",
		Role:         role,
		Approved:     true,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
	return user
}

func SeedRental(t *testing.T, db *gorm.DB, id, ownerID uint) *models.Rental {
	t.Helper()

	rental := &models.Rental{ID: id, UserID: ownerID, Title: "listing", Status: "available"}
	if err := db.Create(rental).Error; err != nil {
		t.Fatalf("seed rental %d: %v", id, err)
	}
	return rental
}

func UintPtr(v uint) *uint {
	return &v
}
