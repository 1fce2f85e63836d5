package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/repario/server/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Profile{},
		&models.Customer{},
		&models.Item{},
		&models.Layout{},
		&models.LayoutSection{},
		&models.LayoutField{},
		&models.FieldOption{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.StatusSetting{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// createTestUser inserts a profile and returns its id
func createTestUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	profile := models.Profile{
		Email:    uuid.New().String() + "@example.com",
		Role:     "user",
		IsActive: true,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return profile.ID
}
