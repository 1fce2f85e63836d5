// Package database provides database utilities including migrations
package database

import (
	"fmt"
	"log"
	"time"

	"github.com/repario/server/internal/models"
	"gorm.io/gorm"
)

// MigrationRecord tracks which migrations have been applied
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for migrations
func (MigrationRecord) TableName() string {
	return "_repario_migrations"
}

// migration is one named, idempotent schema step
type migration struct {
	name string
	run  func(db *gorm.DB) error
}

var migrations = []migration{
	{
		name: "001_core_tables",
		run: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&models.Profile{},
				&models.Customer{},
				&models.Item{},
			)
		},
	},
	{
		name: "002_layout_tree",
		run: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&models.Layout{},
				&models.LayoutSection{},
				&models.LayoutField{},
				&models.FieldOption{},
			)
		},
	},
	{
		name: "003_invoices",
		run: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&models.Invoice{},
				&models.InvoiceItem{},
			)
		},
	},
	{
		name: "004_status_settings",
		run: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.StatusSetting{})
		},
	},
}

// RunMigrations executes all pending migrations in order
func RunMigrations(db *gorm.DB) error {
	// Ensure migrations table exists
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		// Check if already applied
		var count int64
		db.Model(&MigrationRecord{}).Where("name = ?", m.name).Count(&count)
		if count > 0 {
			continue
		}

		log.Printf("  → Applying migration %s...", m.name)
		if err := m.run(db); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}

		if err := db.Create(&MigrationRecord{Name: m.name}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.name, err)
		}
		log.Printf("  ✓ Migration %s applied", m.name)
	}

	return nil
}
