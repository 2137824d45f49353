// Package database persists the catalog and submitted orders with gorm.
package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite driver

	"orderbuilder/internal/models"
)

// Open connects to the database using a gorm dialect name (sqlite3 or
// postgres) and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// A single connection keeps :memory: databases shared and serialises writers.
		db.DB().SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables for every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.CatalogItem{}, &models.Order{}, &models.OrderItem{}).Error; err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
