// Package postgres implements the persistence ports on top of gorm.
//
// The repositories only use portable gorm constructs, so tests run them
// against an in-memory sqlite database while production uses PostgreSQL.
package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// Connect opens a PostgreSQL-backed gorm handle and migrates the schema.
// TranslateError is enabled so constraint violations surface as
// gorm.ErrDuplicatedKey, which the repositories map to domain conflicts.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the users and sweets tables, including the
// unique indexes the domain invariants rely on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Sweet{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
