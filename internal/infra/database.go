package infra

import (
	"fmt"

	"agrocrm/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for the DDL
// GORM cannot express (partial unique indexes).
//
// TranslateError is on so driver-level unique violations surface as
// gorm.ErrDuplicatedKey, which the service layer maps to 409.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations auto-migrates the schema and applies patches. Exposed so
// integration tests can bring a fresh database to the same state as the server.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Lead{},
		&model.Property{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
//
// CPF uniqueness is a partial index scoped to live rows: a soft-deleted lead
// must not block re-registering the same CPF, so a plain UNIQUE column would
// be wrong. The statements below are valid on both PostgreSQL and SQLite,
// which keeps repository tests on the same code path as production.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_leads_cpf_live
		     ON leads (cpf) WHERE deleted_at IS NULL`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
