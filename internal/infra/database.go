package infra

import (
	"fmt"

	"github.com/Kingbhau/gas-inventory-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate for
// all tables, then applies the idempotent SQL patches GORM cannot express
// (sequences and partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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

// RunMigrations creates or updates the schema. Also used by integration tests
// against a throwaway container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.CylinderVariant{},
		&model.Warehouse{},
		&model.WarehouseStock{},
		&model.PaymentMode{},
		&model.BankAccount{},
		&model.BankLedgerEntry{},
		&model.Sale{},
		&model.SaleItem{},
		&model.CylinderTransfer{},
		&model.LedgerEntry{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that AutoMigrate cannot express. Every statement
// is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Reference number sequences. Drawing nextval inside the write
		// transaction keeps references gap-tolerant but collision-free.
		{"sales reference sequence",
			`CREATE SEQUENCE IF NOT EXISTS sales_reference_seq START 1`},
		{"empty return reference sequence",
			`CREATE SEQUENCE IF NOT EXISTS empty_return_ref_seq START 1`},
		{"transfer reference sequence",
			`CREATE SEQUENCE IF NOT EXISTS transfer_reference_seq START 1`},
		// The pending-returns dashboards only ever look at positive balances.
		{"partial index on positive balances", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ledger_positive_balance') THEN
    CREATE INDEX idx_ledger_positive_balance
        ON customer_ledger_entries (customer_id, variant_id)
        WHERE balance > 0;
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
