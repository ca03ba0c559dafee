package infra

import (
	"fmt"

	"otica/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all tables and then applies the SQL patches GORM cannot express.
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

// RunMigrations is also called directly by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.StaffMember{},
		&model.Store{},
		&model.Customer{},
		&model.ProductFrame{},
		&model.ProductLens{},
		&model.InventoryLevel{},
		&model.LensStock{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderCounter{},
		&model.Sale{},
		&model.Receivable{},
		&model.CashSession{},
		&model.CashMovement{},
		&model.StockMovement{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce:
// partial indexes and check constraints backing the ledger invariants.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One OPEN session per seller, enforced at the database level.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_one_open_session_per_staff') THEN
		    CREATE UNIQUE INDEX idx_one_open_session_per_staff
		        ON cash_sessions (organization_id, staff_id)
		        WHERE status = 'OPEN';
		  END IF;
		END $$`,
		// Reservation ledger invariant: 0 <= reserved <= quantity.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventory_reserved_bounds') THEN
		    ALTER TABLE inventory_levels
		      ADD CONSTRAINT chk_inventory_reserved_bounds
		      CHECK (reserved_quantity >= 0 AND reserved_quantity <= quantity);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_lens_reserved_bounds') THEN
		    ALTER TABLE lens_stock_grid
		      ADD CONSTRAINT chk_lens_reserved_bounds
		      CHECK (reserved_quantity >= 0 AND reserved_quantity <= quantity);
		  END IF;
		END $$`,
		// Cash movements carry the sign in the type; amounts stay positive.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cash_movement_positive') THEN
		    ALTER TABLE cash_movements
		      ADD CONSTRAINT chk_cash_movement_positive
		      CHECK (amount > 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
