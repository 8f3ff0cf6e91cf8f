package database

import (
	"fmt"

	"gorm.io/gorm"

	"invoicing-backend/models"
)

// AutoMigrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Composite indexes used by list and report queries
// - CHECK constraints on amounts (postgres only)
func AutoMigrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Account{},
			&models.Category{},
			&models.Product{},
			&models.Invoice{},
			&models.InvoiceItem{},
			&models.Report{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_invoices_report_filter ON invoices (invoice_date, status, invoice_type)`,
			`CREATE INDEX IF NOT EXISTS idx_invoices_account_date ON invoices (account_id, invoice_date)`,
			`CREATE INDEX IF NOT EXISTS idx_reports_created_desc ON reports (created_at DESC)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		if tx.Dialector.Name() != "postgres" {
			return nil
		}

		checks := map[string]string{
			"chk_invoices_payment_total_nonneg": `ALTER TABLE invoices ADD CONSTRAINT chk_invoices_payment_total_nonneg CHECK (payment_total >= 0)`,
			"chk_invoice_items_quantity_pos":    `ALTER TABLE invoice_items ADD CONSTRAINT chk_invoice_items_quantity_pos CHECK (quantity > 0)`,
			"chk_invoice_items_total_nonneg":    `ALTER TABLE invoice_items ADD CONSTRAINT chk_invoice_items_total_nonneg CHECK (total >= 0)`,
		}
		for name, stmt := range checks {
			guarded := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
		%s;
	END IF;
END $$;`, name, stmt)
			if err := tx.Exec(guarded).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", name, err)
			}
		}
		return nil
	})
}
