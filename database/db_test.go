package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoicing-backend/config"
	"invoicing-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedAccount(t *testing.T, repo *AccountRepository, name, cnic string) *models.Account {
	t.Helper()
	account := &models.Account{
		Name:          name,
		CNIC:          cnic,
		ContactNumber: "0300" + cnic[len(cnic)-7:],
		City:          "Lahore",
		Branch:        "Main",
		Type:          models.AccountTypeCustomer,
	}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func seedInvoice(t *testing.T, repo *InvoiceRepository, accountID, status, kind string, total float64, at time.Time) *models.Invoice {
	t.Helper()
	invoice := &models.Invoice{
		InvoiceDate: at,
		InvoiceType: kind,
		Status:      status,
		AccountID:   accountID,
		Items:       []models.InvoiceItem{{ProductName: "Widget", Quantity: 1, Rate: total, Total: total}},
		Payment:     models.Payment{SubTotal: total, Total: total},
	}
	require.NoError(t, repo.Create(context.Background(), invoice))
	return invoice
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"}, zap.NewNop())
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestAutoMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, AutoMigrate(db))
}
