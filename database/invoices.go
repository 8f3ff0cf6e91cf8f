package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"invoicing-backend/models"
	"invoicing-backend/reports"
	"invoicing-backend/utils"
)

var invoiceSortFields = map[string]string{
	"invoiceNumber": "invoice_number",
	"invoiceDate":   "invoice_date",
	"invoiceType":   "invoice_type",
	"status":        "status",
	"total":         "payment_total",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

var _ reports.InvoiceFinder = (*InvoiceRepository)(nil)

// List pages invoices. Search also matches the account name; p.Type narrows
// to one status.
func (r *InvoiceRepository) List(ctx context.Context, p utils.ListParams) ([]models.Invoice, int64, error) {
	p.ResolveSort(invoiceSortFields, "created_at")
	q := r.db.WithContext(ctx).Model(&models.Invoice{})
	if search := strings.TrimSpace(p.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"(LOWER(invoice_number) LIKE ? OR LOWER(status) LIKE ? OR LOWER(invoice_type) LIKE ? OR account_id IN (SELECT id FROM accounts WHERE LOWER(name) LIKE ?))",
			pattern, pattern, pattern, pattern,
		)
	}
	if !reports.IsAll(p.Type) {
		q = q.Where("status = ?", p.Type)
	}
	invoices := []models.Invoice{}
	total, err := paginate(q, p, &invoices, "Account")
	return invoices, total, err
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Create inserts the invoice with its items. A missing number is assigned as
// INV-YYMM-NNNN, sequential within the invoice's month.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if invoice.InvoiceNumber == "" {
			number, err := nextInvoiceNumber(tx, invoice.InvoiceDate)
			if err != nil {
				return err
			}
			invoice.InvoiceNumber = number
		}
		return tx.Omit("Account").Create(invoice).Error
	})
}

func nextInvoiceNumber(tx *gorm.DB, at time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", at.UTC().Format("0601"))
	var last models.Invoice
	err := tx.Select("invoice_number").
		Where("invoice_number LIKE ?", prefix+"%").
		// Numbers past 9999 grow a digit, so compare by length first.
		Order("LENGTH(invoice_number) DESC").
		Order("invoice_number DESC").
		Take(&last).Error
	next := 1
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return "", err
	default:
		if n, convErr := strconv.Atoi(strings.TrimPrefix(last.InvoiceNumber, prefix)); convErr == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Invoice, error) {
	res := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("id = ?", id).Update("status", status)
	if err := notFoundIfNone(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return notFoundIfNone(tx.Delete(&models.Invoice{}, "id = ?", id))
	})
}

// FindForReport returns the invoices dated within [Start, End] that match the
// filter's exact constraints, in insertion order, with accounts loaded.
func (r *InvoiceRepository) FindForReport(ctx context.Context, f reports.Filter) ([]models.Invoice, error) {
	q := r.db.WithContext(ctx).
		Preload("Account").
		Where("invoice_date >= ? AND invoice_date <= ?", f.Start, f.End)
	if f.AccountID != "" {
		q = q.Where("account_id = ?", f.AccountID)
	}
	if f.InvoiceType != "" {
		q = q.Where("invoice_type = ?", f.InvoiceType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var invoices []models.Invoice
	if err := q.Order("created_at ASC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
