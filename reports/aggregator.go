package reports

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"invoicing-backend/models"
	"invoicing-backend/utils"
)

const unknownAccountName = "N/A"

// InvoiceFinder returns the invoices matching a resolved filter with their
// account loaded.
type InvoiceFinder interface {
	FindForReport(ctx context.Context, filter Filter) ([]models.Invoice, error)
}

// Aggregation is the flat result of one invoice query.
type Aggregation struct {
	Items      []models.ReportLineItem
	TotalSales float64
	TotalItems int
}

// Aggregate queries invoices for filter and projects them to line items in
// store order.
func Aggregate(ctx context.Context, finder InvoiceFinder, filter Filter) (Aggregation, error) {
	invoices, err := finder.FindForReport(ctx, filter)
	if err != nil {
		return Aggregation{}, &AggregationError{Err: pkgerrors.WithStack(err)}
	}

	items := make([]models.ReportLineItem, 0, len(invoices))
	total := decimal.Zero
	for i := range invoices {
		item := ProjectInvoice(&invoices[i])
		total = total.Add(utils.Money(item.Amount))
		items = append(items, item)
	}
	return Aggregation{
		Items:      items,
		TotalSales: utils.ToFloat(total),
		TotalItems: len(items),
	}, nil
}

// ProjectInvoice flattens an invoice into a report line. Amount is the
// invoice's payment total as stored.
func ProjectInvoice(inv *models.Invoice) models.ReportLineItem {
	name := inv.Account.Name
	if name == "" {
		name = unknownAccountName
	}
	return models.ReportLineItem{
		Date:          inv.InvoiceDate,
		InvoiceNumber: inv.InvoiceNumber,
		AccountName:   name,
		Amount:        inv.Payment.Total,
		Status:        inv.Status,
		InvoiceType:   inv.InvoiceType,
	}
}
