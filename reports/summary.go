package reports

import (
	"github.com/shopspring/decimal"

	"invoicing-backend/models"
	"invoicing-backend/utils"
)

// Summarize groups line amounts by status, invoice type and account name.
// Only observed keys appear; an empty input yields empty maps.
func Summarize(items []models.ReportLineItem) models.ReportSummary {
	byStatus := map[string]decimal.Decimal{}
	byType := map[string]decimal.Decimal{}
	byAccount := map[string]decimal.Decimal{}

	for _, item := range items {
		amount := utils.Money(item.Amount)
		byStatus[item.Status] = byStatus[item.Status].Add(amount)
		byType[item.InvoiceType] = byType[item.InvoiceType].Add(amount)
		byAccount[item.AccountName] = byAccount[item.AccountName].Add(amount)
	}

	return models.ReportSummary{
		ByStatus:      toFloats(byStatus),
		ByInvoiceType: toFloats(byType),
		ByAccount:     toFloats(byAccount),
	}
}

func toFloats(in map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = utils.ToFloat(v)
	}
	return out
}

// AppliedFilters records the filters for the report document, leaving out
// every constraint that was "all".
func AppliedFilters(req Request, dr models.ReportDateRange) models.ReportFilters {
	return models.ReportFilters{
		Account:     normalizeFilterValue(req.Account),
		DateRange:   dr,
		InvoiceType: normalizeFilterValue(req.InvoiceType),
		Status:      normalizeFilterValue(req.Status),
	}
}

// FormatForList backfills the display defaults of the report list on a copy
// of report.
func FormatForList(report models.Report) ListedReport {
	filters := report.FiltersApplied.Data()
	data := report.Data.Data()

	applied := ListedFilters{
		Account:     orDefault(filters.Account, "All Accounts"),
		DateRange:   filters.DateRange,
		InvoiceType: orDefault(filters.InvoiceType, "All"),
		Status:      orDefault(filters.Status, "All"),
	}
	if applied.DateRange.StartDate.IsZero() && applied.DateRange.EndDate.IsZero() {
		applied.DateRange.StartDate = report.CreatedAt
		applied.DateRange.EndDate = report.CreatedAt
	}

	totalInvoices := report.TotalInvoices
	if totalInvoices == 0 {
		totalInvoices = data.TotalItems
	}
	totalSales := report.TotalSales
	if totalSales == 0 {
		totalSales = data.TotalSales
	}

	lines := []models.ReportLineItem(report.ReportData)
	if lines == nil {
		lines = []models.ReportLineItem{}
	}

	return ListedReport{
		ID:             report.ID,
		ReportType:     report.ReportType,
		ReportName:     report.ReportName,
		CreatedAt:      report.CreatedAt,
		FiltersApplied: applied,
		TotalInvoices:  totalInvoices,
		TotalSales:     totalSales,
		ReportData:     lines,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
