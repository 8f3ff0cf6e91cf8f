package reports

import (
	"strings"
	"time"

	"invoicing-backend/models"
)

// Kind is the granularity of a sales report.
type Kind string

const (
	KindDaily   Kind = models.ReportKindDaily
	KindMonthly Kind = models.ReportKindMonthly
	KindYearly  Kind = models.ReportKindYearly
)

// ParseKind accepts daily, monthly or yearly in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDaily, KindMonthly, KindYearly:
		return k, nil
	case "":
		return "", &ValidationError{Field: "reportType", Message: "reportType is required"}
	default:
		return "", &ValidationError{Field: "reportType", Message: "reportType must be one of daily, monthly, yearly"}
	}
}

// Label is the default report name ("Monthly").
func (k Kind) Label() string {
	if k == "" {
		return ""
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

// DateSelector is the coarse date input of a report request. StartDate and
// EndDate win when both are set; otherwise Month and Year are interpreted
// according to the report kind.
type DateSelector struct {
	StartDate string
	EndDate   string
	Month     string
	Year      string
}

// Request is a validated report generation request.
type Request struct {
	Kind        Kind
	ReportName  string
	Account     string
	InvoiceType string
	Status      string
	DateRange   DateSelector
	GeneratedBy string
}

// Filter is the resolved invoice predicate. Empty string fields carry no
// constraint.
type Filter struct {
	Start       time.Time
	End         time.Time
	AccountID   string
	InvoiceType string
	Status      string
}

// IsAll reports whether a filter value means "no constraint".
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

func normalizeFilterValue(v string) string {
	if IsAll(v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// Result is what a successful generation hands back to the caller.
type Result struct {
	ReportID string
	Report   *models.Report
}

// ListedFilters is filtersApplied as shown in the report list, with the
// "all" constraints spelled out.
type ListedFilters struct {
	Account     string                 `json:"account"`
	DateRange   models.ReportDateRange `json:"dateRange"`
	InvoiceType string                 `json:"invoiceType"`
	Status      string                 `json:"status"`
}

// ListedReport is one row of the report list.
type ListedReport struct {
	ID             string                  `json:"id"`
	ReportType     string                  `json:"reportType"`
	ReportName     string                  `json:"reportName"`
	CreatedAt      time.Time               `json:"createdAt"`
	FiltersApplied ListedFilters           `json:"filtersApplied"`
	TotalInvoices  int                     `json:"totalInvoices"`
	TotalSales     float64                 `json:"totalSales"`
	ReportData     []models.ReportLineItem `json:"reportData"`
}
