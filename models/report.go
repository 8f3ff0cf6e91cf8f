package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ReportKindDaily   = "daily"
	ReportKindMonthly = "monthly"
	ReportKindYearly  = "yearly"
)

// Report is a generated sales report. It is written once and never updated.
type Report struct {
	ID             string                              `json:"id" gorm:"primaryKey"`
	ReportName     string                              `json:"reportName" gorm:"not null"`
	ReportType     string                              `json:"reportType" gorm:"type:varchar(10);not null;index"`
	GeneratedBy    string                              `json:"generatedBy" gorm:"not null;index"`
	FiltersApplied datatypes.JSONType[ReportFilters]   `json:"filtersApplied"`
	AccountID      *string                             `json:"accountId,omitempty" gorm:"index"`
	Account        *Account                            `json:"account,omitempty" gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:SET NULL"`
	TotalInvoices  int                                 `json:"totalInvoices"`
	TotalSales     float64                             `json:"totalSales"`
	ReportData     datatypes.JSONSlice[ReportLineItem] `json:"reportData"`
	Data           datatypes.JSONType[ReportData]      `json:"data"`
	CreatedAt      time.Time                           `json:"createdAt" gorm:"index"`
	UpdatedAt      time.Time                           `json:"updatedAt"`
}

// ReportDateRange is the resolved [StartDate, EndDate] interval of a report.
// Month and Year are echoed from the request for display only.
type ReportDateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Month     string    `json:"month,omitempty"`
	Year      string    `json:"year,omitempty"`
}

// ReportFilters records the filters a report was generated with. Fields that
// were "all" are left empty and omitted.
type ReportFilters struct {
	Account     string          `json:"account,omitempty"`
	DateRange   ReportDateRange `json:"dateRange"`
	InvoiceType string          `json:"invoiceType,omitempty"`
	Status      string          `json:"status,omitempty"`
}

type ReportLineItem struct {
	Date          time.Time `json:"date"`
	InvoiceNumber string    `json:"invoiceNumber"`
	AccountName   string    `json:"accountName"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	InvoiceType   string    `json:"invoiceType"`
}

type ReportSummary struct {
	ByStatus      map[string]float64 `json:"byStatus"`
	ByInvoiceType map[string]float64 `json:"byInvoiceType"`
	ByAccount     map[string]float64 `json:"byAccount"`
}

type ReportData struct {
	TotalSales float64          `json:"totalSales"`
	TotalItems int              `json:"totalItems"`
	Items      []ReportLineItem `json:"items"`
	Summary    ReportSummary    `json:"summary"`
}

func (report *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	return
}
