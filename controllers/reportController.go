package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"invoicing-backend/logger"
	"invoicing-backend/middlewares"
	"invoicing-backend/reports"
	"invoicing-backend/utils"
)

type ReportController struct {
	service     *reports.Service
	exposeStack bool
	log         *zap.Logger
}

// NewReportController builds the report endpoints. exposeStack adds stack
// traces to 500 responses and must be off in production.
func NewReportController(service *reports.Service, exposeStack bool, log *zap.Logger) *ReportController {
	return &ReportController{service: service, exposeStack: exposeStack, log: log}
}

type reportDateRangeDTO struct {
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Month     utils.FlexString `json:"month"`
	Year      utils.FlexString `json:"year"`
}

type reportFiltersDTO struct {
	Account     string              `json:"account"`
	DateRange   *reportDateRangeDTO `json:"dateRange"`
	InvoiceType string              `json:"invoiceType"`
	Status      string              `json:"status"`
}

type generateReportDTO struct {
	ReportType string            `json:"reportType"`
	ReportName string            `json:"reportName"`
	Filters    *reportFiltersDTO `json:"filters"`
}

// toRequest checks the body and turns it into a pipeline request.
func (dto *generateReportDTO) toRequest(generatedBy string) (reports.Request, error) {
	if strings.TrimSpace(dto.ReportType) == "" || dto.Filters == nil || dto.Filters.DateRange == nil {
		return reports.Request{}, &reports.ValidationError{Field: "body", Message: "Missing required fields"}
	}
	kind, err := reports.ParseKind(dto.ReportType)
	if err != nil {
		return reports.Request{}, err
	}

	f := dto.Filters
	invoiceType := strings.ToLower(strings.TrimSpace(f.InvoiceType))
	status := strings.ToLower(strings.TrimSpace(f.Status))
	if !reports.IsAll(invoiceType) {
		if err := middlewares.ValidateVar(invoiceType, "oneof=tax simple detailed"); err != nil {
			return reports.Request{}, &reports.ValidationError{Field: "invoiceType", Message: "invoiceType must be one of tax, simple, detailed, all"}
		}
	}
	if !reports.IsAll(status) {
		if err := middlewares.ValidateVar(status, "oneof=pending paid cancelled"); err != nil {
			return reports.Request{}, &reports.ValidationError{Field: "status", Message: "status must be one of pending, paid, cancelled, all"}
		}
	}

	return reports.Request{
		Kind:        kind,
		ReportName:  dto.ReportName,
		Account:     f.Account,
		InvoiceType: invoiceType,
		Status:      status,
		DateRange: reports.DateSelector{
			StartDate: strings.TrimSpace(f.DateRange.StartDate),
			EndDate:   strings.TrimSpace(f.DateRange.EndDate),
			Month:     f.DateRange.Month.String(),
			Year:      f.DateRange.Year.String(),
		},
		GeneratedBy: generatedBy,
	}, nil
}

func (rc *ReportController) GenerateReport(c *fiber.Ctx) error {
	var dto generateReportDTO
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	req, err := dto.toRequest(middlewares.UserID(c))
	if err != nil {
		return rc.generateError(c, err)
	}
	result, err := rc.service.Generate(c.UserContext(), req)
	if err != nil {
		return rc.generateError(c, err)
	}

	r := result.Report
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Report generated successfully",
		"reportId": result.ReportID,
		"report": fiber.Map{
			"id":             r.ID,
			"reportType":     r.ReportType,
			"reportName":     r.ReportName,
			"filtersApplied": r.FiltersApplied,
			"totalInvoices":  r.TotalInvoices,
			"totalSales":     r.TotalSales,
			"createdAt":      r.CreatedAt,
			"data":           r.Data,
		},
	})
}

func (rc *ReportController) generateError(c *fiber.Ctx, err error) error {
	var ve *reports.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": ve.Message,
			"field":   ve.Field,
			"error":   "validation failed",
		})
	}

	// The service already logged the failure with its filters.
	rc.log.Debug("report generation failed",
		zap.String("request_id", logger.GetRequestID(c.UserContext())),
		zap.String("user_id", middlewares.UserID(c)),
		zap.Error(err),
	)
	body := fiber.Map{
		"message": "Error generating report",
		"error":   err.Error(),
	}
	if rc.exposeStack {
		if stack := reports.StackTrace(err); stack != "" {
			body["stack"] = stack
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

func (rc *ReportController) GetReports(c *fiber.Ctx) error {
	list, err := rc.service.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	return c.JSON(list)
}

func (rc *ReportController) GetReport(c *fiber.Ctx) error {
	report, err := rc.service.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, reports.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Report not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	return c.JSON(report)
}
