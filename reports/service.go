package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"invoicing-backend/logger"
	"invoicing-backend/models"
)

// ReportStore persists generated reports.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context) ([]models.Report, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
}

// AccountLookup tells whether an account id exists.
type AccountLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service runs the report pipeline: resolve, aggregate, summarize, persist.
type Service struct {
	invoices InvoiceFinder
	reports  ReportStore
	accounts AccountLookup
	log      *zap.Logger
	now      func() time.Time
}

func NewService(invoices InvoiceFinder, reports ReportStore, accounts AccountLookup, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		invoices: invoices,
		reports:  reports,
		accounts: accounts,
		log:      log.Named("reports"),
		now:      time.Now,
	}
}

// Generate builds and stores one report for req. Each call writes a new
// document, identical requests included.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	log := s.requestLogger(ctx).With(
		zap.String("report_type", string(req.Kind)),
		zap.String("generated_by", req.GeneratedBy),
	)

	filter, dateRange, err := BuildFilter(req)
	if err != nil {
		log.Warn("invalid report request", zap.Error(err))
		return nil, err
	}
	log = log.With(
		zap.Time("start", filter.Start),
		zap.Time("end", filter.End),
		zap.String("account", filter.AccountID),
		zap.String("invoice_type", filter.InvoiceType),
		zap.String("status", filter.Status),
	)

	agg, err := Aggregate(ctx, s.invoices, filter)
	if err != nil {
		log.Error("invoice query failed", zap.Error(err))
		return nil, err
	}

	name := strings.TrimSpace(req.ReportName)
	if name == "" {
		name = req.Kind.Label()
	}
	applied := AppliedFilters(req, dateRange)

	report := &models.Report{
		ReportName:     name,
		ReportType:     string(req.Kind),
		GeneratedBy:    req.GeneratedBy,
		FiltersApplied: datatypes.NewJSONType(applied),
		TotalInvoices:  agg.TotalItems,
		TotalSales:     agg.TotalSales,
		ReportData:     datatypes.JSONSlice[models.ReportLineItem](agg.Items),
		Data: datatypes.NewJSONType(models.ReportData{
			TotalSales: agg.TotalSales,
			TotalItems: agg.TotalItems,
			Items:      agg.Items,
			Summary:    Summarize(agg.Items),
		}),
		CreatedAt: s.now().UTC(),
	}
	if err := s.linkAccount(ctx, report, applied.Account, agg.TotalItems); err != nil {
		log.Error("account lookup failed", zap.Error(err))
		return nil, &PersistenceError{Err: pkgerrors.WithStack(err)}
	}

	if err := s.reports.Create(ctx, report); err != nil {
		log.Error("persist report failed", zap.Error(err))
		return nil, &PersistenceError{Err: pkgerrors.WithStack(err)}
	}

	log.Info("report generated",
		zap.String("report_id", report.ID),
		zap.Int("total_invoices", report.TotalInvoices),
		zap.Float64("total_sales", report.TotalSales),
	)
	return &Result{ReportID: report.ID, Report: report}, nil
}

// List returns every report, newest first, formatted for display.
func (s *Service) List(ctx context.Context) ([]ListedReport, error) {
	rows, err := s.reports.List(ctx)
	if err != nil {
		s.requestLogger(ctx).Error("list reports failed", zap.Error(err))
		return nil, pkgerrors.WithStack(err)
	}
	out := make([]ListedReport, 0, len(rows))
	for _, row := range rows {
		out = append(out, FormatForList(row))
	}
	return out, nil
}

// Get returns one report with its account populated.
func (s *Service) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.requestLogger(ctx).Error("load report failed", zap.String("report_id", id), zap.Error(err))
		return nil, pkgerrors.WithStack(err)
	}
	return report, nil
}

// linkAccount sets the account reference when the filtered account exists.
// An unknown id still yields an (empty) report, just without the reference.
func (s *Service) linkAccount(ctx context.Context, report *models.Report, accountID string, matched int) error {
	if accountID == "" {
		return nil
	}
	if matched == 0 && s.accounts != nil {
		ok, err := s.accounts.Exists(ctx, accountID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	report.AccountID = &accountID
	return nil
}

func (s *Service) requestLogger(ctx context.Context) *zap.Logger {
	if id := logger.GetRequestID(ctx); id != "" {
		return s.log.With(zap.String("request_id", id))
	}
	return s.log
}
