package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"invoicing-backend/models"
)

// memStore applies Filter the way the SQL repository does.
type memStore struct {
	invoices  []models.Invoice
	reports   []models.Report
	accounts  map[string]bool
	findErr   error
	createErr error
	seq       int
}

func (m *memStore) FindForReport(_ context.Context, f Filter) ([]models.Invoice, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []models.Invoice
	for _, inv := range m.invoices {
		if inv.InvoiceDate.Before(f.Start) || inv.InvoiceDate.After(f.End) {
			continue
		}
		if f.AccountID != "" && inv.AccountID != f.AccountID {
			continue
		}
		if f.InvoiceType != "" && inv.InvoiceType != f.InvoiceType {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (m *memStore) Create(_ context.Context, r *models.Report) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	r.ID = fmt.Sprintf("r-%d", m.seq)
	m.reports = append(m.reports, *r)
	return nil
}

func (m *memStore) List(context.Context) ([]models.Report, error) {
	out := append([]models.Report(nil), m.reports...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*models.Report, error) {
	for i := range m.reports {
		if m.reports[i].ID == id {
			return &m.reports[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) Exists(_ context.Context, id string) (bool, error) {
	return m.accounts[id], nil
}

func invoice(number, account, status, kind string, total float64, at time.Time) models.Invoice {
	return models.Invoice{
		InvoiceNumber: number,
		InvoiceDate:   at,
		InvoiceType:   kind,
		Status:        status,
		AccountID:     account,
		Account:       models.Account{ID: account, Name: "Name " + account},
		Payment:       models.Payment{Total: total},
	}
}

func marchStore() *memStore {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 10, 0, 0, 0, time.UTC) }
	return &memStore{
		accounts: map[string]bool{"a1": true, "a2": true},
		invoices: []models.Invoice{
			invoice("INV-1", "a1", "paid", "tax", 100, day(1)),
			invoice("INV-2", "a2", "paid", "simple", 250, day(15)),
			invoice("INV-3", "a1", "paid", "tax", 150, day(31)),
			invoice("INV-4", "a2", "pending", "simple", 500, day(20)),
			invoice("INV-5", "a1", "paid", "tax", 999, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func newTestService(store *memStore) *Service {
	svc := NewService(store, store, store, nil)
	svc.now = func() time.Time { return time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC) }
	return svc
}

func marchRequest() Request {
	return Request{
		Kind:        KindMonthly,
		Account:     "all",
		InvoiceType: "all",
		Status:      "paid",
		DateRange:   DateSelector{Month: "march", Year: "2024"},
		GeneratedBy: "u1",
	}
}

func TestGenerateMarchExample(t *testing.T) {
	store := marchStore()
	res, err := newTestService(store).Generate(context.Background(), marchRequest())
	require.NoError(t, err)

	require.Len(t, store.reports, 1)
	assert.Equal(t, res.ReportID, store.reports[0].ID)

	r := res.Report
	data := r.Data.Data()
	assert.Equal(t, "Monthly", r.ReportName)
	assert.Equal(t, "monthly", r.ReportType)
	assert.Equal(t, "u1", r.GeneratedBy)
	assert.Equal(t, 500.0, r.TotalSales)
	assert.Equal(t, 3, r.TotalInvoices)
	assert.Equal(t, 500.0, data.TotalSales)
	assert.Equal(t, 3, data.TotalItems)
	assert.Len(t, r.ReportData, 3)
	assert.Equal(t, map[string]float64{"paid": 500}, data.Summary.ByStatus)
	assert.Equal(t, map[string]float64{"tax": 250, "simple": 250}, data.Summary.ByInvoiceType)
	assert.Equal(t, map[string]float64{"Name a1": 250, "Name a2": 250}, data.Summary.ByAccount)
	assert.Nil(t, r.AccountID)

	filters := r.FiltersApplied.Data()
	assert.Equal(t, "paid", filters.Status)
	assert.Empty(t, filters.Account)
	assert.Empty(t, filters.InvoiceType)
	assert.Equal(t, "march", filters.DateRange.Month)

	raw, err := json.Marshal(filters)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"account"`)
	assert.NotContains(t, string(raw), `"all"`)
}

func TestGenerateEmptyResult(t *testing.T) {
	store := marchStore()
	req := marchRequest()
	req.DateRange = DateSelector{Year: "2019"}
	req.Kind = KindYearly
	req.ReportName = "  FY19  "

	res, err := newTestService(store).Generate(context.Background(), req)
	require.NoError(t, err)
	data := res.Report.Data.Data()
	assert.Equal(t, "FY19", res.Report.ReportName)
	assert.Zero(t, data.TotalSales)
	assert.Zero(t, data.TotalItems)
	assert.NotNil(t, data.Items)
	assert.Empty(t, data.Items)
	assert.NotNil(t, data.Summary.ByStatus)
	assert.Empty(t, data.Summary.ByStatus)
	assert.Empty(t, data.Summary.ByInvoiceType)
	assert.Empty(t, data.Summary.ByAccount)
}

func TestGenerateTwiceWritesTwoReports(t *testing.T) {
	store := marchStore()
	svc := newTestService(store)
	first, err := svc.Generate(context.Background(), marchRequest())
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), marchRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.ReportID, second.ReportID)
	assert.Len(t, store.reports, 2)
	assert.Equal(t, first.Report.TotalSales, second.Report.TotalSales)
}

func TestGenerateLinksKnownAccount(t *testing.T) {
	store := marchStore()
	svc := newTestService(store)

	req := marchRequest()
	req.Account = "a2"
	res, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.Report.AccountID)
	assert.Equal(t, "a2", *res.Report.AccountID)
	assert.Equal(t, "a2", res.Report.FiltersApplied.Data().Account)
	assert.Equal(t, 250.0, res.Report.TotalSales)

	req.Account = "ghost"
	res, err = svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, res.Report.AccountID)
	assert.Equal(t, "ghost", res.Report.FiltersApplied.Data().Account)
	assert.Zero(t, res.Report.TotalInvoices)
}

func TestGenerateMissingAccountName(t *testing.T) {
	store := marchStore()
	store.invoices[0].Account = models.Account{}
	req := marchRequest()
	req.Status = "all"

	res, err := newTestService(store).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Report.Data.Data().Summary.ByAccount["N/A"])
}

func TestGenerateErrors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		store := marchStore()
		req := marchRequest()
		req.DateRange.Year = ""
		_, err := newTestService(store).Generate(context.Background(), req)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "year", ve.Field)
		assert.Empty(t, store.reports)
	})

	t.Run("aggregation", func(t *testing.T) {
		store := marchStore()
		store.findErr = errors.New("connection refused")
		_, err := newTestService(store).Generate(context.Background(), marchRequest())
		var ae *AggregationError
		require.ErrorAs(t, err, &ae)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Empty(t, store.reports)
	})

	t.Run("persistence", func(t *testing.T) {
		store := marchStore()
		store.createErr = errors.New("disk full")
		res, err := newTestService(store).Generate(context.Background(), marchRequest())
		assert.Nil(t, res)
		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "disk full", pe.Error())
		assert.Contains(t, StackTrace(err), "reports.(*Service).Generate")
	})
}

func TestStackTraceWithoutStack(t *testing.T) {
	assert.Empty(t, StackTrace(errors.New("plain")))
}

func TestListAndGet(t *testing.T) {
	store := marchStore()
	svc := newTestService(store)
	_, err := svc.Generate(context.Background(), marchRequest())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC) }
	latest, err := svc.Generate(context.Background(), marchRequest())
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, latest.ReportID, list[0].ID)
	assert.Equal(t, "All Accounts", list[0].FiltersApplied.Account)
	assert.Equal(t, "All", list[0].FiltersApplied.InvoiceType)
	assert.Equal(t, "paid", list[0].FiltersApplied.Status)
	assert.Equal(t, 3, list[0].TotalInvoices)

	got, err := svc.Get(context.Background(), latest.ReportID)
	require.NoError(t, err)
	assert.Equal(t, latest.ReportID, got.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormatForListBackfills(t *testing.T) {
	created := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	legacy := models.Report{
		ID:         "old",
		ReportType: "yearly",
		CreatedAt:  created,
		Data:       datatypes.NewJSONType(models.ReportData{TotalItems: 7, TotalSales: 70}),
	}
	got := FormatForList(legacy)
	assert.Equal(t, "All Accounts", got.FiltersApplied.Account)
	assert.Equal(t, "All", got.FiltersApplied.Status)
	assert.Equal(t, created, got.FiltersApplied.DateRange.StartDate)
	assert.Equal(t, created, got.FiltersApplied.DateRange.EndDate)
	assert.Equal(t, 7, got.TotalInvoices)
	assert.Equal(t, 70.0, got.TotalSales)
	assert.NotNil(t, got.ReportData)
}
