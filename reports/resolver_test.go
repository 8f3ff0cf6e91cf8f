package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(y int, m time.Month, d, h, min, s, ns int) time.Time {
	return time.Date(y, m, d, h, min, s, ns, time.UTC)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, KindMonthly, k)
	assert.Equal(t, "Monthly", k.Label())

	_, err = ParseKind("weekly")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "reportType", ve.Field)

	_, err = ParseKind("")
	require.ErrorAs(t, err, &ve)
}

func TestResolveDateRange(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "yearly spans the calendar year",
			req:       Request{Kind: KindYearly, DateRange: DateSelector{Year: "2023"}},
			wantStart: utc(2023, time.January, 1, 0, 0, 0, 0),
			wantEnd:   utc(2023, time.December, 31, 23, 59, 59, 999999999),
		},
		{
			name:      "monthly by name",
			req:       Request{Kind: KindMonthly, DateRange: DateSelector{Month: "march", Year: "2024"}},
			wantStart: utc(2024, time.March, 1, 0, 0, 0, 0),
			wantEnd:   utc(2024, time.March, 31, 23, 59, 59, 999999999),
		},
		{
			name:      "monthly december rolls into next year",
			req:       Request{Kind: KindMonthly, DateRange: DateSelector{Month: "12", Year: "2024"}},
			wantStart: utc(2024, time.December, 1, 0, 0, 0, 0),
			wantEnd:   utc(2024, time.December, 31, 23, 59, 59, 999999999),
		},
		{
			name:      "monthly february of a leap year",
			req:       Request{Kind: KindMonthly, DateRange: DateSelector{Month: "Feb", Year: "2024"}},
			wantStart: utc(2024, time.February, 1, 0, 0, 0, 0),
			wantEnd:   utc(2024, time.February, 29, 23, 59, 59, 999999999),
		},
		{
			name:      "monthly february of a common year",
			req:       Request{Kind: KindMonthly, DateRange: DateSelector{Month: "02", Year: "2023"}},
			wantStart: utc(2023, time.February, 1, 0, 0, 0, 0),
			wantEnd:   utc(2023, time.February, 28, 23, 59, 59, 999999999),
		},
		{
			name:      "daily keeps start and end equal",
			req:       Request{Kind: KindDaily, DateRange: DateSelector{Month: "03-15", Year: "2024"}},
			wantStart: utc(2024, time.March, 15, 0, 0, 0, 0),
			wantEnd:   utc(2024, time.March, 15, 0, 0, 0, 0),
		},
		{
			name:      "daily accepts a full date",
			req:       Request{Kind: KindDaily, DateRange: DateSelector{Month: "2024-03-15"}},
			wantStart: utc(2024, time.March, 15, 0, 0, 0, 0),
			wantEnd:   utc(2024, time.March, 15, 0, 0, 0, 0),
		},
		{
			name: "explicit range wins over month and year",
			req: Request{Kind: KindYearly, DateRange: DateSelector{
				StartDate: "2024-01-10", EndDate: "2024-02-01T12:00:00+02:00", Year: "1999",
			}},
			wantStart: utc(2024, time.January, 10, 0, 0, 0, 0),
			wantEnd:   utc(2024, time.February, 1, 10, 0, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr, err := ResolveDateRange(tt.req)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(dr.StartDate), "start = %v", dr.StartDate)
			assert.True(t, tt.wantEnd.Equal(dr.EndDate), "end = %v", dr.EndDate)
			assert.False(t, dr.StartDate.After(dr.EndDate))
			assert.Equal(t, tt.req.DateRange.Month, dr.Month)
			assert.Equal(t, tt.req.DateRange.Year, dr.Year)
		})
	}
}

func TestMonthlyEndIsLastDayForEveryMonth(t *testing.T) {
	for m := 1; m <= 12; m++ {
		req := Request{Kind: KindMonthly, DateRange: DateSelector{Month: time.Month(m).String(), Year: "2025"}}
		dr, err := ResolveDateRange(req)
		require.NoError(t, err)
		next := dr.EndDate.Add(time.Nanosecond)
		assert.Equal(t, 1, next.Day(), "month %d", m)
		assert.Equal(t, time.Month(m%12+1), next.Month(), "month %d", m)
		assert.Equal(t, time.Month(m), dr.StartDate.Month())
	}
}

func TestResolveDateRangeErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"yearly without year", Request{Kind: KindYearly}, "year"},
		{"monthly without month", Request{Kind: KindMonthly, DateRange: DateSelector{Year: "2024"}}, "month"},
		{"monthly without year", Request{Kind: KindMonthly, DateRange: DateSelector{Month: "3"}}, "year"},
		{"monthly bad month", Request{Kind: KindMonthly, DateRange: DateSelector{Month: "13", Year: "2024"}}, "month"},
		{"daily without date", Request{Kind: KindDaily, DateRange: DateSelector{Year: "2024"}}, "month"},
		{"daily impossible date", Request{Kind: KindDaily, DateRange: DateSelector{Month: "02-30", Year: "2024"}}, "month"},
		{"bad year", Request{Kind: KindYearly, DateRange: DateSelector{Year: "twenty"}}, "year"},
		{"start after end", Request{Kind: KindDaily, DateRange: DateSelector{StartDate: "2024-05-02", EndDate: "2024-05-01"}}, "dateRange"},
		{"unparseable start", Request{Kind: KindDaily, DateRange: DateSelector{StartDate: "yesterday", EndDate: "2024-05-01"}}, "startDate"},
		{"unknown kind", Request{Kind: "weekly", DateRange: DateSelector{Year: "2024"}}, "reportType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveDateRange(tt.req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.NotEmpty(t, ve.Error())
		})
	}
}

func TestBuildFilterDropsAll(t *testing.T) {
	req := Request{
		Kind:        KindMonthly,
		Account:     " ALL ",
		InvoiceType: "tax",
		Status:      "All",
		DateRange:   DateSelector{Month: "1", Year: "2024"},
	}
	f, dr, err := BuildFilter(req)
	require.NoError(t, err)
	assert.Empty(t, f.AccountID)
	assert.Equal(t, "tax", f.InvoiceType)
	assert.Empty(t, f.Status)
	assert.Equal(t, dr.StartDate, f.Start)
	assert.Equal(t, dr.EndDate, f.End)

	applied := AppliedFilters(req, dr)
	assert.Empty(t, applied.Account)
	assert.Equal(t, "tax", applied.InvoiceType)
	assert.Empty(t, applied.Status)
}

func TestIsAll(t *testing.T) {
	assert.True(t, IsAll(""))
	assert.True(t, IsAll("aLL"))
	assert.False(t, IsAll("paid"))
}
