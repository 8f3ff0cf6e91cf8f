package reports

import (
	"strconv"
	"strings"
	"time"

	"invoicing-backend/models"
)

var monthNames = map[string]time.Month{}

func init() {
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		monthNames[name] = m
		monthNames[name[:3]] = m
	}
}

// ResolveDateRange turns the request's date selector into a concrete
// interval. It is a pure function of req.
func ResolveDateRange(req Request) (models.ReportDateRange, error) {
	sel := req.DateRange
	out := models.ReportDateRange{Month: sel.Month, Year: sel.Year}

	if sel.StartDate != "" && sel.EndDate != "" {
		start, err := parseInstant("startDate", sel.StartDate)
		if err != nil {
			return out, err
		}
		end, err := parseInstant("endDate", sel.EndDate)
		if err != nil {
			return out, err
		}
		if start.After(end) {
			return out, &ValidationError{Field: "dateRange", Message: "startDate must not be after endDate"}
		}
		out.StartDate, out.EndDate = start, end
		return out, nil
	}

	switch req.Kind {
	case KindYearly:
		year, err := parseYear(sel.Year)
		if err != nil {
			return out, err
		}
		out.StartDate = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		out.EndDate = endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
	case KindMonthly:
		if strings.TrimSpace(sel.Month) == "" {
			return out, &ValidationError{Field: "month", Message: "month required"}
		}
		month, err := parseMonth(sel.Month)
		if err != nil {
			return out, err
		}
		year, err := parseYear(sel.Year)
		if err != nil {
			return out, err
		}
		out.StartDate = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Day 0 of the following month is the last day of this one.
		out.EndDate = endOfDay(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
	case KindDaily:
		if strings.TrimSpace(sel.Month) == "" {
			return out, &ValidationError{Field: "month", Message: "date required"}
		}
		day, err := parseDay(sel.Month, sel.Year)
		if err != nil {
			return out, err
		}
		// Start and end are the same instant; see DESIGN.md.
		out.StartDate, out.EndDate = day, day
	default:
		return out, &ValidationError{Field: "reportType", Message: "reportType must be one of daily, monthly, yearly"}
	}
	return out, nil
}

// BuildFilter resolves the date range and drops every "all" constraint.
func BuildFilter(req Request) (Filter, models.ReportDateRange, error) {
	dr, err := ResolveDateRange(req)
	if err != nil {
		return Filter{}, dr, err
	}
	return Filter{
		Start:       dr.StartDate,
		End:         dr.EndDate,
		AccountID:   normalizeFilterValue(req.Account),
		InvoiceType: normalizeFilterValue(req.InvoiceType),
		Status:      normalizeFilterValue(req.Status),
	}, dr, nil
}

func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}

func parseInstant(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, &ValidationError{Field: field, Message: field + " must be a date (YYYY-MM-DD) or RFC3339 timestamp"}
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "year", Message: "year required"}
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 || year > 9999 {
		return 0, &ValidationError{Field: "year", Message: "year must be a four digit number"}
	}
	return year, nil
}

func parseMonth(s string) (time.Month, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), nil
		}
	} else if m, ok := monthNames[s]; ok {
		return m, nil
	}
	return 0, &ValidationError{Field: "month", Message: "month must be 1-12 or a month name"}
}

// parseDay reads the daily token: "MM-DD" combined with year, or a full
// "YYYY-MM-DD" date on its own.
func parseDay(token, year string) (time.Time, error) {
	token = strings.TrimSpace(token)
	if t, err := time.Parse(time.DateOnly, token); err == nil {
		return t, nil
	}
	y, err := parseYear(year)
	if err != nil {
		return time.Time{}, err
	}
	parts := strings.Split(token, "-")
	if len(parts) == 2 {
		m, merr := strconv.Atoi(parts[0])
		d, derr := strconv.Atoi(parts[1])
		if merr == nil && derr == nil && m >= 1 && m <= 12 && d >= 1 {
			t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
			if t.Day() == d {
				return t, nil
			}
		}
	}
	return time.Time{}, &ValidationError{Field: "month", Message: "date must be MM-DD or YYYY-MM-DD"}
}
