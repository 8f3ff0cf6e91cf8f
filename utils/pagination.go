package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams are the shared query parameters of every paginated list.
type ListParams struct {
	Page          int
	Limit         int
	Search        string
	Type          string
	SortField     string
	SortDirection string
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause renders the sort for gorm's Order. SortField must already be
// whitelisted through ResolveSort.
func (p ListParams) OrderClause() string {
	return p.SortField + " " + strings.ToUpper(p.SortDirection)
}

// Pagination is the envelope every list endpoint returns next to its rows.
type Pagination struct {
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	Limit        int   `json:"limit"`
}

func NewPagination(total int64, p ListParams) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Pagination{TotalRecords: total, TotalPages: pages, CurrentPage: p.Page, Limit: p.Limit}
}

// ParseListParams reads page, limit, search, type, sortField and
// sortDirection. Non-numeric or non-positive page/limit are rejected with 400.
func ParseListParams(c *fiber.Ctx) (ListParams, error) {
	p := ListParams{
		Page:          DefaultPage,
		Limit:         DefaultLimit,
		Search:        strings.TrimSpace(c.Query("search")),
		Type:          strings.TrimSpace(c.Query("type")),
		SortField:     strings.TrimSpace(c.Query("sortField")),
		SortDirection: strings.ToLower(strings.TrimSpace(c.Query("sortDirection"))),
	}
	var err error
	if p.Page, err = positiveQuery(c, "page", DefaultPage); err != nil {
		return p, err
	}
	if p.Limit, err = positiveQuery(c, "limit", DefaultLimit); err != nil {
		return p, err
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}

func positiveQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", key))
	}
	return n, nil
}

// ResolveSort maps the requested camelCase sortField onto a whitelisted
// column. Unknown fields fall back to defaultColumn and anything but "asc"
// sorts descending.
func (p *ListParams) ResolveSort(allowed map[string]string, defaultColumn string) {
	column, ok := allowed[p.SortField]
	if !ok {
		column = defaultColumn
	}
	p.SortField = column
	if p.SortDirection != "asc" {
		p.SortDirection = "desc"
	}
}
