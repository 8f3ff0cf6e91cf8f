package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 2.35, Round2(2.345))
	assert.Equal(t, -1.5, Round2(-1.499999))
	assert.Equal(t, 0.3, ToFloat(Money(0.1).Add(Money(0.2))))
}

type createDTO struct {
	Name   string   `json:"name"`
	Email  string   `json:"email" normalize:"lower"`
	Amount float64  `json:"amount"`
	Note   *string  `json:"note"`
	Rate   *float64 `json:"rate"`
	Skip   *string  `json:"skip"`
	Secret string   `json:"secret" normalize:"-"`
	hidden string
}

func TestNormalizeDTO(t *testing.T) {
	note := "  hi  "
	rate := 3.14159
	dto := createDTO{Name: "  Ali ", Email: " A@B.COM ", Amount: 10.126, Note: &note, Rate: &rate, Secret: " pw ", hidden: " x "}
	NormalizeDTO(&dto)

	assert.Equal(t, "Ali", dto.Name)
	assert.Equal(t, "a@b.com", dto.Email)
	assert.Equal(t, 10.13, dto.Amount)
	assert.Equal(t, "hi", *dto.Note)
	assert.Equal(t, 3.14, *dto.Rate)
	assert.Nil(t, dto.Skip)
	assert.Equal(t, " pw ", dto.Secret)
	assert.Equal(t, " x ", dto.hidden)

	assert.NotPanics(t, func() { NormalizeDTO(dto) })
	assert.NotPanics(t, func() { NormalizeDTO((*createDTO)(nil)) })
}

type updateDTO struct {
	Name          *string  `json:"name"`
	ContactNumber *string  `json:"contactNumber"`
	GSTRate       *float64 `json:"gstRate"`
	Category      *string  `json:"categoryId"`
	Ignored       *string  `json:"-"`
	Plain         string   `json:"plain"`
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	name, phone, cat, ign := "n", "0300", "c1", "i"
	gst := 17.0
	dto := updateDTO{Name: &name, ContactNumber: &phone, GSTRate: &gst, Category: &cat, Ignored: &ign, Plain: "p"}

	got := UpdatesFromPtrDTO(&dto, map[string]string{"categoryId": "category_id"})
	assert.Equal(t, map[string]any{
		"name":           "n",
		"contact_number": "0300",
		"gst_rate":       17.0,
		"category_id":    "c1",
	}, got)

	assert.Empty(t, UpdatesFromPtrDTO(&updateDTO{}, nil))
	assert.Empty(t, UpdatesFromPtrDTO(dto, nil))
}

func TestParseListParams(t *testing.T) {
	run := func(query string) (ListParams, error) {
		var (
			params ListParams
			perr   error
		)
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			params, perr = ParseListParams(c)
			return nil
		})
		_, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
		require.NoError(t, err)
		return params, perr
	}

	p, err := run("")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p, err = run("?page=3&limit=500&search=%20abc%20&type=company&sortField=name&sortDirection=ASC")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, "abc", p.Search)
	assert.Equal(t, "company", p.Type)
	assert.Equal(t, 200, p.Offset())

	p.ResolveSort(map[string]string{"name": "name", "createdAt": "created_at"}, "created_at")
	assert.Equal(t, "name ASC", p.OrderClause())

	for _, q := range []string{"?page=0", "?limit=-1", "?page=abc"} {
		_, err = run(q)
		var fe *fiber.Error
		require.ErrorAs(t, err, &fe, q)
		assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	}
}

func TestResolveSortFallsBack(t *testing.T) {
	p := ListParams{SortField: "password; DROP", SortDirection: "sideways"}
	p.ResolveSort(map[string]string{"name": "name"}, "created_at")
	assert.Equal(t, "created_at DESC", p.OrderClause())
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{TotalRecords: 21, TotalPages: 3, CurrentPage: 2, Limit: 10},
		NewPagination(21, ListParams{Page: 2, Limit: 10}))
	assert.Equal(t, 0, NewPagination(0, ListParams{Page: 1, Limit: 10}).TotalPages)
}

func TestFlexString(t *testing.T) {
	var v struct {
		Month FlexString `json:"month"`
		Year  FlexString `json:"year"`
		Day   FlexString `json:"day"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"month":" March ","year":2024,"day":null}`), &v))
	assert.Equal(t, "March", v.Month.String())
	assert.Equal(t, "2024", v.Year.String())
	assert.Empty(t, v.Day)

	assert.Error(t, json.Unmarshal([]byte(`{"month":{}}`), &v))
}
