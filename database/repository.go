package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"invoicing-backend/utils"
)

var (
	ErrCNICTaken  = errors.New("account with this CNIC already exists")
	ErrEmailTaken = errors.New("email already in use")
)

// containsAny adds a case-insensitive substring match over columns.
func containsAny(q *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return q
	}
	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, "LOWER("+col+") LIKE ?")
		args = append(args, pattern)
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// paginate counts the filtered rows, then loads one sorted page into dest
// with the given associations preloaded.
func paginate(q *gorm.DB, p utils.ListParams, dest any, preloads ...string) (int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	page := q.Order(p.OrderClause()).Offset(p.Offset()).Limit(p.Limit)
	for _, assoc := range preloads {
		page = page.Preload(assoc)
	}
	return total, page.Find(dest).Error
}

func notFoundIfNone(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
