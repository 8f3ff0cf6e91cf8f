package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"invoicing-backend/models"
	"invoicing-backend/reports"
	"invoicing-backend/utils"
)

const firstAccountNumber = 1001

var accountSortFields = map[string]string{
	"name":          "name",
	"code":          "code",
	"cnic":          "cnic",
	"contactNumber": "contact_number",
	"city":          "city",
	"branch":        "branch",
	"type":          "type",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ reports.AccountLookup = (*AccountRepository)(nil)

func (r *AccountRepository) List(ctx context.Context, p utils.ListParams) ([]models.Account, int64, error) {
	p.ResolveSort(accountSortFields, "created_at")
	q := r.db.WithContext(ctx).Model(&models.Account{})
	q = containsAny(q, p.Search, "name", "code", "cnic", "branch", "type")
	if !reports.IsAll(p.Type) {
		q = q.Where("type = ?", p.Type)
	}
	accounts := []models.Account{}
	total, err := paginate(q, p, &accounts)
	return accounts, total, err
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create assigns the next ACC-<n> code and inserts the account.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Account{}).Where("cnic = ?", account.CNIC).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrCNICTaken
		}

		code, err := nextAccountCode(tx)
		if err != nil {
			return err
		}
		account.Code = code
		return tx.Create(account).Error
	})
}

func nextAccountCode(tx *gorm.DB) (string, error) {
	var last models.Account
	err := tx.Select("code").Order("created_at DESC").Order("code DESC").Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("ACC-%d", firstAccountNumber), nil
	}
	if err != nil {
		return "", err
	}
	_, digits, _ := strings.Cut(last.Code, "-")
	n, convErr := strconv.Atoi(digits)
	if convErr != nil {
		return fmt.Sprintf("ACC-%d", firstAccountNumber), nil
	}
	return fmt.Sprintf("ACC-%d", n+1), nil
}

// Update applies a partial column update and returns the fresh row.
func (r *AccountRepository) Update(ctx context.Context, id string, updates map[string]any) (*models.Account, error) {
	db := r.db.WithContext(ctx)
	if cnic, ok := updates["cnic"]; ok {
		var taken int64
		if err := db.Model(&models.Account{}).Where("cnic = ? AND id <> ?", cnic, id).Count(&taken).Error; err != nil {
			return nil, err
		}
		if taken > 0 {
			return nil, ErrCNICTaken
		}
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.Model(&models.Account{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	return notFoundIfNone(r.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id))
}
