package database

import (
	"context"

	"gorm.io/gorm"

	"invoicing-backend/models"
	"invoicing-backend/utils"
)

var userSortFields = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, p utils.ListParams) ([]models.User, int64, error) {
	p.ResolveSort(userSortFields, "created_at")
	q := r.db.WithContext(ctx).Model(&models.User{})
	q = containsAny(q, p.Search, "first_name", "last_name", "email")
	users := []models.User{}
	total, err := paginate(q, p, &users)
	return users, total, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrEmailTaken
		}
		return tx.Create(user).Error
	})
}

func (r *UserRepository) Update(ctx context.Context, id string, updates map[string]any) (*models.User, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return notFoundIfNone(r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id))
}
