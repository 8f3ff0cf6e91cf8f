package database

import (
	"context"

	"gorm.io/gorm"

	"invoicing-backend/models"
	"invoicing-backend/reports"
	"invoicing-backend/utils"
)

var productSortFields = map[string]string{
	"name":       "name",
	"gstRate":    "gst_rate",
	"categoryId": "category_id",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List pages products; p.Type narrows to one category id.
func (r *ProductRepository) List(ctx context.Context, p utils.ListParams) ([]models.Product, int64, error) {
	p.ResolveSort(productSortFields, "created_at")
	q := r.db.WithContext(ctx).Model(&models.Product{})
	q = containsAny(q, p.Search, "name", "gst_rate")
	if !reports.IsAll(p.Type) {
		q = q.Where("category_id = ?", p.Type)
	}
	products := []models.Product{}
	total, err := paginate(q, p, &products, "Category")
	return products, total, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Category").First(product, "id = ?", product.ID).Error
}

func (r *ProductRepository) Update(ctx context.Context, id string, updates map[string]any) (*models.Product, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return notFoundIfNone(r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id))
}
