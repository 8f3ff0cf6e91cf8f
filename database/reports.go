package database

import (
	"context"

	"gorm.io/gorm"

	"invoicing-backend/models"
	"invoicing-backend/reports"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ reports.ReportStore = (*ReportRepository)(nil)

// Create inserts one report document. Reports are never updated.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Omit("Account").Create(report).Error
}

func (r *ReportRepository) List(ctx context.Context) ([]models.Report, error) {
	var rows []models.Report
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Preload("Account").First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
