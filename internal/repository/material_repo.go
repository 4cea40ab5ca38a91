package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// MaterialFilter scopes material listings by audience.
type MaterialFilter struct {
	Grade      string
	Subjects   []string
	UploadedBy *uint
}

// MaterialRepository defines data operations for study materials.
type MaterialRepository interface {
	List(ctx context.Context, filter MaterialFilter) ([]models.Material, error)
	GetByID(ctx context.Context, id uint) (models.Material, error)
	Create(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id uint) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository instantiates the repository.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) List(ctx context.Context, filter MaterialFilter) ([]models.Material, error) {
	query := r.db.WithContext(ctx).Model(&models.Material{})

	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}

	if len(filter.Subjects) > 0 {
		query = query.Where("subject IN ?", filter.Subjects)
	}

	if filter.UploadedBy != nil {
		query = query.Where("uploaded_by = ?", *filter.UploadedBy)
	}

	var materials []models.Material
	if err := query.Order("created_at DESC").Find(&materials).Error; err != nil {
		return nil, err
	}

	return materials, nil
}

func (r *materialRepository) GetByID(ctx context.Context, id uint) (models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).First(&material, id).Error; err != nil {
		return models.Material{}, err
	}

	return material, nil
}

func (r *materialRepository) Create(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Material{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
