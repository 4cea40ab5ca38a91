package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// FeeRepoFilter narrows persisted fee queries.
type FeeRepoFilter struct {
	StudentID *uint
	Grade     string
	Subject   string
	Month     int
	Year      int
	Status    string
}

// FeeRepository defines data operations for fee records.
type FeeRepository interface {
	List(ctx context.Context, filter FeeRepoFilter) ([]models.FeeRecord, error)
	GetByID(ctx context.Context, id uint) (models.FeeRecord, error)
	GetByKey(ctx context.Context, key models.FeeKey) (models.FeeRecord, error)
	Create(ctx context.Context, record *models.FeeRecord) error
	Update(ctx context.Context, record *models.FeeRecord) error
}

type feeRepository struct {
	db *gorm.DB
}

// NewFeeRepository instantiates the repository.
func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) List(ctx context.Context, filter FeeRepoFilter) ([]models.FeeRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.FeeRecord{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}

	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}

	if filter.Month > 0 {
		query = query.Where("month = ?", filter.Month)
	}

	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var records []models.FeeRecord
	if err := query.Order("year DESC, month DESC, subject ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *feeRepository) GetByID(ctx context.Context, id uint) (models.FeeRecord, error) {
	var record models.FeeRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return models.FeeRecord{}, err
	}

	return record, nil
}

func (r *feeRepository) GetByKey(ctx context.Context, key models.FeeKey) (models.FeeRecord, error) {
	var record models.FeeRecord
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", key.StudentID).
		Where("subject = ?", key.Subject).
		Where("month = ?", key.Month).
		Where("year = ?", key.Year).
		First(&record).Error; err != nil {
		return models.FeeRecord{}, err
	}

	return record, nil
}

func (r *feeRepository) Create(ctx context.Context, record *models.FeeRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *feeRepository) Update(ctx context.Context, record *models.FeeRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}
