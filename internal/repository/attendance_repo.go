package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// AttendanceFilter narrows persisted attendance queries.
type AttendanceFilter struct {
	StudentID *uint
	Grade     string
	Subject   string
	Date      string
	Status    string
}

// AttendanceRepository defines data operations for attendance records.
type AttendanceRepository interface {
	List(ctx context.Context, filter AttendanceFilter) ([]models.AttendanceRecord, error)
	GetByKey(ctx context.Context, studentID uint, date, subject string) (models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]models.AttendanceRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.AttendanceRecord{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}

	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}

	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var records []models.AttendanceRecord
	if err := query.Order("date DESC, subject ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) GetByKey(ctx context.Context, studentID uint, date, subject string) (models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("date = ?", date).
		Where("subject = ?", subject).
		First(&record).Error; err != nil {
		return models.AttendanceRecord{}, err
	}

	return record, nil
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
