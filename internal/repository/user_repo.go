package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// StudentFilter narrows enrolment lookups used by the attendance and fee views.
type StudentFilter struct {
	Grade   string
	Subject string
}

// UserRepository defines persistence operations for accounts and profiles.
type UserRepository interface {
	List(ctx context.Context, role string) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	ListStudents(ctx context.Context, filter StudentFilter) ([]models.User, error)
	ListTeachers(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Preload("StudentProfile").
		Preload("TeacherProfile")
}

func (r *userRepository) List(ctx context.Context, role string) ([]models.User, error) {
	query := r.baseQuery(ctx)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.baseQuery(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) ListStudents(ctx context.Context, filter StudentFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN student_profiles ON student_profiles.user_id = users.id").
		Where("users.role = ?", models.RoleStudent).
		Preload("StudentProfile")

	if filter.Grade != "" {
		query = query.Where("student_profiles.grade = ?", filter.Grade)
	}

	if filter.Subject != "" {
		// Subjects are stored as a comma list on the profile.
		query = query.Where("(',' || REPLACE(student_profiles.subjects, ', ', ',') || ',') LIKE ?", "%,"+filter.Subject+",%")
	}

	var users []models.User
	if err := query.Order("student_profiles.full_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) ListTeachers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.baseQuery(ctx).
		Where("role = ?", models.RoleTeacher).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
