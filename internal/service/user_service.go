package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

var (
	// ErrUserNotFound indicates the requested account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrProfileMissing indicates the role-specific profile payload was absent.
	ErrProfileMissing = errors.New("profile details are required for the requested role")
)

// UserService manages teacher and student accounts. Authentication itself
// happens upstream; this service owns enrolment data and credential storage.
type UserService interface {
	List(ctx context.Context, role string) ([]dto.UserResponse, error)
	GetByID(ctx context.Context, id uint) (dto.UserResponse, error)
	Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error)
	ListTeacherOptions(ctx context.Context) ([]dto.TeacherOption, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewUserService constructs the account service.
func NewUserService(repo repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
		now:       time.Now,
	}
}

func (s *userService) List(ctx context.Context, role string) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	switch payload.Role {
	case models.RoleStudent:
		if payload.StudentDetails == nil {
			return dto.UserResponse{}, ErrProfileMissing
		}
	case models.RoleTeacher:
		if payload.TeacherDetails == nil {
			return dto.UserResponse{}, ErrProfileMissing
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Role:         payload.Role,
	}

	if payload.Role == models.RoleStudent {
		details := payload.StudentDetails
		user.StudentProfile = &models.StudentProfile{
			FullName:      details.FullName,
			StudentCode:   details.StudentCode,
			ContactNumber: details.ContactNumber,
			Grade:         details.Grade,
			Subjects:      details.Subjects,
			DateOfBirth:   details.DateOfBirth,
			Address:       details.Address,
			Gender:        details.Gender,
			EnrolledAt:    s.now(),
		}
	}

	if payload.Role == models.RoleTeacher {
		details := payload.TeacherDetails
		user.TeacherProfile = &models.TeacherProfile{
			FullName:      details.FullName,
			ContactNumber: details.ContactNumber,
			Subjects:      details.Subjects,
			Qualification: details.Qualification,
		}
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Str("role", user.Role).
		Msg("account created")

	return dto.NewUserResponse(user), nil
}

func (s *userService) ListTeacherOptions(ctx context.Context) ([]dto.TeacherOption, error) {
	teachers, err := s.repo.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]dto.TeacherOption, 0, len(teachers))
	for _, teacher := range teachers {
		option := dto.TeacherOption{TeacherID: teacher.ID}
		if teacher.TeacherProfile != nil {
			option.TeacherName = teacher.TeacherProfile.FullName
		}
		options = append(options, option)
	}

	return options, nil
}
