package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

var (
	// ErrMaterialNotFound indicates the requested material does not exist.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrNotMaterialOwner indicates a teacher tried to delete someone else's material.
	ErrNotMaterialOwner = errors.New("only the uploading teacher may delete this material")
)

// MaterialService shares study resources with grade/subject groups. Students
// see materials for their enrolment; teachers manage their own uploads.
type MaterialService interface {
	ListForUser(ctx context.Context, userID uint, role string) ([]dto.MaterialResponse, error)
	Create(ctx context.Context, teacherID uint, payload dto.MaterialCreateRequest) (dto.MaterialResponse, error)
	Delete(ctx context.Context, id, userID uint, role string) error
}

type materialService struct {
	materials repository.MaterialRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMaterialService constructs the material service.
func NewMaterialService(materials repository.MaterialRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) MaterialService {
	return &materialService{
		materials: materials,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "material_service").Logger(),
	}
}

func (s *materialService) ListForUser(ctx context.Context, userID uint, role string) ([]dto.MaterialResponse, error) {
	var filter repository.MaterialFilter

	switch role {
	case models.RoleStudent:
		student, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if student.StudentProfile == nil {
			return nil, ErrUserNotFound
		}
		filter.Grade = student.StudentProfile.Grade
		filter.Subjects = student.StudentProfile.SubjectList()
	case models.RoleTeacher:
		filter.UploadedBy = &userID
	}

	materials, err := s.materials.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	teacherNames := s.teacherNames(ctx, materials)

	responses := make([]dto.MaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, dto.NewMaterialResponse(material, teacherNames[material.UploadedBy]))
	}

	return responses, nil
}

func (s *materialService) Create(ctx context.Context, teacherID uint, payload dto.MaterialCreateRequest) (dto.MaterialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	material := models.Material{
		LessonName: payload.LessonName,
		Subject:    payload.Subject,
		Grade:      payload.Grade,
		FileURL:    payload.FileURL,
		UploadedBy: teacherID,
	}

	if err := s.materials.Create(ctx, &material); err != nil {
		return dto.MaterialResponse{}, err
	}

	s.logger.Info().
		Uint("material_id", material.ID).
		Str("subject", material.Subject).
		Str("grade", material.Grade).
		Msg("material shared")

	name := ""
	if teacher, err := s.users.GetByID(ctx, teacherID); err == nil && teacher.TeacherProfile != nil {
		name = teacher.TeacherProfile.FullName
	}

	return dto.NewMaterialResponse(material, name), nil
}

func (s *materialService) Delete(ctx context.Context, id, userID uint, role string) error {
	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	if role != models.RoleAdmin && material.UploadedBy != userID {
		return ErrNotMaterialOwner
	}

	if err := s.materials.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	s.logger.Info().Uint("material_id", id).Msg("material deleted")

	return nil
}

func (s *materialService) teacherNames(ctx context.Context, materials []models.Material) map[uint]string {
	names := make(map[uint]string)
	for _, material := range materials {
		if _, seen := names[material.UploadedBy]; seen {
			continue
		}
		name := ""
		if teacher, err := s.users.GetByID(ctx, material.UploadedBy); err == nil && teacher.TeacherProfile != nil {
			name = teacher.TeacherProfile.FullName
		}
		names[material.UploadedBy] = name
	}

	return names
}
