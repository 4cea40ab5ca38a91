package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

var (
	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrNotAssignmentOwner indicates a teacher tried to edit another teacher's assignment.
	ErrNotAssignmentOwner = errors.New("only the creating teacher may modify this assignment")
)

// AssignmentService manages homework assignments. Listings are scoped to the
// caller: students see assignments for their grade and subjects annotated
// with their own submission state, teachers see what they created.
type AssignmentService interface {
	ListForUser(ctx context.Context, userID uint, role string) ([]dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id, teacherID uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		users:       users,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) ListForUser(ctx context.Context, userID uint, role string) ([]dto.AssignmentResponse, error) {
	switch role {
	case models.RoleStudent:
		return s.listForStudent(ctx, userID)
	case models.RoleTeacher:
		filter := repository.AssignmentFilter{CreatedBy: &userID}
		assignments, err := s.assignments.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return dto.NewAssignmentResponseSlice(assignments, s.now()), nil
	default:
		assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{})
		if err != nil {
			return nil, err
		}
		return dto.NewAssignmentResponseSlice(assignments, s.now()), nil
	}
}

func (s *assignmentService) listForStudent(ctx context.Context, studentID uint) ([]dto.AssignmentResponse, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if student.StudentProfile == nil {
		return nil, ErrUserNotFound
	}

	filter := repository.AssignmentFilter{
		Grade:    student.StudentProfile.Grade,
		Subjects: student.StudentProfile.SubjectList(),
	}
	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	submissionByAssignment := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		submissionByAssignment[submission.AssignmentID] = submission
	}

	reference := s.now()
	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		response := dto.NewAssignmentResponse(assignment, reference)
		if submission, ok := submissionByAssignment[assignment.ID]; ok {
			response.IsSubmitted = true
			response.SubmissionFileURL = submission.FileURL
		}
		responses = append(responses, response)
	}

	return responses, nil
}

func (s *assignmentService) GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:       payload.Title,
		Description: payload.Description,
		FileURL:     payload.FileURL,
		DueDate:     dueDate,
		Grade:       payload.Grade,
		Subject:     payload.Subject,
		CreatedBy:   teacherID,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Str("subject", assignment.Subject).
		Str("grade", assignment.Grade).
		Msg("assignment created")

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Update(ctx context.Context, id, teacherID uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if assignment.CreatedBy != teacherID {
		return dto.AssignmentResponse{}, ErrNotAssignmentOwner
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.FileURL != nil {
		assignment.FileURL = *payload.FileURL
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.DueDate = dueDate
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}
