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
	// ErrSubmissionNotFound indicates the requested submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrSubmissionEmpty indicates neither a file nor answer text was supplied.
	ErrSubmissionEmpty = errors.New("submission requires a file or answer text")
	// ErrMarksOutOfRange indicates the awarded marks fall outside 0 to 100.
	ErrMarksOutOfRange = errors.New("marks must be between 0 and 100")
	// ErrSubmissionAlreadyMarked indicates a resubmission after grading.
	ErrSubmissionAlreadyMarked = errors.New("submission has been marked and can no longer be changed")
)

// PerformanceInvalidator drops cached performance aggregates after grading.
type PerformanceInvalidator interface {
	Invalidate(ctx context.Context, studentID uint)
}

// SubmissionService handles hand-ins and grading. A student has at most one
// submission per assignment; resubmitting replaces the previous answer until
// the submission is marked. Lateness is derived server side from the
// assignment due date.
type SubmissionService interface {
	Submit(ctx context.Context, assignmentID, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
	Mark(ctx context.Context, submissionID, teacherID uint, marks int) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	performance PerformanceInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, performance PerformanceInvalidator, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		performance: performance,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, assignmentID, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if payload.FileURL == "" && payload.AnswerText == "" {
		return dto.SubmissionResponse{}, ErrSubmissionEmpty
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submittedAt := s.now()
	isLate := submittedAt.After(assignment.DueDate)

	existing, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	switch {
	case err == nil:
		if existing.IsMarked {
			return dto.SubmissionResponse{}, ErrSubmissionAlreadyMarked
		}
		// A resubmission may carry only new text; the stored file stays.
		if payload.FileURL != "" {
			existing.FileURL = payload.FileURL
		}
		existing.AnswerText = payload.AnswerText
		existing.SubmittedAt = submittedAt
		existing.IsLate = isLate
		if err := s.submissions.Update(ctx, &existing); err != nil {
			return dto.SubmissionResponse{}, err
		}
		return s.reload(ctx, existing.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		submission := models.Submission{
			AssignmentID: assignmentID,
			StudentID:    studentID,
			FileURL:      payload.FileURL,
			AnswerText:   payload.AnswerText,
			SubmittedAt:  submittedAt,
			IsLate:       isLate,
		}
		if err := s.submissions.Create(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, err
		}

		s.logger.Info().
			Uint("assignment_id", assignmentID).
			Uint("student_id", studentID).
			Bool("is_late", isLate).
			Msg("submission received")

		return s.reload(ctx, submission.ID)
	default:
		return dto.SubmissionResponse{}, err
	}
}

func (s *submissionService) ListByAssignment(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{AssignmentID: &assignmentID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListByStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Mark(ctx context.Context, submissionID, teacherID uint, marks int) (dto.SubmissionResponse, error) {
	if marks < 0 || marks > 100 {
		return dto.SubmissionResponse{}, ErrMarksOutOfRange
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	markedAt := s.now()
	submission.Marks = &marks
	submission.IsMarked = true
	submission.MarkedBy = &teacherID
	submission.MarkedAt = &markedAt

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.performance != nil {
		s.performance.Invalidate(ctx, submission.StudentID)
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("teacher_id", teacherID).
		Int("marks", marks).
		Msg("submission marked")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) reload(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}
