package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

var (
	// ErrQuestionNotFound indicates the requested question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuestionAlreadyAnswered indicates the question was resolved earlier.
	ErrQuestionAlreadyAnswered = errors.New("question is already answered")
	// ErrNotQuestionRecipient indicates a teacher tried to answer a question
	// addressed to someone else.
	ErrNotQuestionRecipient = errors.New("question is addressed to another teacher")
	// ErrQuestionTextEmpty indicates the text vanished after sanitization.
	ErrQuestionTextEmpty = errors.New("question text empty after sanitization")
)

// QuestionService runs the doubt-clearing workflow between students and
// teachers. A question moves PENDING to ANSWERED exactly once.
type QuestionService interface {
	Ask(ctx context.Context, studentID uint, payload dto.QuestionAskRequest) (dto.QuestionResponse, error)
	Answer(ctx context.Context, questionID, teacherID uint, payload dto.QuestionAnswerRequest) (dto.QuestionResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.QuestionResponse, error)
	ListForTeacher(ctx context.Context, teacherID uint, status string) ([]dto.QuestionResponse, error)
}

type questionService struct {
	questions     repository.QuestionRepository
	users         repository.UserRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
	sanitizer     *bluemonday.Policy
	now           func() time.Time
}

// NewQuestionService constructs the Q&A service.
func NewQuestionService(questions repository.QuestionRepository, users repository.UserRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions:     questions,
		users:         users,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "question_service").Logger(),
		sanitizer:     bluemonday.StrictPolicy(),
		now:           time.Now,
	}
}

func (s *questionService) Ask(ctx context.Context, studentID uint, payload dto.QuestionAskRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	cleanText := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if cleanText == "" {
		return dto.QuestionResponse{}, ErrQuestionTextEmpty
	}

	teacher, err := s.users.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrUserNotFound
		}
		return dto.QuestionResponse{}, err
	}
	if teacher.Role != models.RoleTeacher {
		return dto.QuestionResponse{}, ErrUserNotFound
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrUserNotFound
		}
		return dto.QuestionResponse{}, err
	}

	question := models.Question{
		StudentID:       studentID,
		TeacherID:       payload.TeacherID,
		QuestionText:    cleanText,
		QuestionFileURL: payload.FileURL,
		Status:          models.QuestionStatusPending,
		AskedAt:         s.now(),
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().
		Uint("question_id", question.ID).
		Uint("student_id", studentID).
		Uint("teacher_id", payload.TeacherID).
		Msg("question asked")

	studentName := ""
	if student.StudentProfile != nil {
		studentName = student.StudentProfile.FullName
	}
	s.notify(ctx, dto.NotificationCreateRequest{
		UserID:  payload.TeacherID,
		Type:    models.NotificationQuestionAsked,
		Title:   "New question",
		Message: fmt.Sprintf("%s asked you a question", studentName),
	})

	return s.reload(ctx, question.ID)
}

func (s *questionService) Answer(ctx context.Context, questionID, teacherID uint, payload dto.QuestionAnswerRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	cleanText := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if cleanText == "" {
		return dto.QuestionResponse{}, ErrQuestionTextEmpty
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	if question.TeacherID != teacherID {
		return dto.QuestionResponse{}, ErrNotQuestionRecipient
	}

	if question.IsAnswered() {
		return dto.QuestionResponse{}, ErrQuestionAlreadyAnswered
	}

	answeredAt := s.now()
	question.AnswerText = cleanText
	question.AnswerFileURL = payload.FileURL
	question.Status = models.QuestionStatusAnswered
	question.AnsweredAt = &answeredAt

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().
		Uint("question_id", question.ID).
		Uint("teacher_id", teacherID).
		Msg("question answered")

	teacherName := ""
	if question.Teacher.TeacherProfile != nil {
		teacherName = question.Teacher.TeacherProfile.FullName
	}
	s.notify(ctx, dto.NotificationCreateRequest{
		UserID:  question.StudentID,
		Type:    models.NotificationAnswerReceived,
		Title:   "Question answered",
		Message: fmt.Sprintf("%s answered your question", teacherName),
	})

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) ListForStudent(ctx context.Context, studentID uint) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.List(ctx, repository.QuestionFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) ListForTeacher(ctx context.Context, teacherID uint, status string) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.List(ctx, repository.QuestionFilter{
		TeacherID: &teacherID,
		Status:    status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) notify(ctx context.Context, payload dto.NotificationCreateRequest) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Publish(ctx, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish question notification")
	}
}

func (s *questionService) reload(ctx context.Context, id uint) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}
