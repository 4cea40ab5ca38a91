package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

// PerformanceService aggregates a student's graded work into per-subject
// averages. The read model is cached; grading invalidates it.
type PerformanceService interface {
	GetForStudent(ctx context.Context, studentID uint) (dto.PerformanceResponse, error)
	Invalidate(ctx context.Context, studentID uint)
}

type performanceService struct {
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewPerformanceService builds the performance aggregator.
func NewPerformanceService(submissions repository.SubmissionRepository, users repository.UserRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) PerformanceService {
	return &performanceService{
		submissions: submissions,
		users:       users,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "performance_service").Logger(),
	}
}

func (s *performanceService) GetForStudent(ctx context.Context, studentID uint) (dto.PerformanceResponse, error) {
	cacheKey := performanceCacheKey(studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.PerformanceResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("performance cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read performance cache")
		}
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PerformanceResponse{}, ErrUserNotFound
		}
		return dto.PerformanceResponse{}, err
	}
	if student.StudentProfile == nil {
		return dto.PerformanceResponse{}, ErrUserNotFound
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.PerformanceResponse{}, err
	}

	response := s.buildResponse(student, submissions)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store performance cache")
			}
		}
	}

	return response, nil
}

func (s *performanceService) Invalidate(ctx context.Context, studentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, performanceCacheKey(studentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to invalidate performance cache")
	}
}

// buildResponse groups submissions by the parent assignment's subject. The
// average covers marked submissions only; a subject with none marked is 0.
func (s *performanceService) buildResponse(student models.User, submissions []models.Submission) dto.PerformanceResponse {
	bySubject := make(map[string][]dto.PerformanceSubmission)
	markTotals := make(map[string]int)
	markCounts := make(map[string]int)

	for _, submission := range submissions {
		subject := submission.Assignment.Subject
		if subject == "" {
			continue
		}

		bySubject[subject] = append(bySubject[subject], dto.PerformanceSubmission{
			ID:              submission.ID,
			AssignmentTitle: submission.Assignment.Title,
			SubmittedAt:     submission.SubmittedAt,
			IsLate:          submission.IsLate,
			Marks:           submission.Marks,
			IsMarked:        submission.IsMarked,
		})

		if submission.IsMarked && submission.Marks != nil {
			markTotals[subject] += *submission.Marks
			markCounts[subject]++
		}
	}

	// Every enrolled subject appears, with or without submissions.
	subjects := student.StudentProfile.SubjectList()
	for subject := range bySubject {
		found := false
		for _, enrolled := range subjects {
			if enrolled == subject {
				found = true
				break
			}
		}
		if !found {
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)

	performances := make([]dto.SubjectPerformance, 0, len(subjects))
	for _, subject := range subjects {
		entries := bySubject[subject]
		if entries == nil {
			entries = []dto.PerformanceSubmission{}
		}

		average := 0.0
		if markCounts[subject] > 0 {
			average = float64(markTotals[subject]) / float64(markCounts[subject])
		}

		performances = append(performances, dto.SubjectPerformance{
			SubjectName:  subject,
			AverageMarks: average,
			Submissions:  entries,
		})
	}

	return dto.PerformanceResponse{
		ID:                  student.ID,
		StudentName:         student.StudentProfile.FullName,
		Grade:               student.StudentProfile.Grade,
		SubjectPerformances: performances,
	}
}

func performanceCacheKey(studentID uint) string {
	return fmt.Sprintf("performance:student:%d", studentID)
}
