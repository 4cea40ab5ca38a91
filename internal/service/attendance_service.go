package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

// ErrAttendanceAlreadyMarked indicates the (student, date, subject) key was
// already marked with a different status. Marking never reverts.
var ErrAttendanceAlreadyMarked = errors.New("attendance already marked for this student, date and subject")

// AttendanceService maintains per-lesson attendance. Unmarked students are
// shown as NONE rows synthesized from enrolment; only PRESENT and ABSENT are
// ever persisted.
type AttendanceService interface {
	ListView(ctx context.Context, filter dto.AttendanceFilter) ([]dto.AttendanceEntryResponse, error)
	Mark(ctx context.Context, teacherID uint, entries []dto.AttendanceMarkRequest) ([]dto.AttendanceEntryResponse, error)
	ListForStudent(ctx context.Context, studentID uint, subject string) ([]dto.AttendanceEntryResponse, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	users      repository.UserRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(attendance repository.AttendanceRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		users:      users,
		validator:  validate,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
		now:        time.Now,
	}
}

func (s *attendanceService) ListView(ctx context.Context, filter dto.AttendanceFilter) ([]dto.AttendanceEntryResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	date := filter.Date
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	students, err := s.users.ListStudents(ctx, repository.StudentFilter{
		Grade:   filter.Grade,
		Subject: filter.Subject,
	})
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.List(ctx, repository.AttendanceFilter{
		Grade:   filter.Grade,
		Subject: filter.Subject,
		Date:    date,
	})
	if err != nil {
		return nil, err
	}

	// Records are keyed per subject; with no subject filter a student gets
	// one row per enrolled subject, mirroring the fee view.
	type viewKey struct {
		studentID uint
		subject   string
	}
	recordByKey := make(map[viewKey]models.AttendanceRecord, len(records))
	for _, record := range records {
		recordByKey[viewKey{record.StudentID, record.Subject}] = record
	}

	entries := make([]dto.AttendanceEntryResponse, 0, len(students))
	for _, student := range students {
		if student.StudentProfile == nil {
			continue
		}
		profile := student.StudentProfile

		subjects := profile.SubjectList()
		if filter.Subject != "" {
			subjects = []string{filter.Subject}
		}

		for _, subject := range subjects {
			var entry dto.AttendanceEntryResponse
			if record, marked := recordByKey[viewKey{student.ID, subject}]; marked {
				entry = dto.NewAttendanceEntryResponse(record, profile.FullName)
			} else {
				entry = dto.NewAttendancePlaceholder(student.ID, profile.FullName, profile.Grade, subject, date)
			}

			if filter.Status != "" && entry.Status != filter.Status {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func (s *attendanceService) Mark(ctx context.Context, teacherID uint, entries []dto.AttendanceMarkRequest) ([]dto.AttendanceEntryResponse, error) {
	if len(entries) == 0 {
		return nil, errors.New("at least one attendance entry is required")
	}

	for idx, entry := range entries {
		if err := s.validator.Struct(entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", idx, err)
		}
	}

	// Every entry is checked before anything is written so a rejected batch
	// leaves no partial marks behind.
	type pendingMark struct {
		entry    dto.AttendanceMarkRequest
		grade    string
		name     string
		existing *models.AttendanceRecord
	}

	pending := make([]pendingMark, 0, len(entries))
	for _, entry := range entries {
		student, err := s.users.GetByID(ctx, entry.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if student.StudentProfile == nil {
			return nil, ErrUserNotFound
		}

		mark := pendingMark{
			entry: entry,
			grade: student.StudentProfile.Grade,
			name:  student.StudentProfile.FullName,
		}

		existing, err := s.attendance.GetByKey(ctx, entry.StudentID, entry.Date, entry.Subject)
		switch {
		case err == nil:
			// Marking the same status twice is a no-op; changing it is refused.
			if existing.Status != entry.Status {
				return nil, ErrAttendanceAlreadyMarked
			}
			mark.existing = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return nil, err
		}

		pending = append(pending, mark)
	}

	responses := make([]dto.AttendanceEntryResponse, 0, len(pending))
	for _, mark := range pending {
		if mark.existing != nil {
			responses = append(responses, dto.NewAttendanceEntryResponse(*mark.existing, mark.name))
			continue
		}

		record := models.AttendanceRecord{
			StudentID: mark.entry.StudentID,
			Grade:     mark.grade,
			Subject:   mark.entry.Subject,
			Date:      mark.entry.Date,
			Status:    mark.entry.Status,
			MarkedBy:  teacherID,
		}
		if err := s.attendance.Create(ctx, &record); err != nil {
			return nil, err
		}

		responses = append(responses, dto.NewAttendanceEntryResponse(record, mark.name))
	}

	s.logger.Info().
		Uint("teacher_id", teacherID).
		Int("entries", len(responses)).
		Msg("attendance marked")

	return responses, nil
}

func (s *attendanceService) ListForStudent(ctx context.Context, studentID uint, subject string) ([]dto.AttendanceEntryResponse, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	name := ""
	if student.StudentProfile != nil {
		name = student.StudentProfile.FullName
	}

	records, err := s.attendance.List(ctx, repository.AttendanceFilter{
		StudentID: &studentID,
		Subject:   subject,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]dto.AttendanceEntryResponse, 0, len(records))
	for _, record := range records {
		entries = append(entries, dto.NewAttendanceEntryResponse(record, name))
	}

	return entries, nil
}
