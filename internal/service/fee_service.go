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
	// ErrFeeNotFound indicates the requested fee record does not exist.
	ErrFeeNotFound = errors.New("fee record not found")
	// ErrFeeAlreadyPaid indicates a transition was attempted on a PAID record.
	ErrFeeAlreadyPaid = errors.New("fee is already paid")
	// ErrFeeAlreadyRecorded indicates a record for the key already exists.
	ErrFeeAlreadyRecorded = errors.New("fee record already exists for this student, subject and month")
)

// FeeService maintains monthly tuition fees. An obligation exists for every
// (student, subject, month, year) combination implied by enrolment; rows are
// persisted lazily, so listings merge stored records with virtual PENDING
// placeholders. Exactly one entry per key is ever returned.
type FeeService interface {
	ListView(ctx context.Context, filter dto.FeeFilter) ([]dto.FeeEntryResponse, error)
	Create(ctx context.Context, payload dto.FeeCreateRequest) (dto.FeeEntryResponse, error)
	MarkPaid(ctx context.Context, id uint, payload dto.FeeUpdateRequest) (dto.FeeEntryResponse, error)
	ListForStudent(ctx context.Context, studentID uint, month, year int) ([]dto.FeeEntryResponse, error)
}

type feeService struct {
	fees          repository.FeeRepository
	users         repository.UserRepository
	validator     *validator.Validate
	logger        zerolog.Logger
	defaultAmount float64
	now           func() time.Time
}

// NewFeeService constructs the fee service. defaultAmount is the monthly
// charge shown on placeholders before a record is materialized.
func NewFeeService(fees repository.FeeRepository, users repository.UserRepository, defaultAmount float64, validate *validator.Validate, logger zerolog.Logger) FeeService {
	return &feeService{
		fees:          fees,
		users:         users,
		validator:     validate,
		logger:        logger.With().Str("component", "fee_service").Logger(),
		defaultAmount: defaultAmount,
		now:           time.Now,
	}
}

func (s *feeService) ListView(ctx context.Context, filter dto.FeeFilter) ([]dto.FeeEntryResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	month, year := s.defaultPeriod(filter.Month, filter.Year)

	students, err := s.users.ListStudents(ctx, repository.StudentFilter{
		Grade:   filter.Grade,
		Subject: filter.Subject,
	})
	if err != nil {
		return nil, err
	}

	records, err := s.fees.List(ctx, repository.FeeRepoFilter{
		Grade:   filter.Grade,
		Subject: filter.Subject,
		Month:   month,
		Year:    year,
	})
	if err != nil {
		return nil, err
	}

	entries := s.merge(students, records, filter.Subject, month, year)

	if filter.Status != "" {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.Status == filter.Status {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	return entries, nil
}

// merge pairs each enrolment-implied obligation with its stored record, if
// any, and fills the rest with placeholders. Stored records whose subject no
// longer appears in the enrolment list are still emitted so paid history
// survives enrolment changes.
func (s *feeService) merge(students []models.User, records []models.FeeRecord, subject string, month, year int) []dto.FeeEntryResponse {
	type key struct {
		studentID uint
		subject   string
	}

	recordByKey := make(map[key]models.FeeRecord, len(records))
	for _, record := range records {
		recordByKey[key{record.StudentID, record.Subject}] = record
	}

	names := make(map[uint]string, len(students))
	matched := make(map[key]bool, len(records))

	entries := make([]dto.FeeEntryResponse, 0, len(students))
	for _, student := range students {
		if student.StudentProfile == nil {
			continue
		}
		profile := student.StudentProfile
		names[student.ID] = profile.FullName

		subjects := profile.SubjectList()
		if subject != "" {
			subjects = []string{subject}
		}

		for _, subj := range subjects {
			if record, ok := recordByKey[key{student.ID, subj}]; ok {
				matched[key{student.ID, subj}] = true
				entries = append(entries, dto.NewFeeEntryResponse(record, profile.FullName))
				continue
			}

			feeKey := models.FeeKey{
				StudentID: student.ID,
				Subject:   subj,
				Month:     month,
				Year:      year,
			}
			entries = append(entries, dto.NewFeePlaceholder(feeKey, profile.FullName, profile.Grade, s.defaultAmount))
		}
	}

	for _, record := range records {
		if matched[key{record.StudentID, record.Subject}] {
			continue
		}
		entries = append(entries, dto.NewFeeEntryResponse(record, names[record.StudentID]))
	}

	return entries
}

func (s *feeService) Create(ctx context.Context, payload dto.FeeCreateRequest) (dto.FeeEntryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeeEntryResponse{}, err
	}

	student, err := s.users.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeEntryResponse{}, ErrUserNotFound
		}
		return dto.FeeEntryResponse{}, err
	}

	feeKey := models.FeeKey{
		StudentID: payload.StudentID,
		Subject:   payload.Subject,
		Month:     payload.Month,
		Year:      payload.Year,
	}

	if _, err := s.fees.GetByKey(ctx, feeKey); err == nil {
		return dto.FeeEntryResponse{}, ErrFeeAlreadyRecorded
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.FeeEntryResponse{}, err
	}

	record := models.FeeRecord{
		StudentID:     payload.StudentID,
		Grade:         payload.Grade,
		Subject:       payload.Subject,
		Amount:        payload.Amount,
		Month:         payload.Month,
		Year:          payload.Year,
		DueDate:       feeKey.LastDayOfMonth().Format("2006-01-02"),
		Status:        payload.Status,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
	}

	if record.Amount == 0 {
		record.Amount = s.defaultAmount
	}

	if record.Status == models.FeeStatusPaid {
		paidOn := s.now().Format("2006-01-02")
		record.PaidOn = &paidOn
	}

	if err := s.fees.Create(ctx, &record); err != nil {
		return dto.FeeEntryResponse{}, err
	}

	s.logger.Info().
		Uint("fee_id", record.ID).
		Uint("student_id", record.StudentID).
		Str("subject", record.Subject).
		Str("status", record.Status).
		Msg("fee record materialized")

	name := ""
	if student.StudentProfile != nil {
		name = student.StudentProfile.FullName
	}

	return dto.NewFeeEntryResponse(record, name), nil
}

func (s *feeService) MarkPaid(ctx context.Context, id uint, payload dto.FeeUpdateRequest) (dto.FeeEntryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeeEntryResponse{}, err
	}

	record, err := s.fees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeEntryResponse{}, ErrFeeNotFound
		}
		return dto.FeeEntryResponse{}, err
	}

	if record.Status == models.FeeStatusPaid {
		return dto.FeeEntryResponse{}, ErrFeeAlreadyPaid
	}

	paidOn := s.now().Format("2006-01-02")
	record.Status = models.FeeStatusPaid
	record.PaidOn = &paidOn
	if payload.PaymentMethod != "" {
		record.PaymentMethod = payload.PaymentMethod
	}
	if payload.Notes != "" {
		record.Notes = payload.Notes
	}

	if err := s.fees.Update(ctx, &record); err != nil {
		return dto.FeeEntryResponse{}, err
	}

	s.logger.Info().
		Uint("fee_id", record.ID).
		Uint("student_id", record.StudentID).
		Msg("fee marked paid")

	name := s.studentName(ctx, record.StudentID)

	return dto.NewFeeEntryResponse(record, name), nil
}

func (s *feeService) ListForStudent(ctx context.Context, studentID uint, month, year int) ([]dto.FeeEntryResponse, error) {
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

	month, year = s.defaultPeriod(month, year)

	records, err := s.fees.List(ctx, repository.FeeRepoFilter{
		StudentID: &studentID,
		Month:     month,
		Year:      year,
	})
	if err != nil {
		return nil, err
	}

	return s.merge([]models.User{student}, records, "", month, year), nil
}

func (s *feeService) defaultPeriod(month, year int) (int, int) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

func (s *feeService) studentName(ctx context.Context, studentID uint) string {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil || student.StudentProfile == nil {
		return ""
	}
	return student.StudentProfile.FullName
}
