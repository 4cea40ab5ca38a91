package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

func newFeeTestService(db *gorm.DB, defaultAmount float64) FeeService {
	return NewFeeService(
		repository.NewFeeRepository(db),
		repository.NewUserRepository(db),
		defaultAmount,
		testValidator(),
		zerolog.Nop(),
	)
}

func TestFeeListViewMergesVirtualPlaceholders(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math, Science")

	record := models.FeeRecord{
		StudentID: student.ID,
		Subject:   "Math",
		Month:     3,
		Year:      2026,
		Grade:     "10",
		Amount:    2000,
		Status:    models.FeeStatusPaid,
		DueDate:   "2026-03-31",
	}
	require.NoError(t, db.Create(&record).Error)

	svc := newFeeTestService(db, 1500)

	entries, err := svc.ListView(context.Background(), dto.FeeFilter{
		Grade: "10",
		Month: 3,
		Year:  2026,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	bySubject := make(map[string]dto.FeeEntryResponse, len(entries))
	for _, entry := range entries {
		bySubject[entry.Subject] = entry
	}

	math := bySubject["Math"]
	require.NotNil(t, math.ID)
	require.Equal(t, models.FeeStatusPaid, math.Status)
	require.Equal(t, 2000.0, math.Amount)

	science := bySubject["Science"]
	require.Nil(t, science.ID)
	require.Equal(t, models.FeeStatusPending, science.Status)
	require.Equal(t, 1500.0, science.Amount)
	require.Equal(t, "2026-03-31", science.DueDate)

	// Placeholders are never written by the listing.
	var count int64
	require.NoError(t, db.Model(&models.FeeRecord{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestFeeListViewKeepsRecordsAfterEnrolmentChange(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")

	// Paid while enrolled in History; the student has since dropped it.
	record := models.FeeRecord{
		StudentID: student.ID,
		Subject:   "History",
		Month:     3,
		Year:      2026,
		Grade:     "10",
		Amount:    1500,
		Status:    models.FeeStatusPaid,
		DueDate:   "2026-03-31",
	}
	require.NoError(t, db.Create(&record).Error)

	svc := newFeeTestService(db, 1500)

	entries, err := svc.ListForStudent(context.Background(), student.ID, 3, 2026)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	bySubject := make(map[string]dto.FeeEntryResponse, len(entries))
	for _, entry := range entries {
		bySubject[entry.Subject] = entry
	}
	require.Equal(t, models.FeeStatusPending, bySubject["Math"].Status)

	history := bySubject["History"]
	require.NotNil(t, history.ID)
	require.Equal(t, models.FeeStatusPaid, history.Status)
	require.Equal(t, "Jane Perera", history.StudentName)
}

func TestFeeCreateMaterializesOncePerKey(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")

	svc := newFeeTestService(db, 1500)
	ctx := context.Background()

	payload := dto.FeeCreateRequest{
		StudentID: student.ID,
		Subject:   "Math",
		Month:     2,
		Year:      2026,
		Grade:     "10",
		Status:    models.FeeStatusPaid,
	}

	entry, err := svc.Create(ctx, payload)
	require.NoError(t, err)
	require.NotNil(t, entry.ID)
	require.Equal(t, models.FeeStatusPaid, entry.Status)
	require.NotNil(t, entry.PaidOn)
	require.Equal(t, 1500.0, entry.Amount)
	require.Equal(t, "2026-02-28", entry.DueDate)

	_, err = svc.Create(ctx, payload)
	require.ErrorIs(t, err, ErrFeeAlreadyRecorded)

	payload.StudentID = student.ID + 99
	_, err = svc.Create(ctx, payload)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestFeeMarkPaidIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")

	svc := newFeeTestService(db, 1500)
	ctx := context.Background()

	entry, err := svc.Create(ctx, dto.FeeCreateRequest{
		StudentID: student.ID,
		Subject:   "Math",
		Month:     3,
		Year:      2026,
		Grade:     "10",
		Status:    models.FeeStatusPending,
	})
	require.NoError(t, err)
	require.Nil(t, entry.PaidOn)

	paid, err := svc.MarkPaid(ctx, *entry.ID, dto.FeeUpdateRequest{
		Status:        models.FeeStatusPaid,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidOn)
	require.Equal(t, "cash", paid.PaymentMethod)

	_, err = svc.MarkPaid(ctx, *entry.ID, dto.FeeUpdateRequest{Status: models.FeeStatusPaid})
	require.ErrorIs(t, err, ErrFeeAlreadyPaid)

	_, err = svc.MarkPaid(ctx, *entry.ID+99, dto.FeeUpdateRequest{Status: models.FeeStatusPaid})
	require.ErrorIs(t, err, ErrFeeNotFound)
}

func TestFeeListForStudent(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math, Science")

	svc := newFeeTestService(db, 1200)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.FeeCreateRequest{
		StudentID: student.ID,
		Subject:   "Science",
		Month:     4,
		Year:      2026,
		Grade:     "10",
		Status:    models.FeeStatusPaid,
	})
	require.NoError(t, err)

	entries, err := svc.ListForStudent(ctx, student.ID, 4, 2026)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	bySubject := make(map[string]dto.FeeEntryResponse, len(entries))
	for _, entry := range entries {
		bySubject[entry.Subject] = entry
	}
	require.Equal(t, models.FeeStatusPending, bySubject["Math"].Status)
	require.Equal(t, models.FeeStatusPaid, bySubject["Science"].Status)

	_, err = svc.ListForStudent(ctx, student.ID+99, 4, 2026)
	require.ErrorIs(t, err, ErrUserNotFound)
}
