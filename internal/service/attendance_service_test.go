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

func newAttendanceTestService(db *gorm.DB) AttendanceService {
	return NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewUserRepository(db),
		testValidator(),
		zerolog.Nop(),
	)
}

func TestAttendanceListViewSynthesizesPlaceholders(t *testing.T) {
	db := newTestDB(t)
	marked := seedStudent(t, db, "jane", "Jane Perera", "10", "Math, Science")
	unmarked := seedStudent(t, db, "nimal", "Nimal Silva", "10", "Math")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")

	svc := newAttendanceTestService(db)
	ctx := context.Background()

	_, err := svc.Mark(ctx, teacher.ID, []dto.AttendanceMarkRequest{
		{StudentID: marked.ID, Date: "2026-03-02", Subject: "Math", Status: models.AttendanceStatusPresent},
	})
	require.NoError(t, err)

	entries, err := svc.ListView(ctx, dto.AttendanceFilter{
		Grade:   "10",
		Subject: "Math",
		Date:    "2026-03-02",
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byStudent := make(map[uint]dto.AttendanceEntryResponse, len(entries))
	for _, entry := range entries {
		byStudent[entry.StudentID] = entry
	}

	require.Equal(t, models.AttendanceStatusPresent, byStudent[marked.ID].Status)
	require.NotNil(t, byStudent[marked.ID].ID)
	require.Equal(t, models.AttendanceStatusNone, byStudent[unmarked.ID].Status)
	require.Nil(t, byStudent[unmarked.ID].ID)

	// NONE rows exist only in the view, never in storage.
	var count int64
	require.NoError(t, db.Model(&models.AttendanceRecord{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	none, err := svc.ListView(ctx, dto.AttendanceFilter{
		Grade:   "10",
		Subject: "Math",
		Date:    "2026-03-02",
		Status:  models.AttendanceStatusNone,
	})
	require.NoError(t, err)
	require.Len(t, none, 1)
	require.Equal(t, unmarked.ID, none[0].StudentID)
}

func TestAttendanceListViewKeepsPerSubjectRows(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math, Science")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math, Science")

	svc := newAttendanceTestService(db)
	ctx := context.Background()

	_, err := svc.Mark(ctx, teacher.ID, []dto.AttendanceMarkRequest{
		{StudentID: student.ID, Date: "2026-03-05", Subject: "Math", Status: models.AttendanceStatusPresent},
		{StudentID: student.ID, Date: "2026-03-05", Subject: "Science", Status: models.AttendanceStatusAbsent},
	})
	require.NoError(t, err)

	// Without a subject filter, both same-day records stay visible.
	entries, err := svc.ListView(ctx, dto.AttendanceFilter{
		Grade: "10",
		Date:  "2026-03-05",
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	bySubject := make(map[string]dto.AttendanceEntryResponse, len(entries))
	for _, entry := range entries {
		bySubject[entry.Subject] = entry
	}
	require.Equal(t, models.AttendanceStatusPresent, bySubject["Math"].Status)
	require.NotNil(t, bySubject["Math"].ID)
	require.Equal(t, models.AttendanceStatusAbsent, bySubject["Science"].Status)
	require.NotNil(t, bySubject["Science"].ID)
}

func TestAttendanceMarkBatchWritesNothingOnConflict(t *testing.T) {
	db := newTestDB(t)
	first := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")
	second := seedStudent(t, db, "nimal", "Nimal Silva", "10", "Math")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")

	svc := newAttendanceTestService(db)
	ctx := context.Background()

	_, err := svc.Mark(ctx, teacher.ID, []dto.AttendanceMarkRequest{
		{StudentID: first.ID, Date: "2026-03-02", Subject: "Math", Status: models.AttendanceStatusPresent},
	})
	require.NoError(t, err)

	// The fresh entry comes first; the conflict must still block the batch
	// before it is written.
	_, err = svc.Mark(ctx, teacher.ID, []dto.AttendanceMarkRequest{
		{StudentID: second.ID, Date: "2026-03-02", Subject: "Math", Status: models.AttendanceStatusPresent},
		{StudentID: first.ID, Date: "2026-03-02", Subject: "Math", Status: models.AttendanceStatusAbsent},
	})
	require.ErrorIs(t, err, ErrAttendanceAlreadyMarked)

	var count int64
	require.NoError(t, db.Model(&models.AttendanceRecord{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAttendanceMarkIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")

	svc := newAttendanceTestService(db)
	ctx := context.Background()

	entry := dto.AttendanceMarkRequest{
		StudentID: student.ID,
		Date:      "2026-03-02",
		Subject:   "Math",
		Status:    models.AttendanceStatusAbsent,
	}

	_, err := svc.Mark(ctx, teacher.ID, []dto.AttendanceMarkRequest{entry})
	require.NoError(t, err)

	// Same status again is a no-op.
	again, err := svc.Mark(ctx, teacher.ID, []dto.AttendanceMarkRequest{entry})
	require.NoError(t, err)
	require.Len(t, again, 1)
	require.Equal(t, models.AttendanceStatusAbsent, again[0].Status)

	var count int64
	require.NoError(t, db.Model(&models.AttendanceRecord{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	entry.Status = models.AttendanceStatusPresent
	_, err = svc.Mark(ctx, teacher.ID, []dto.AttendanceMarkRequest{entry})
	require.ErrorIs(t, err, ErrAttendanceAlreadyMarked)
}

func TestAttendanceMarkValidatesEntries(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")

	svc := newAttendanceTestService(db)

	_, err := svc.Mark(context.Background(), teacher.ID, []dto.AttendanceMarkRequest{
		{StudentID: student.ID, Date: "2026-03-02", Subject: "Math", Status: "NONE"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "entry 0")

	_, err = svc.Mark(context.Background(), teacher.ID, nil)
	require.Error(t, err)
}

func TestAttendanceListForStudent(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math, Science")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")

	svc := newAttendanceTestService(db)
	ctx := context.Background()

	_, err := svc.Mark(ctx, teacher.ID, []dto.AttendanceMarkRequest{
		{StudentID: student.ID, Date: "2026-03-02", Subject: "Math", Status: models.AttendanceStatusPresent},
		{StudentID: student.ID, Date: "2026-03-03", Subject: "Science", Status: models.AttendanceStatusAbsent},
	})
	require.NoError(t, err)

	all, err := svc.ListForStudent(ctx, student.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	math, err := svc.ListForStudent(ctx, student.ID, "Math")
	require.NoError(t, err)
	require.Len(t, math, 1)
	require.Equal(t, models.AttendanceStatusPresent, math[0].Status)
}
