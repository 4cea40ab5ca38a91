package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

func newAssignmentTestService(db *gorm.DB) AssignmentService {
	return NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewUserRepository(db),
		testValidator(),
		zerolog.Nop(),
	)
}

func TestAssignmentListScopedToStudentEnrolment(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math, Science")

	visible := models.Assignment{
		Title:       "Algebra homework",
		Description: "Solve the worksheet problems",
		DueDate:     time.Now().Add(time.Hour),
		Grade:       "10",
		Subject:     "Math",
		CreatedBy:   teacher.ID,
	}
	otherSubject := models.Assignment{
		Title:       "Biology homework",
		Description: "Label the cell diagram",
		DueDate:     time.Now().Add(time.Hour),
		Grade:       "10",
		Subject:     "Science",
		CreatedBy:   teacher.ID,
	}
	otherGrade := models.Assignment{
		Title:       "Advanced algebra",
		Description: "Solve the advanced problems",
		DueDate:     time.Now().Add(time.Hour),
		Grade:       "11",
		Subject:     "Math",
		CreatedBy:   teacher.ID,
	}
	for _, assignment := range []*models.Assignment{&visible, &otherSubject, &otherGrade} {
		require.NoError(t, db.Create(assignment).Error)
	}

	require.NoError(t, db.Create(&models.Submission{
		AssignmentID: visible.ID,
		StudentID:    student.ID,
		FileURL:      "https://files.test/answer.pdf",
		SubmittedAt:  time.Now(),
	}).Error)

	svc := newAssignmentTestService(db)

	listed, err := svc.ListForUser(context.Background(), student.ID, models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, visible.ID, listed[0].ID)
	require.True(t, listed[0].IsActive)
	require.True(t, listed[0].IsSubmitted)
	require.Equal(t, "https://files.test/answer.pdf", listed[0].SubmissionFileURL)
}

func TestAssignmentListForTeacherShowsOwnOnly(t *testing.T) {
	db := newTestDB(t)
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")
	other := seedTeacher(t, db, "fernando", "Ms Fernando", "Science")

	mine := models.Assignment{
		Title:       "Algebra homework",
		Description: "Solve the worksheet problems",
		DueDate:     time.Now().Add(time.Hour),
		Grade:       "10",
		Subject:     "Math",
		CreatedBy:   teacher.ID,
	}
	theirs := models.Assignment{
		Title:       "Biology homework",
		Description: "Label the cell diagram",
		DueDate:     time.Now().Add(time.Hour),
		Grade:       "10",
		Subject:     "Science",
		CreatedBy:   other.ID,
	}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&theirs).Error)

	svc := newAssignmentTestService(db)

	listed, err := svc.ListForUser(context.Background(), teacher.ID, models.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, mine.ID, listed[0].ID)

	all, err := svc.ListForUser(context.Background(), 0, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestAssignmentCreateAndOwnerOnlyUpdate(t *testing.T) {
	db := newTestDB(t)
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")
	other := seedTeacher(t, db, "fernando", "Ms Fernando", "Science")

	svc := newAssignmentTestService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, teacher.ID, dto.AssignmentCreateRequest{
		Title:       "Algebra homework",
		Description: "Solve the worksheet problems",
		DueDate:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		Grade:       "10",
		Subject:     "Math",
	})
	require.NoError(t, err)
	require.Equal(t, teacher.ID, created.CreatedBy)
	require.True(t, created.IsActive)

	newTitle := "Algebra homework (revised)"
	_, err = svc.Update(ctx, created.ID, other.ID, dto.AssignmentUpdateRequest{Title: &newTitle})
	require.ErrorIs(t, err, ErrNotAssignmentOwner)

	updated, err := svc.Update(ctx, created.ID, teacher.ID, dto.AssignmentUpdateRequest{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, newTitle, updated.Title)

	_, err = svc.Update(ctx, created.ID+99, teacher.ID, dto.AssignmentUpdateRequest{Title: &newTitle})
	require.ErrorIs(t, err, ErrAssignmentNotFound)

	_, err = svc.GetByID(ctx, created.ID+99)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}
