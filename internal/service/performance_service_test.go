package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
)

func TestPerformanceAggregationAndCaching(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math, Science")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")

	assignments := []models.Assignment{
		{Title: "Algebra", Description: "Worksheet one", DueDate: time.Now().Add(time.Hour), Grade: "10", Subject: "Math", CreatedBy: teacher.ID},
		{Title: "Geometry", Description: "Worksheet two", DueDate: time.Now().Add(time.Hour), Grade: "10", Subject: "Math", CreatedBy: teacher.ID},
		{Title: "Trigonometry", Description: "Worksheet three", DueDate: time.Now().Add(time.Hour), Grade: "10", Subject: "Math", CreatedBy: teacher.ID},
	}
	for i := range assignments {
		require.NoError(t, db.Create(&assignments[i]).Error)
	}

	marks80 := 80
	marks90 := 90
	now := time.Now()
	submissions := []models.Submission{
		{AssignmentID: assignments[0].ID, StudentID: student.ID, AnswerText: "a", SubmittedAt: now, Marks: &marks80, IsMarked: true},
		{AssignmentID: assignments[1].ID, StudentID: student.ID, AnswerText: "b", SubmittedAt: now, Marks: &marks90, IsMarked: true},
		{AssignmentID: assignments[2].ID, StudentID: student.ID, AnswerText: "c", SubmittedAt: now},
	}
	for i := range submissions {
		require.NoError(t, db.Create(&submissions[i]).Error)
	}

	svc := NewPerformanceService(
		repository.NewSubmissionRepository(db),
		repository.NewUserRepository(db),
		redisClient,
		time.Minute,
		zerolog.Nop(),
	)

	ctx := context.Background()
	first, err := svc.GetForStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, student.ID, first.ID)
	require.Equal(t, "Jane Perera", first.StudentName)
	require.Equal(t, "10", first.Grade)
	require.Len(t, first.SubjectPerformances, 2)

	math := first.SubjectPerformances[0]
	require.Equal(t, "Math", math.SubjectName)
	require.InDelta(t, 85.0, math.AverageMarks, 0.01)
	require.Len(t, math.Submissions, 3)

	// Enrolled subjects appear even without submissions; zero marked means 0.
	science := first.SubjectPerformances[1]
	require.Equal(t, "Science", science.SubjectName)
	require.Zero(t, science.AverageMarks)
	require.Empty(t, science.Submissions)

	// The read model is served from cache until invalidated.
	marks100 := 100
	require.NoError(t, db.Model(&submissions[2]).Updates(map[string]interface{}{
		"marks":     marks100,
		"is_marked": true,
	}).Error)

	second, err := svc.GetForStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)

	svc.Invalidate(ctx, student.ID)

	third, err := svc.GetForStudent(ctx, student.ID)
	require.NoError(t, err)
	require.InDelta(t, 90.0, third.SubjectPerformances[0].AverageMarks, 0.01)
}

func TestPerformanceUnknownStudent(t *testing.T) {
	db := newTestDB(t)

	svc := NewPerformanceService(
		repository.NewSubmissionRepository(db),
		repository.NewUserRepository(db),
		nil,
		time.Minute,
		zerolog.Nop(),
	)

	_, err := svc.GetForStudent(context.Background(), 42)
	require.ErrorIs(t, err, ErrUserNotFound)
}
