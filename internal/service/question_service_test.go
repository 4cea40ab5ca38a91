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

func newQuestionTestService(db *gorm.DB) QuestionService {
	notifications := NewNotificationService(
		repository.NewNotificationRepository(db),
		nil, "", nil,
		testValidator(),
		zerolog.Nop(),
	)

	return NewQuestionService(
		repository.NewQuestionRepository(db),
		repository.NewUserRepository(db),
		notifications,
		testValidator(),
		zerolog.Nop(),
	)
}

func TestQuestionAskSanitizesAndNotifies(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")

	svc := newQuestionTestService(db)

	question, err := svc.Ask(context.Background(), student.ID, dto.QuestionAskRequest{
		TeacherID: teacher.ID,
		Text:      "<script>alert(1)</script>Need help with algebra",
	})
	require.NoError(t, err)
	require.Equal(t, models.QuestionStatusPending, question.Status)
	require.Equal(t, "Need help with algebra", question.QuestionText)
	require.Equal(t, "Jane Perera", question.StudentName)
	require.Equal(t, "Mr Silva", question.TeacherName)
	require.Nil(t, question.AnsweredAt)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", teacher.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationQuestionAsked, notifications[0].Type)
	require.Contains(t, notifications[0].Message, "Jane Perera")
}

func TestQuestionAskRejectsInvalidRecipient(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")
	other := seedStudent(t, db, "nimal", "Nimal Silva", "10", "Math")

	svc := newQuestionTestService(db)
	ctx := context.Background()

	_, err := svc.Ask(ctx, student.ID, dto.QuestionAskRequest{
		TeacherID: other.ID + 99,
		Text:      "Is anyone there?",
	})
	require.ErrorIs(t, err, ErrUserNotFound)

	// A student account cannot receive questions.
	_, err = svc.Ask(ctx, student.ID, dto.QuestionAskRequest{
		TeacherID: other.ID,
		Text:      "Is anyone there?",
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestQuestionAnswerLifecycle(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")
	otherTeacher := seedTeacher(t, db, "fernando", "Ms Fernando", "Science")

	svc := newQuestionTestService(db)
	ctx := context.Background()

	question, err := svc.Ask(ctx, student.ID, dto.QuestionAskRequest{
		TeacherID: teacher.ID,
		Text:      "How do I factor quadratics?",
	})
	require.NoError(t, err)

	_, err = svc.Answer(ctx, question.ID, otherTeacher.ID, dto.QuestionAnswerRequest{Text: "Not mine"})
	require.ErrorIs(t, err, ErrNotQuestionRecipient)

	answered, err := svc.Answer(ctx, question.ID, teacher.ID, dto.QuestionAnswerRequest{
		Text: "Start by finding factor pairs of the constant term.",
	})
	require.NoError(t, err)
	require.Equal(t, models.QuestionStatusAnswered, answered.Status)
	require.NotNil(t, answered.AnsweredAt)

	_, err = svc.Answer(ctx, question.ID, teacher.ID, dto.QuestionAnswerRequest{Text: "Again"})
	require.ErrorIs(t, err, ErrQuestionAlreadyAnswered)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", student.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationAnswerReceived, notifications[0].Type)

	_, err = svc.Answer(ctx, question.ID+99, teacher.ID, dto.QuestionAnswerRequest{Text: "Missing"})
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuestionListsScopedByParticipant(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "jane", "Jane Perera", "10", "Math")
	other := seedStudent(t, db, "nimal", "Nimal Silva", "10", "Math")
	teacher := seedTeacher(t, db, "silva", "Mr Silva", "Math")

	svc := newQuestionTestService(db)
	ctx := context.Background()

	first, err := svc.Ask(ctx, student.ID, dto.QuestionAskRequest{TeacherID: teacher.ID, Text: "First question"})
	require.NoError(t, err)
	_, err = svc.Ask(ctx, other.ID, dto.QuestionAskRequest{TeacherID: teacher.ID, Text: "Second question"})
	require.NoError(t, err)

	mine, err := svc.ListForStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, first.ID, mine[0].ID)

	_, err = svc.Answer(ctx, first.ID, teacher.ID, dto.QuestionAnswerRequest{Text: "Answered"})
	require.NoError(t, err)

	pending, err := svc.ListForTeacher(ctx, teacher.ID, models.QuestionStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	all, err := svc.ListForTeacher(ctx, teacher.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}
