package dto

import (
	"time"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// QuestionAskRequest submits a new doubt to a teacher. An optional file is
// uploaded beforehand; only the URL travels here.
type QuestionAskRequest struct {
	TeacherID uint   `json:"teacher_id" validate:"required,gt=0"`
	Text      string `json:"text" validate:"required,min=3,max=4000"`
	FileURL   string `json:"file_url" validate:"omitempty,url"`
}

// QuestionAnswerRequest resolves a pending question.
type QuestionAnswerRequest struct {
	Text    string `json:"text" validate:"required,min=1,max=4000"`
	FileURL string `json:"file_url" validate:"omitempty,url"`
}

// QuestionResponse is the serialized representation of a question thread.
type QuestionResponse struct {
	ID              uint       `json:"id"`
	StudentName     string     `json:"student_name"`
	TeacherName     string     `json:"teacher_name"`
	QuestionText    string     `json:"question_text"`
	QuestionFileURL string     `json:"question_file_url"`
	AnswerText      string     `json:"answer_text"`
	AnswerFileURL   string     `json:"answer_file_url"`
	Status          string     `json:"status"`
	AskedAt         time.Time  `json:"asked_at"`
	AnsweredAt      *time.Time `json:"answered_at"`
}

// TeacherOption is the minimal teacher listing students pick an addressee from.
type TeacherOption struct {
	TeacherID   uint   `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
}

// NewQuestionResponse converts a model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	response := QuestionResponse{
		ID:              model.ID,
		QuestionText:    model.QuestionText,
		QuestionFileURL: model.QuestionFileURL,
		AnswerText:      model.AnswerText,
		AnswerFileURL:   model.AnswerFileURL,
		Status:          model.Status,
		AskedAt:         model.AskedAt,
		AnsweredAt:      model.AnsweredAt,
	}

	if model.Student.StudentProfile != nil {
		response.StudentName = model.Student.StudentProfile.FullName
	}

	if model.Teacher.TeacherProfile != nil {
		response.TeacherName = model.Teacher.TeacherProfile.FullName
	}

	return response
}

// NewQuestionResponseSlice converts question models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}
