package dto

import (
	"time"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// SubmissionCreateRequest carries a student's answer for an assignment.
// The file is uploaded beforehand through the upload endpoint; only the
// resulting URL travels here.
type SubmissionCreateRequest struct {
	FileURL    string `json:"file_url" validate:"omitempty,url"`
	AnswerText string `json:"answer_text" validate:"omitempty,max=4000"`
}

// SubmissionMarkRequest awards marks for a submission.
type SubmissionMarkRequest struct {
	Marks int `json:"marks" validate:"gte=0,lte=100"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint           `json:"id"`
	AssignmentID uint           `json:"assignment_id"`
	StudentID    uint           `json:"student_id"`
	StudentName  string         `json:"student_name"`
	FileURL      string         `json:"file_url"`
	AnswerText   string         `json:"answer_text"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	IsLate       bool           `json:"is_late"`
	Marks        *int           `json:"marks"`
	IsMarked     bool           `json:"is_marked"`
	MarkedAt     *time.Time     `json:"marked_at"`
	Assignment   AssignmentLite `json:"assignment"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		FileURL:      model.FileURL,
		AnswerText:   model.AnswerText,
		SubmittedAt:  model.SubmittedAt,
		IsLate:       model.IsLate,
		Marks:        model.Marks,
		IsMarked:     model.IsMarked,
		MarkedAt:     model.MarkedAt,
	}

	if model.Student.ID != 0 && model.Student.StudentProfile != nil {
		response.StudentName = model.Student.StudentProfile.FullName
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:      model.Assignment.ID,
			Title:   model.Assignment.Title,
			Subject: model.Assignment.Subject,
			DueDate: model.Assignment.DueDate,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
