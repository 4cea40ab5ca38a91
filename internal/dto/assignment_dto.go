package dto

import (
	"time"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// AssignmentCreateRequest describes the payload for posting a new assignment.
type AssignmentCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=10"`
	FileURL     string `json:"file_url" validate:"omitempty,url"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Grade       string `json:"grade" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
}

// AssignmentUpdateRequest describes the payload for editing an assignment.
// Only the creating teacher may apply it.
type AssignmentUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description" validate:"omitempty,min=10"`
	FileURL     *string `json:"file_url" validate:"omitempty,url"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AssignmentResponse is the serialized representation returned to API clients.
// IsActive is derived from the due date at response time, never stored.
type AssignmentResponse struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	FileURL           string    `json:"file_url"`
	DueDate           time.Time `json:"due_date"`
	Grade             string    `json:"grade"`
	Subject           string    `json:"subject"`
	CreatedBy         uint      `json:"created_by"`
	IsActive          bool      `json:"is_active"`
	IsSubmitted       bool      `json:"is_submitted"`
	SubmissionFileURL string    `json:"submission_file_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO, deriving IsActive
// against the supplied reference time.
func NewAssignmentResponse(model models.Assignment, reference time.Time) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		FileURL:     model.FileURL,
		DueDate:     model.DueDate,
		Grade:       model.Grade,
		Subject:     model.Subject,
		CreatedBy:   model.CreatedBy,
		IsActive:    model.IsActive(reference),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment, reference time.Time) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment, reference))
	}

	return responses
}

// AssignmentLite summarizes an assignment in nested responses.
type AssignmentLite struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	Subject string    `json:"subject"`
	DueDate time.Time `json:"due_date"`
}
