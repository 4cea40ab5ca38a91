package dto

import (
	"time"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// MaterialCreateRequest shares a study resource with a grade/subject group.
type MaterialCreateRequest struct {
	LessonName string `json:"lesson_name" validate:"required,min=2"`
	Subject    string `json:"subject" validate:"required"`
	Grade      string `json:"grade" validate:"required"`
	FileURL    string `json:"file_url" validate:"required,url"`
}

// MaterialResponse is the serialized study material.
type MaterialResponse struct {
	ID          uint      `json:"id"`
	LessonName  string    `json:"lesson_name"`
	Subject     string    `json:"subject"`
	Grade       string    `json:"grade"`
	FileURL     string    `json:"file_url"`
	TeacherName string    `json:"teacher_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewMaterialResponse converts a model into a DTO.
func NewMaterialResponse(model models.Material, teacherName string) MaterialResponse {
	return MaterialResponse{
		ID:          model.ID,
		LessonName:  model.LessonName,
		Subject:     model.Subject,
		Grade:       model.Grade,
		FileURL:     model.FileURL,
		TeacherName: teacherName,
		CreatedAt:   model.CreatedAt,
	}
}
