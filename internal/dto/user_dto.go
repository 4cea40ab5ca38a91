package dto

import (
	"time"

	"github.com/noah-isme/tcms-go-api/internal/models"
)

// StudentDetails carries the nested profile payload when creating a student.
type StudentDetails struct {
	FullName      string `json:"full_name" validate:"required,min=2"`
	StudentCode   string `json:"student_code"`
	ContactNumber string `json:"contact_number"`
	Grade         string `json:"grade" validate:"required"`
	Subjects      string `json:"subjects" validate:"required"`
	DateOfBirth   string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address       string `json:"address"`
	Gender        string `json:"gender"`
}

// TeacherDetails carries the nested profile payload when creating a teacher.
type TeacherDetails struct {
	FullName      string `json:"full_name" validate:"required,min=2"`
	ContactNumber string `json:"contact_number"`
	Subjects      string `json:"subjects" validate:"required"`
	Qualification string `json:"qualification"`
}

// UserCreateRequest creates a teacher or student account.
type UserCreateRequest struct {
	Username       string          `json:"username" validate:"required,min=3"`
	Password       string          `json:"password" validate:"required,min=8"`
	Email          string          `json:"email" validate:"required,email"`
	Role           string          `json:"role" validate:"required,oneof=TEACHER STUDENT"`
	StudentDetails *StudentDetails `json:"student_details" validate:"omitempty"`
	TeacherDetails *TeacherDetails `json:"teacher_details" validate:"omitempty"`
}

// UserResponse is the serialized account representation.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	Grade     string    `json:"grade,omitempty"`
	Subjects  string    `json:"subjects,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	response := UserResponse{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}

	if model.StudentProfile != nil {
		response.FullName = model.StudentProfile.FullName
		response.Grade = model.StudentProfile.Grade
		response.Subjects = model.StudentProfile.Subjects
	}

	if model.TeacherProfile != nil {
		response.FullName = model.TeacherProfile.FullName
		response.Subjects = model.TeacherProfile.Subjects
	}

	return response
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}
