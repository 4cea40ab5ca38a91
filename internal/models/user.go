package models

import (
	"strings"
	"time"
)

// Roles recognised by the API. Tokens are issued externally but carry one of these.
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

// User represents an account that can authenticate against the centre.
type User struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Username       string          `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Email          string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string          `gorm:"size:255;not null" json:"-"`
	Role           string          `gorm:"size:16;not null;index" json:"role"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	StudentProfile *StudentProfile `json:"student_profile,omitempty"`
	TeacherProfile *TeacherProfile `json:"teacher_profile,omitempty"`
}

// StudentProfile holds enrolment details for student accounts.
type StudentProfile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName      string    `gorm:"size:255;not null" json:"full_name"`
	StudentCode   string    `gorm:"size:64" json:"student_code"`
	ContactNumber string    `gorm:"size:32" json:"contact_number"`
	Grade         string    `gorm:"size:32;not null;index" json:"grade"`
	Subjects      string    `gorm:"size:512" json:"subjects"`
	DateOfBirth   string    `gorm:"size:16" json:"date_of_birth"`
	Address       string    `gorm:"size:512" json:"address"`
	Gender        string    `gorm:"size:16" json:"gender"`
	EnrolledAt    time.Time `json:"enrolled_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TeacherProfile holds details for teacher accounts.
type TeacherProfile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName      string    `gorm:"size:255;not null" json:"full_name"`
	ContactNumber string    `gorm:"size:32" json:"contact_number"`
	Subjects      string    `gorm:"size:512" json:"subjects"`
	Qualification string    `gorm:"size:255" json:"qualification"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SubjectList splits the comma-separated subject field into trimmed entries.
func (p StudentProfile) SubjectList() []string {
	return splitSubjects(p.Subjects)
}

// SubjectList splits the comma-separated subject field into trimmed entries.
func (p TeacherProfile) SubjectList() []string {
	return splitSubjects(p.Subjects)
}

func splitSubjects(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
