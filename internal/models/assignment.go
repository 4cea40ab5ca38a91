package models

import "time"

// Assignment represents a task posted by a teacher for a grade/subject pair.
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	FileURL     string    `gorm:"size:512" json:"file_url"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	Grade       string    `gorm:"size:32;not null;index" json:"grade"`
	Subject     string    `gorm:"size:64;not null;index" json:"subject"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Submissions []Submission
}

// IsActive reports whether the assignment still accepts on-time submissions.
func (a Assignment) IsActive(reference time.Time) bool {
	return !reference.After(a.DueDate)
}
