package models

import "time"

// Material is a study resource shared by a teacher with a grade/subject group.
type Material struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LessonName string    `gorm:"size:255;not null" json:"lesson_name"`
	Subject    string    `gorm:"size:64;not null;index" json:"subject"`
	Grade      string    `gorm:"size:32;not null;index" json:"grade"`
	FileURL    string    `gorm:"size:512;not null" json:"file_url"`
	UploadedBy uint      `gorm:"not null;index" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
