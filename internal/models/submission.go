package models

import "time"

// Submission is a student's response to an assignment. One row per
// (assignment, student); re-submission before grading overwrites in place.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;index:idx_submission_key,unique" json:"assignment_id"`
	StudentID    uint       `gorm:"not null;index:idx_submission_key,unique" json:"student_id"`
	FileURL      string     `gorm:"size:512" json:"file_url"`
	AnswerText   string     `gorm:"type:text" json:"answer_text"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	IsLate       bool       `gorm:"not null;default:false" json:"is_late"`
	Marks        *int       `json:"marks"`
	IsMarked     bool       `gorm:"not null;default:false" json:"is_marked"`
	MarkedBy     *uint      `json:"marked_by"`
	MarkedAt     *time.Time `json:"marked_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student      User       `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
