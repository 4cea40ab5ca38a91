package models

import "time"

// Question lifecycle is one-way: PENDING until a teacher answers, then
// ANSWERED. There is no re-opening.
const (
	QuestionStatusPending  = "PENDING"
	QuestionStatusAnswered = "ANSWERED"
)

// Question is a doubt raised by a student and addressed to one teacher.
type Question struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	StudentID       uint       `gorm:"not null;index" json:"student_id"`
	TeacherID       uint       `gorm:"not null;index" json:"teacher_id"`
	QuestionText    string     `gorm:"type:text;not null" json:"question_text"`
	QuestionFileURL string     `gorm:"size:512" json:"question_file_url"`
	AnswerText      string     `gorm:"type:text" json:"answer_text"`
	AnswerFileURL   string     `gorm:"size:512" json:"answer_file_url"`
	Status          string     `gorm:"size:16;not null;index" json:"status"`
	AskedAt         time.Time  `gorm:"not null" json:"asked_at"`
	AnsweredAt      *time.Time `json:"answered_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Student         User       `gorm:"foreignKey:StudentID" json:"student"`
	Teacher         User       `gorm:"foreignKey:TeacherID" json:"teacher"`
}

// IsAnswered reports whether the question has received an answer.
func (q Question) IsAnswered() bool {
	return q.Status == QuestionStatusAnswered
}
