package models

import "time"

// Notification types surfaced by the bell dropdown.
const (
	NotificationQuestionAsked      = "QUESTION_ASKED"
	NotificationAnswerReceived     = "ANSWER_RECEIVED"
	NotificationPendingFeeReminder = "PENDING_FEE_REMINDER"
)

// Notification is a message targeted at a single user. Read state is
// monotonic: once read, never unread.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:64;not null" json:"type"`
	Title     string    `gorm:"size:255" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
