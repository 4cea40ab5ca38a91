package models

import "time"

// Attendance statuses. NONE is never persisted: unmarked rows are
// synthesized by the service as placeholders for the marking view.
const (
	AttendanceStatusNone    = "NONE"
	AttendanceStatusPresent = "PRESENT"
	AttendanceStatusAbsent  = "ABSENT"
)

// AttendanceRecord stores one marked attendance entry, keyed by
// (student, date, subject).
type AttendanceRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index:idx_attendance_key,unique" json:"student_id"`
	Date      string    `gorm:"size:16;not null;index:idx_attendance_key,unique" json:"date"`
	Subject   string    `gorm:"size:64;not null;index:idx_attendance_key,unique" json:"subject"`
	Grade     string    `gorm:"size:32;not null;index" json:"grade"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	MarkedBy  uint      `gorm:"not null" json:"marked_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
