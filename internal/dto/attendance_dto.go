package dto

import "github.com/noah-isme/tcms-go-api/internal/models"

// AttendanceMarkRequest marks one student for one (date, subject) key.
// The endpoint accepts an array of these and upserts each by key.
type AttendanceMarkRequest struct {
	StudentID uint   `json:"student_id" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Subject   string `json:"subject" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=PRESENT ABSENT"`
}

// AttendanceFilter narrows the teacher marking/review views.
type AttendanceFilter struct {
	Grade   string `query:"grade"`
	Subject string `query:"subject"`
	Date    string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	Status  string `query:"status" validate:"omitempty,oneof=NONE PRESENT ABSENT"`
}

// AttendanceEntryResponse is one row of the attendance view. ID is nil for
// synthesized NONE placeholders that have no persisted record yet.
type AttendanceEntryResponse struct {
	ID          *uint  `json:"id"`
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Grade       string `json:"grade"`
	Subject     string `json:"subject"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

// NewAttendanceEntryResponse converts a persisted record into a DTO.
func NewAttendanceEntryResponse(model models.AttendanceRecord, studentName string) AttendanceEntryResponse {
	id := model.ID
	return AttendanceEntryResponse{
		ID:          &id,
		StudentID:   model.StudentID,
		StudentName: studentName,
		Grade:       model.Grade,
		Subject:     model.Subject,
		Date:        model.Date,
		Status:      model.Status,
	}
}

// NewAttendancePlaceholder builds the NONE row shown for a student who has
// not been marked for the key yet.
func NewAttendancePlaceholder(studentID uint, studentName, grade, subject, date string) AttendanceEntryResponse {
	return AttendanceEntryResponse{
		StudentID:   studentID,
		StudentName: studentName,
		Grade:       grade,
		Subject:     subject,
		Date:        date,
		Status:      models.AttendanceStatusNone,
	}
}
