package dto

import "time"

// PerformanceSubmission is one graded-or-pending submission inside the
// performance read model.
type PerformanceSubmission struct {
	ID              uint      `json:"id"`
	AssignmentTitle string    `json:"assignment_title"`
	SubmittedAt     time.Time `json:"submitted_at"`
	IsLate          bool      `json:"is_late"`
	Marks           *int      `json:"marks"`
	IsMarked        bool      `json:"is_marked"`
}

// SubjectPerformance aggregates a student's submissions for one subject.
// AverageMarks covers marked submissions only; zero marked yields 0.
type SubjectPerformance struct {
	SubjectName  string                  `json:"subject_name"`
	AverageMarks float64                 `json:"average_marks"`
	Submissions  []PerformanceSubmission `json:"submissions"`
}

// PerformanceResponse is the per-student performance read model.
type PerformanceResponse struct {
	ID                  uint                 `json:"id"`
	StudentName         string               `json:"student_name"`
	Grade               string               `json:"grade"`
	SubjectPerformances []SubjectPerformance `json:"subject_performances"`
}
