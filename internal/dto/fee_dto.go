package dto

import "github.com/noah-isme/tcms-go-api/internal/models"

// FeeCreateRequest materializes a fee row, typically when paying a virtual
// PENDING placeholder that has no persisted record yet.
type FeeCreateRequest struct {
	StudentID     uint    `json:"student_id" validate:"required,gt=0"`
	Subject       string  `json:"subject" validate:"required"`
	Month         int     `json:"month" validate:"required,gte=1,lte=12"`
	Year          int     `json:"year" validate:"required,gte=2000,lte=2100"`
	Grade         string  `json:"grade" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Status        string  `json:"status" validate:"required,oneof=PENDING PAID"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,max=32"`
	Notes         string  `json:"notes" validate:"omitempty,max=512"`
}

// FeeUpdateRequest transitions a persisted fee row. Only PENDING to PAID is
// permitted; payment details may accompany the transition.
type FeeUpdateRequest struct {
	Status        string `json:"status" validate:"required,oneof=PAID"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=32"`
	Notes         string `json:"notes" validate:"omitempty,max=512"`
}

// FeeFilter narrows the fee listing.
type FeeFilter struct {
	Grade   string `query:"grade"`
	Subject string `query:"subject"`
	Month   int    `query:"month" validate:"omitempty,gte=1,lte=12"`
	Year    int    `query:"year" validate:"omitempty,gte=2000,lte=2100"`
	Status  string `query:"status" validate:"omitempty,oneof=PENDING PAID"`
}

// FeeEntryResponse is one row of the fee view. ID is nil for virtual
// PENDING placeholders synthesized from enrolment data.
type FeeEntryResponse struct {
	ID            *uint   `json:"id"`
	StudentID     uint    `json:"student_id"`
	StudentName   string  `json:"student_name"`
	Grade         string  `json:"grade"`
	Subject       string  `json:"subject"`
	Amount        float64 `json:"amount"`
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	DueDate       string  `json:"due_date"`
	Status        string  `json:"status"`
	PaidOn        *string `json:"paid_on"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// NewFeeEntryResponse converts a persisted fee record into a DTO.
func NewFeeEntryResponse(model models.FeeRecord, studentName string) FeeEntryResponse {
	id := model.ID
	return FeeEntryResponse{
		ID:            &id,
		StudentID:     model.StudentID,
		StudentName:   studentName,
		Grade:         model.Grade,
		Subject:       model.Subject,
		Amount:        model.Amount,
		Month:         model.Month,
		Year:          model.Year,
		DueDate:       model.DueDate,
		Status:        model.Status,
		PaidOn:        model.PaidOn,
		PaymentMethod: model.PaymentMethod,
		Notes:         model.Notes,
	}
}

// NewFeePlaceholder builds the virtual PENDING row for an obligation that
// has not been persisted yet.
func NewFeePlaceholder(key models.FeeKey, studentName, grade string, amount float64) FeeEntryResponse {
	return FeeEntryResponse{
		StudentID:   key.StudentID,
		StudentName: studentName,
		Subject:     key.Subject,
		Month:       key.Month,
		Year:        key.Year,
		Grade:       grade,
		Amount:      amount,
		DueDate:     key.LastDayOfMonth().Format("2006-01-02"),
		Status:      models.FeeStatusPending,
	}
}
