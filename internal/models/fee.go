package models

import "time"

// Fee statuses. PENDING rows may exist only virtually: the listing
// synthesizes a placeholder for every enrolled (student, subject, month,
// year) tuple without a persisted row, and the row materializes on payment.
const (
	FeeStatusPending = "PENDING"
	FeeStatusPaid    = "PAID"
)

// FeeRecord is a monthly payment obligation for a student-subject pair.
type FeeRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StudentID     uint      `gorm:"not null;index:idx_fee_key,unique" json:"student_id"`
	Subject       string    `gorm:"size:64;not null;index:idx_fee_key,unique" json:"subject"`
	Month         int       `gorm:"not null;index:idx_fee_key,unique" json:"month"`
	Year          int       `gorm:"not null;index:idx_fee_key,unique" json:"year"`
	Grade         string    `gorm:"size:32;not null" json:"grade"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Status        string    `gorm:"size:16;not null" json:"status"`
	DueDate       string    `gorm:"size:16" json:"due_date"`
	PaidOn        *string   `gorm:"size:16" json:"paid_on"`
	PaymentMethod string    `gorm:"size:32" json:"payment_method"`
	Notes         string    `gorm:"size:512" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FeeKey identifies a fee obligation independent of persistence.
type FeeKey struct {
	StudentID uint
	Subject   string
	Month     int
	Year      int
}

// LastDayOfMonth returns the obligation's due date, the final day of the
// fee's month.
func (k FeeKey) LastDayOfMonth() time.Time {
	return time.Date(k.Year, time.Month(k.Month)+1, 0, 0, 0, 0, 0, time.UTC)
}
