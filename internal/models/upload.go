package models

import "time"

// UploadRecord stores metadata for every file pushed through the upload endpoints.
type UploadRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	URL          string    `gorm:"size:512;not null" json:"url"`
	MimeType     string    `gorm:"size:128" json:"mime_type"`
	SizeBytes    int64     `gorm:"not null" json:"size_bytes"`
	Checksum     string    `gorm:"size:128" json:"checksum"`
	UploadedBy   *uint     `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}
