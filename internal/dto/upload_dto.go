package dto

// UploadResponse returns the stored location of an uploaded file.
type UploadResponse struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
}
