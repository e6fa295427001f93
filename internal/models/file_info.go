package models

import "time"

// FileInfo represents metadata about an uploaded log file.
type FileInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Encoding   string    `json:"encoding,omitempty"` // "gzip" or "zstd" when the upload was compressed
	UploadedAt time.Time `json:"uploadedAt"`
}
