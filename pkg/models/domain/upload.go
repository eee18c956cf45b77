package domain

import "time"

// Upload identifies one stored export dataset.
type Upload struct {
	ID               string
	Name             string
	OriginalFilename string
	UploadedAt       time.Time
	Size             int64
}
