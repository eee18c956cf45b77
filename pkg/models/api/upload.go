package api

import "time"

type Upload struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OriginalFilename string    `json:"original_filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
	Size             int64     `json:"size"`
}

type UploadRequest struct {
	Name             string      `json:"name"`
	OriginalFilename string      `json:"original_filename"`
	Size             int64       `json:"size"`
	Data             AccountData `json:"data"`
}

// CurrentUpload reports the active upload id; null when nothing is uploaded yet.
type CurrentUpload struct {
	UploadID *string `json:"upload_id"`
}

type Message struct {
	Message string `json:"message"`
}

type Error struct {
	Detail string `json:"detail"`
}
