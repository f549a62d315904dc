package image

import "time"

type Image struct {
	ID            string    `json:"id"`
	POIID         string    `json:"poi_id"`
	URL           string    `json:"url"`
	FileName      string    `json:"file_name"`
	MimeType      string    `json:"mime_type"`
	SizeBytes     int64     `json:"size_bytes"`
	AuthorID      string    `json:"author_id,omitempty"`
	Ratings       int64     `json:"ratings"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
}

type UploadRequest struct {
	AuthorID  string `json:"author_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}
