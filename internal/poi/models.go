package poi

import "time"

type POI struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Tags          []string  `json:"tags,omitempty"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	AuthorID      string    `json:"author_id"`
	Ratings       int64     `json:"ratings"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
}
