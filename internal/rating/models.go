package rating

import "time"

type TargetType string

const (
	TargetPOI   TargetType = "POI"
	TargetImage TargetType = "Image"
)

func (t TargetType) Valid() bool {
	return t == TargetPOI || t == TargetImage
}

type Rating struct {
	ID         string     `json:"id"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	RaterID    string     `json:"rater_id"`
	Score      int        `json:"score"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Status is the read-side view of a target's ratings. UserRating is nil
// unless a requester id was supplied and that user has rated the target.
type Status struct {
	TotalRatings  int64   `json:"total_ratings"`
	AverageRating float64 `json:"average_rating"`
	UserRating    *int    `json:"user_rating"`
	HasRated      bool    `json:"has_rated"`
}

type Result struct {
	Rating        Rating  `json:"rating"`
	TotalRatings  int64   `json:"total_ratings"`
	AverageRating float64 `json:"average_rating"`
}
