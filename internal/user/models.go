package user

import "time"

// TotalPoints is always derived from the two stored counters on read;
// it is never persisted, so it cannot drift.
type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Provider           string    `json:"provider"`
	AvatarURL          string    `json:"avatar_url"`
	PointsExplorer     int       `json:"points_explorer"`
	PointsPhotographer int       `json:"points_photographer"`
	TotalPoints        int       `json:"total_points"`
	Reputation         int       `json:"reputation"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ProfileUpdate struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}
