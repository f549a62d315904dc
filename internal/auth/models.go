package auth

import "time"

type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Provider           string    `json:"provider"`
	PasswordHash       string    `json:"-"`
	AvatarURL          string    `json:"avatar_url"`
	PointsExplorer     int       `json:"points_explorer"`
	PointsPhotographer int       `json:"points_photographer"`
	Reputation         int       `json:"reputation"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AvatarURL string `json:"avatar_url"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProviderSignInRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
