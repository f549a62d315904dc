package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/pSenciales/urbanspot/internal/db"
)

var ErrUserNotFound = errors.New("user not found")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

const userColumns = `
	SELECT id, name, email, provider, avatar_url, points_explorer, points_photographer, reputation, created_at, updated_at
	FROM users`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Provider, &u.AvatarURL,
		&u.PointsExplorer, &u.PointsPhotographer, &u.Reputation, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	u.TotalPoints = u.PointsExplorer + u.PointsPhotographer
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, userColumns+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, userColumns+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// UpdateProfile patches name and avatar only; points and reputation are
// owned by the poi/image/rating flows.
func (s *Service) UpdateProfile(ctx context.Context, patch ProfileUpdate) (User, error) {
	if patch.ID == "" {
		return User{}, errors.New("id required")
	}

	current, err := s.GetUser(ctx, patch.ID)
	if err != nil {
		return User{}, err
	}
	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.AvatarURL != nil {
		current.AvatarURL = *patch.AvatarURL
	}

	_, err = s.db.Exec(ctx, `
		UPDATE users SET name=$2, avatar_url=$3, updated_at=now() WHERE id=$1
	`, current.ID, current.Name, current.AvatarURL)
	if err != nil {
		return User{}, err
	}
	return current, nil
}
