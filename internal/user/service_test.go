package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "email", "provider", "avatar_url",
		"points_explorer", "points_photographer", "reputation", "created_at", "updated_at"})
}

func TestGetUserDerivesTotalPoints(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email, provider, avatar_url`).
		WithArgs("user-1").
		WillReturnRows(userRows().AddRow("user-1", "User", "user@example.com", "credentials", "", 40, 15, 21, time.Now(), time.Now()))

	svc := NewService(mock)
	u, err := svc.GetUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.TotalPoints != 55 {
		t.Fatalf("expected total points 55, got %d", u.TotalPoints)
	}
	if u.Reputation != 21 {
		t.Fatalf("unexpected reputation: %d", u.Reputation)
	}
}

func TestGetUserNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email, provider, avatar_url`).
		WithArgs("user-missing").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock)
	if _, err := svc.GetUser(context.Background(), "user-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email, provider, avatar_url`).
		WillReturnRows(userRows().
			AddRow("user-1", "One", "one@example.com", "credentials", "", 20, 0, 10, time.Now(), time.Now()).
			AddRow("user-2", "Two", "two@example.com", "google", "", 0, 5, 5, time.Now(), time.Now()))

	svc := NewService(mock)
	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].TotalPoints != 20 || users[1].TotalPoints != 5 {
		t.Fatalf("unexpected totals: %+v", users)
	}
}

func TestUpdateProfilePatchesNameOnly(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email, provider, avatar_url`).
		WithArgs("user-1").
		WillReturnRows(userRows().AddRow("user-1", "Old Name", "user@example.com", "credentials", "avatar.png", 0, 0, 0, time.Now(), time.Now()))
	mock.ExpectExec(`UPDATE users SET name=\$2, avatar_url=\$3`).
		WithArgs("user-1", "New Name", "avatar.png").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	name := "New Name"
	svc := NewService(mock)
	u, err := svc.UpdateProfile(context.Background(), ProfileUpdate{ID: "user-1", Name: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if u.Name != "New Name" || u.AvatarURL != "avatar.png" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateProfileMissingID(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.UpdateProfile(context.Background(), ProfileUpdate{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUpdateProfileUserNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email, provider, avatar_url`).
		WithArgs("user-missing").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock)
	if _, err := svc.UpdateProfile(context.Background(), ProfileUpdate{ID: "user-missing"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}
