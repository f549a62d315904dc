package rank

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/pSenciales/urbanspot/internal/db"
)

const defaultLimit = 50

// Entry is one leaderboard row. Total points are computed in the query,
// never read from a stored column.
type Entry struct {
	UserID             string `json:"user_id"`
	Name               string `json:"name"`
	AvatarURL          string `json:"avatar_url"`
	PointsExplorer     int    `json:"points_explorer"`
	PointsPhotographer int    `json:"points_photographer"`
	TotalPoints        int    `json:"total_points"`
	Reputation         int    `json:"reputation"`
}

type Service struct {
	db    db.Querier
	redis *redis.Client
	ttl   time.Duration
}

// NewService builds the leaderboard feed. redisClient may be nil, in
// which case every read goes to the database.
func NewService(db db.Querier, redisClient *redis.Client, ttl time.Duration) *Service {
	return &Service{db: db, redis: redisClient, ttl: ttl}
}

// Top returns the highest-scoring users. Results may lag the database by
// up to the cache TTL.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	if cached, ok := s.fromCache(ctx, limit); ok {
		return cached, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, avatar_url, points_explorer, points_photographer, reputation
		FROM users
		ORDER BY points_explorer + points_photographer DESC, reputation DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.Name, &e.AvatarURL, &e.PointsExplorer, &e.PointsPhotographer, &e.Reputation); err != nil {
			return nil, err
		}
		e.TotalPoints = e.PointsExplorer + e.PointsPhotographer
		entries = append(entries, e)
	}

	s.toCache(ctx, limit, entries)
	return entries, nil
}

func (s *Service) fromCache(ctx context.Context, limit int) ([]Entry, bool) {
	if s.redis == nil {
		return nil, false
	}
	payload, err := s.redis.Get(ctx, cacheKey(limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *Service) toCache(ctx context.Context, limit int, entries []Entry) {
	if s.redis == nil || len(entries) == 0 {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(limit), payload, s.ttl).Err(); err != nil {
		log.WithError(err).Warn("leaderboard cache write failed")
	}
}

func cacheKey(limit int) string {
	return "leaderboard:top:" + strconv.Itoa(limit)
}
