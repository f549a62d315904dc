package rating

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"github.com/pSenciales/urbanspot/internal/db"
)

const (
	// bonusThreshold is the average a target must cross (strictly above)
	// for its author to earn the one-time reputation bonus.
	bonusThreshold = 7.0
	authorBonus    = 10
	raterReward    = 1
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// roundAverage rounds half away from zero to one decimal. The same rule
// is applied when storing and when reading aggregates so the two views
// never disagree at the bonus boundary.
func roundAverage(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *Service) GetRatingStatus(ctx context.Context, targetType TargetType, targetID, requesterID string) (Status, error) {
	if targetID == "" || targetType == "" {
		return Status{}, ErrMissingField
	}
	if !targetType.Valid() {
		return Status{}, ErrInvalidTarget
	}

	var status Status
	var avg float64
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(score), COALESCE(AVG(score), 0)
		FROM ratings WHERE target_type=$1 AND target_id=$2
	`, string(targetType), targetID).Scan(&status.TotalRatings, &avg)
	if err != nil {
		return Status{}, err
	}
	status.AverageRating = roundAverage(avg)

	if requesterID != "" {
		var score int
		err := s.db.QueryRow(ctx, `
			SELECT score FROM ratings
			WHERE target_type=$1 AND target_id=$2 AND rater_id=$3
		`, string(targetType), targetID, requesterID).Scan(&score)
		switch {
		case err == nil:
			status.UserRating = &score
			status.HasRated = true
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return Status{}, err
		}
	}
	return status, nil
}

// SubmitRating records a first rating by raterID on the target and applies
// all point side effects in one transaction. The target row stays locked
// for the duration, so concurrent writers to the same target serialize and
// the recomputed aggregate always covers the just-inserted row.
func (s *Service) SubmitRating(ctx context.Context, raterID string, targetType TargetType, targetID string, score int) (Result, error) {
	if raterID == "" || targetID == "" || targetType == "" {
		return Result{}, ErrMissingField
	}
	if !targetType.Valid() {
		return Result{}, ErrInvalidTarget
	}
	if score < 0 || score > 10 {
		return Result{}, ErrInvalidScore
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	authorID, prevAvg, err := lockTarget(ctx, tx, targetType, targetID)
	if err != nil {
		return Result{}, err
	}
	if authorID == raterID {
		return Result{}, ErrSelfRating
	}

	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM ratings WHERE target_type=$1 AND target_id=$2 AND rater_id=$3
		)
	`, string(targetType), targetID, raterID).Scan(&exists); err != nil {
		return Result{}, err
	}
	if exists {
		return Result{}, ErrDuplicateRating
	}

	r := Rating{
		ID:         uuid.NewString(),
		TargetType: targetType,
		TargetID:   targetID,
		RaterID:    raterID,
		Score:      score,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO ratings (id, target_type, target_id, rater_id, score)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, r.ID, string(r.TargetType), r.TargetID, r.RaterID, r.Score).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Result{}, ErrDuplicateRating
		}
		return Result{}, err
	}

	total, avg, err := writeAggregates(ctx, tx, targetType, targetID, authorID, prevAvg)
	if err != nil {
		return Result{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET reputation = reputation + $2, updated_at = now() WHERE id=$1
	`, raterID, raterReward); err != nil {
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithFields(log.Fields{
			"target_type": targetType,
			"target_id":   targetID,
			"rater_id":    raterID,
		}).WithError(err).Error("rating submit commit failed")
		return Result{}, err
	}

	return Result{Rating: r, TotalRatings: total, AverageRating: avg}, nil
}

// UpdateRating replaces an existing score and reruns the aggregate and
// threshold-bonus sequence. The flat rater reward is a submission-only
// reward and is deliberately not re-applied here.
func (s *Service) UpdateRating(ctx context.Context, raterID string, targetType TargetType, targetID string, score int) (Result, error) {
	if raterID == "" || targetID == "" || targetType == "" {
		return Result{}, ErrMissingField
	}
	if !targetType.Valid() {
		return Result{}, ErrInvalidTarget
	}
	if score < 0 || score > 10 {
		return Result{}, ErrInvalidScore
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	authorID, prevAvg, err := lockTarget(ctx, tx, targetType, targetID)
	if err != nil {
		return Result{}, err
	}

	r := Rating{
		TargetType: targetType,
		TargetID:   targetID,
		RaterID:    raterID,
		Score:      score,
	}
	err = tx.QueryRow(ctx, `
		UPDATE ratings SET score=$4, updated_at=now()
		WHERE target_type=$1 AND target_id=$2 AND rater_id=$3
		RETURNING id, created_at, updated_at
	`, string(targetType), targetID, raterID, score).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, ErrRatingNotFound
	}
	if err != nil {
		return Result{}, err
	}

	total, avg, err := writeAggregates(ctx, tx, targetType, targetID, authorID, prevAvg)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithFields(log.Fields{
			"target_type": targetType,
			"target_id":   targetID,
			"rater_id":    raterID,
		}).WithError(err).Error("rating update commit failed")
		return Result{}, err
	}

	return Result{Rating: r, TotalRatings: total, AverageRating: avg}, nil
}

// lockTarget resolves the target's author and previously stored average,
// taking a row lock that serializes aggregate writers per target. For an
// image without its own author, attribution falls back to the parent POI's.
func lockTarget(ctx context.Context, tx pgx.Tx, targetType TargetType, targetID string) (string, float64, error) {
	var authorID string
	var prevAvg float64
	var err error
	switch targetType {
	case TargetPOI:
		err = tx.QueryRow(ctx, `
			SELECT author_id, average_rating FROM pois WHERE id=$1 FOR UPDATE
		`, targetID).Scan(&authorID, &prevAvg)
	case TargetImage:
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(i.author_id, p.author_id), i.average_rating
			FROM images i JOIN pois p ON p.id = i.poi_id
			WHERE i.id=$1 FOR UPDATE OF i
		`, targetID).Scan(&authorID, &prevAvg)
	default:
		return "", 0, ErrInvalidTarget
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ErrTargetNotFound
	}
	if err != nil {
		return "", 0, err
	}
	return authorID, prevAvg, nil
}

// writeAggregates recomputes count and average from the rating rows on
// file (never incrementally), stores them on the target, and fires the
// edge-triggered author bonus when the average crosses above the
// threshold on this write.
func writeAggregates(ctx context.Context, tx pgx.Tx, targetType TargetType, targetID, authorID string, prevAvg float64) (int64, float64, error) {
	var total int64
	var rawAvg float64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(score), COALESCE(AVG(score), 0)
		FROM ratings WHERE target_type=$1 AND target_id=$2
	`, string(targetType), targetID).Scan(&total, &rawAvg); err != nil {
		return 0, 0, err
	}
	avg := roundAverage(rawAvg)

	var err error
	switch targetType {
	case TargetPOI:
		_, err = tx.Exec(ctx, `
			UPDATE pois SET ratings=$2, average_rating=$3 WHERE id=$1
		`, targetID, total, avg)
	case TargetImage:
		_, err = tx.Exec(ctx, `
			UPDATE images SET ratings=$2, average_rating=$3 WHERE id=$1
		`, targetID, total, avg)
	}
	if err != nil {
		return 0, 0, err
	}

	if authorID != "" && prevAvg <= bonusThreshold && avg > bonusThreshold {
		if _, err := tx.Exec(ctx, `
			UPDATE users SET reputation = reputation + $2, updated_at = now() WHERE id=$1
		`, authorID, authorBonus); err != nil {
			return 0, 0, err
		}
	}
	return total, avg, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
