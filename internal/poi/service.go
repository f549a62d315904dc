package poi

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pSenciales/urbanspot/internal/db"
)

// explorerPoints is awarded to the author for placing a new POI.
const explorerPoints = 20

var (
	ErrPOINotFound    = errors.New("poi not found")
	ErrAuthorNotFound = errors.New("author not found")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// CreatePOI inserts the POI with its tags and awards the author's
// explorer points in the same transaction.
func (s *Service) CreatePOI(ctx context.Context, input POI) (POI, error) {
	input.ID = uuid.NewString()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return POI{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO pois (id, name, description, lat, lng, author_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.Name, input.Description, input.Lat, input.Lng, input.AuthorID)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return POI{}, err
	}

	for _, tag := range input.Tags {
		if _, err := tx.Exec(ctx, `
			INSERT INTO poi_tags (poi_id, tag) VALUES ($1,$2)
			ON CONFLICT DO NOTHING
		`, input.ID, tag); err != nil {
			return POI{}, err
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE users SET points_explorer = points_explorer + $2, updated_at = now() WHERE id=$1
	`, input.AuthorID, explorerPoints)
	if err != nil {
		return POI{}, err
	}
	if tag.RowsAffected() == 0 {
		return POI{}, ErrAuthorNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return POI{}, err
	}
	return input, nil
}

func (s *Service) GetPOI(ctx context.Context, id string) (POI, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, lat, lng, author_id, ratings, average_rating, created_at
		FROM pois WHERE id=$1
	`, id)
	var p POI
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Lat, &p.Lng, &p.AuthorID, &p.Ratings, &p.AverageRating, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return POI{}, ErrPOINotFound
	}
	if err != nil {
		return POI{}, err
	}

	tags, err := s.loadTags(ctx, []string{p.ID})
	if err != nil {
		return POI{}, err
	}
	p.Tags = tags[p.ID]
	return p, nil
}

func (s *Service) ListPOIs(ctx context.Context) ([]POI, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, lat, lng, author_id, ratings, average_rating, created_at
		FROM pois
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []POI
	var ids []string
	for rows.Next() {
		var p POI
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Lat, &p.Lng, &p.AuthorID, &p.Ratings, &p.AverageRating, &p.CreatedAt); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
		pois = append(pois, p)
	}

	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range pois {
		pois[i].Tags = tags[pois[i].ID]
	}
	return pois, nil
}

func (s *Service) loadTags(ctx context.Context, poiIDs []string) (map[string][]string, error) {
	if len(poiIDs) == 0 {
		return map[string][]string{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT poi_id, tag FROM poi_tags WHERE poi_id = ANY($1)
		ORDER BY tag
	`, poiIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := map[string][]string{}
	for rows.Next() {
		var poiID, tag string
		if err := rows.Scan(&poiID, &tag); err != nil {
			return nil, err
		}
		tags[poiID] = append(tags[poiID], tag)
	}
	return tags, nil
}
