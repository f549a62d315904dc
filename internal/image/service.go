package image

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pSenciales/urbanspot/internal/db"
)

const (
	photographerPoints = 5
	uploadReputation   = 5
)

var (
	ErrPOINotFound    = errors.New("poi not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrImageNotFound  = errors.New("image not found")
)

// objectURLFn names the stored object. The object store itself is an
// opaque upstream service; tests and local runs get a deterministic host.
var objectURLFn = func(poiID, fileName string) string {
	return "https://storage.example/pois/" + poiID + "/" + uuid.NewString() + "-" + fileName
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// AttachPhoto stores an image under an existing POI and, when the
// uploader is known, awards photographer points and reputation, all in
// one transaction. An image keeps its own author; attribution for rating
// bonuses falls back to the POI's author only when none is set.
func (s *Service) AttachPhoto(ctx context.Context, poiID string, req UploadRequest) (Image, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Image{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM pois WHERE id=$1)
	`, poiID).Scan(&exists); err != nil {
		return Image{}, err
	}
	if !exists {
		return Image{}, ErrPOINotFound
	}

	img := Image{
		ID:        uuid.NewString(),
		POIID:     poiID,
		URL:       objectURLFn(poiID, req.FileName),
		FileName:  req.FileName,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
		AuthorID:  req.AuthorID,
	}

	var authorID *string
	if req.AuthorID != "" {
		authorID = &req.AuthorID
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO images (id, poi_id, url, file_name, mime_type, size_bytes, author_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, img.ID, img.POIID, img.URL, img.FileName, img.MimeType, img.SizeBytes, authorID)
	if err := row.Scan(&img.CreatedAt); err != nil {
		return Image{}, err
	}

	if req.AuthorID != "" {
		tag, err := tx.Exec(ctx, `
			UPDATE users
			SET points_photographer = points_photographer + $2,
			    reputation = reputation + $3,
			    updated_at = now()
			WHERE id=$1
		`, req.AuthorID, photographerPoints, uploadReputation)
		if err != nil {
			return Image{}, err
		}
		if tag.RowsAffected() == 0 {
			return Image{}, ErrAuthorNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Image{}, err
	}
	return img, nil
}

func (s *Service) Images(ctx context.Context, poiID string) ([]Image, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, poi_id, url, file_name, mime_type, size_bytes, author_id, ratings, average_rating, created_at
		FROM images WHERE poi_id=$1
		ORDER BY created_at
	`, poiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		var authorID *string
		if err := rows.Scan(&img.ID, &img.POIID, &img.URL, &img.FileName, &img.MimeType, &img.SizeBytes,
			&authorID, &img.Ratings, &img.AverageRating, &img.CreatedAt); err != nil {
			return nil, err
		}
		if authorID != nil {
			img.AuthorID = *authorID
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *Service) GetImage(ctx context.Context, id string) (Image, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, poi_id, url, file_name, mime_type, size_bytes, author_id, ratings, average_rating, created_at
		FROM images WHERE id=$1
	`, id)
	var img Image
	var authorID *string
	err := row.Scan(&img.ID, &img.POIID, &img.URL, &img.FileName, &img.MimeType, &img.SizeBytes,
		&authorID, &img.Ratings, &img.AverageRating, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Image{}, ErrImageNotFound
	}
	if err != nil {
		return Image{}, err
	}
	if authorID != nil {
		img.AuthorID = *authorID
	}
	return img, nil
}
