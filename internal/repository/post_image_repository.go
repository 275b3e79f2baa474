package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/approval-api/internal/models"
)

type PostImageRepository interface {
	Create(ctx context.Context, tx *sql.Tx, img *models.PostImage) error
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.PostImage, error)
}

type postImageRepository struct {
	db *sql.DB
}

func NewPostImageRepository(db *sql.DB) PostImageRepository {
	return &postImageRepository{db: db}
}

func (r *postImageRepository) Create(ctx context.Context, tx *sql.Tx, img *models.PostImage) error {
	var err error

	query := `
		INSERT INTO post_images (id, post_id, position, image_url, crop_format)
		VALUES ($1, $2, $3, $4, $5)
	`
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, img.ID, img.PostID, img.Position, img.ImageURL, img.CropFormat)
	} else {
		_, err = r.db.ExecContext(ctx, query, img.ID, img.PostID, img.Position, img.ImageURL, img.CropFormat)
	}

	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *postImageRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.PostImage, error) {
	query := `
		SELECT id, post_id, position, image_url, crop_format, created_at
		FROM post_images
		WHERE post_id = ANY($1)
		ORDER BY post_id, position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var images []*models.PostImage
	for rows.Next() {
		var img models.PostImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.Position, &img.ImageURL, &img.CropFormat, &img.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		images = append(images, &img)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return images, nil
}
