package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/approval-api/internal/models"
)

type ChangeRequestRepository interface {
	CreateBatch(ctx context.Context, tx *sql.Tx, requests []*models.ChangeRequest) error
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.ChangeRequest, error)
}

type changeRequestRepository struct {
	db *sql.DB
}

func NewChangeRequestRepository(db *sql.DB) ChangeRequestRepository {
	return &changeRequestRepository{db: db}
}

func (r *changeRequestRepository) CreateBatch(ctx context.Context, tx *sql.Tx, requests []*models.ChangeRequest) error {
	query := `
		INSERT INTO change_requests (id, post_id, request_type, message)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	for _, cr := range requests {
		var err error
		if tx != nil {
			err = tx.QueryRowContext(ctx, query, cr.ID, cr.PostID, cr.RequestType, cr.Message).Scan(&cr.CreatedAt)
		} else {
			err = r.db.QueryRowContext(ctx, query, cr.ID, cr.PostID, cr.RequestType, cr.Message).Scan(&cr.CreatedAt)
		}
		if err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("insert change request for post %s: %w", cr.PostID, err)
		}
	}
	return nil
}

func (r *changeRequestRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.ChangeRequest, error) {
	query := `
		SELECT id, post_id, request_type, message, created_at
		FROM change_requests
		WHERE post_id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var requests []*models.ChangeRequest
	for rows.Next() {
		var cr models.ChangeRequest
		if err := rows.Scan(&cr.ID, &cr.PostID, &cr.RequestType, &cr.Message, &cr.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("scan row: %w", err)
		}
		requests = append(requests, &cr)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return requests, nil
}
