package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/approval-api/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) error
	ListByClientIDs(ctx context.Context, clientIDs []string) ([]*models.Post, error)
	UpdateCaption(ctx context.Context, postID, caption string) error
	UpdateStatus(ctx context.Context, status string, postID string) error
	UpdateStatusBatch(ctx context.Context, tx *sql.Tx, status string, postIDs []string) (int64, error)
	PublishDue(ctx context.Context) error
	CountScheduledBetween(ctx context.Context, from, to time.Time) (map[string]int, error)
	Remove(ctx context.Context, id string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, client_id, scheduled_date, post_type, caption, status, created_at, updated_at`

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.ClientID, &p.ScheduledDate, &p.PostType, &p.Caption, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ScheduledDate = p.ScheduledDate.UTC()
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		INSERT INTO posts (id, client_id, scheduled_date, post_type, caption, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	args := []any{post.ID, post.ClientID, post.ScheduledDate.UTC(), post.PostType, post.Caption, post.Status}

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&post.CreatedAt, &post.UpdatedAt)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&post.CreatedAt, &post.UpdatedAt)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ListByClientIDs(ctx context.Context, clientIDs []string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE client_id = ANY($1) ORDER BY scheduled_date ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(clientIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdateCaption(ctx context.Context, postID, caption string) error {
	query := `
		UPDATE posts
		SET caption = $1,
			status = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, caption, models.PostStatusPending, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, status string, postID string) error {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateStatusBatch(ctx context.Context, tx *sql.Tx, status string, postIDs []string) (int64, error) {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = ANY($3)
	`
	args := []any{status, time.Now(), pq.Array(postIDs)}

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.ExecContext(ctx, query, args...)
	} else {
		result, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return affected, nil
}

// PublishDue runs the stored procedure that moves approved posts whose
// scheduled time has passed to published. It is idempotent.
func (r *postRepository) PublishDue(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `SELECT update_scheduled_posts_to_published()`)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) CountScheduledBetween(ctx context.Context, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT client_id, COUNT(*)
		FROM posts
		WHERE scheduled_date >= $1 AND scheduled_date < $2
		GROUP BY client_id
	`
	rows, err := r.db.QueryContext(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var clientID string
		var n int
		if err := rows.Scan(&clientID, &n); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		counts[clientID] = n
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return counts, nil
}

func (r *postRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
