package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/approval-api/internal/models"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByLinkID(ctx context.Context, linkID string) (*models.Client, error)
	ListByNames(ctx context.Context, names []string) ([]*models.Client, error)
	List(ctx context.Context, includeHidden bool) ([]*models.Client, error)
	Create(ctx context.Context, tx *sql.Tx, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Remove(ctx context.Context, id string) error
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, COALESCE(display_name, ''), unique_link_id, COALESCE(color, ''),
	COALESCE(avatar_url, ''), weekly_post_quota, is_hidden, COALESCE(instagram_url, ''),
	COALESCE(meta_calendar_url, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	var c models.Client
	var quota sql.NullInt64
	err := row.Scan(&c.ID, &c.Name, &c.DisplayName, &c.UniqueLinkID, &c.Color, &c.AvatarURL,
		&quota, &c.IsHidden, &c.InstagramURL, &c.MetaCalendarURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if quota.Valid {
		q := int(quota.Int64)
		c.WeeklyPostQuota = &q
	}
	return &c, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return client, nil
}

func (r *clientRepository) GetByLinkID(ctx context.Context, linkID string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE unique_link_id = $1`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, linkID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return client, nil
}

func (r *clientRepository) ListByNames(ctx context.Context, names []string) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE name = ANY($1) ORDER BY name`
	return r.list(ctx, query, pq.Array(names))
}

func (r *clientRepository) List(ctx context.Context, includeHidden bool) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE ($1 OR NOT is_hidden) ORDER BY name`
	return r.list(ctx, query, includeHidden)
}

func (r *clientRepository) list(ctx context.Context, query string, args ...any) ([]*models.Client, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Create(ctx context.Context, tx *sql.Tx, c *models.Client) error {
	query := `
		INSERT INTO clients (id, name, display_name, unique_link_id, color, avatar_url,
			weekly_post_quota, is_hidden, instagram_url, meta_calendar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	args := []any{c.ID, c.Name, nullString(c.DisplayName), c.UniqueLinkID, c.Color, nullString(c.AvatarURL),
		c.WeeklyPostQuota, c.IsHidden, nullString(c.InstagramURL), nullString(c.MetaCalendarURL)}

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *clientRepository) Update(ctx context.Context, c *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1,
			display_name = $2,
			color = $3,
			avatar_url = $4,
			weekly_post_quota = $5,
			is_hidden = $6,
			instagram_url = $7,
			meta_calendar_url = $8,
			updated_at = $9
		WHERE id = $10
	`
	_, err := r.db.ExecContext(ctx, query, c.Name, nullString(c.DisplayName), c.Color, nullString(c.AvatarURL),
		c.WeeklyPostQuota, c.IsHidden, nullString(c.InstagramURL), nullString(c.MetaCalendarURL), time.Now(), c.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *clientRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM clients WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
