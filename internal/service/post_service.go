package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
	"github.com/maheshrc27/approval-api/internal/transfer"
)

type PostService interface {
	CreatePost(ctx context.Context, pc *transfer.PostCreation, files [][]byte, onProgress ProgressFunc) ([]string, time.Duration, error)
	List(ctx context.Context, clientID string) ([]*models.Post, error)
	UpdateCaption(ctx context.Context, postID, caption string) error
	Remove(ctx context.Context, postID string) error
}

type postService struct {
	tx repository.Transactor
	cr repository.ClientRepository
	pr repository.PostRepository
	ir repository.PostImageRepository
	rr repository.ChangeRequestRepository
	up MediaUploader
}

func NewPostService(
	tx repository.Transactor,
	cr repository.ClientRepository,
	pr repository.PostRepository,
	ir repository.PostImageRepository,
	rr repository.ChangeRequestRepository,
	up MediaUploader) PostService {
	return &postService{
		tx: tx,
		cr: cr,
		pr: pr,
		ir: ir,
		rr: rr,
		up: up,
	}
}

var scheduleLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

func parseSchedule(value string) (time.Time, error) {
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid scheduled time format: %q", value)
}

// CreatePost uploads the media once and creates one post row per selected
// client, all pointing at the same image URLs so the review board shows them
// as one creative.
func (s *postService) CreatePost(ctx context.Context, pc *transfer.PostCreation, files [][]byte, onProgress ProgressFunc) ([]string, time.Duration, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return nil, 0, err
	}
	if !models.ValidPostType(pc.PostType) {
		err := fmt.Errorf("invalid post type %q", pc.PostType)
		slog.Info(err.Error())
		return nil, 0, err
	}
	cropFormat := pc.CropFormat
	if cropFormat == "" {
		cropFormat = models.CropPortrait
	}
	if !models.ValidCropFormat(cropFormat) {
		err := fmt.Errorf("invalid crop format %q", cropFormat)
		slog.Info(err.Error())
		return nil, 0, err
	}

	scheduledDate, err := parseSchedule(pc.ScheduledTime)
	if err != nil {
		slog.Error(err.Error())
		return nil, 0, err
	}

	var clientIDs []string
	if err := json.Unmarshal([]byte(pc.ClientIDs), &clientIDs); err != nil {
		err = fmt.Errorf("invalid client ids format: %w", err)
		slog.Error(err.Error())
		return nil, 0, err
	}
	clientIDs = uniqueIDs(clientIDs)
	if len(clientIDs) == 0 {
		err := errors.New("no clients selected")
		slog.Error(err.Error())
		return nil, 0, err
	}

	overrides := map[string]string{}
	if pc.CaptionOverrides != "" {
		if err := json.Unmarshal([]byte(pc.CaptionOverrides), &overrides); err != nil {
			err = fmt.Errorf("invalid caption overrides format: %w", err)
			slog.Error(err.Error())
			return nil, 0, err
		}
	}

	if len(files) == 0 {
		err := errors.New("no files provided for the post")
		slog.Error(err.Error())
		return nil, 0, err
	}
	if len(files) > 1 && pc.PostType != models.PostTypeCarousel {
		err := fmt.Errorf("post type %s takes a single file", pc.PostType)
		slog.Info(err.Error())
		return nil, 0, err
	}

	for _, id := range clientIDs {
		client, err := s.cr.GetByID(ctx, id)
		if err != nil {
			return nil, 0, fmt.Errorf("error checking client %s: %w", id, err)
		}
		if client == nil {
			return nil, 0, fmt.Errorf("client %s does not exist", id)
		}
	}

	uploads, err := s.up.UploadAll(ctx, files, onProgress)
	if err != nil {
		slog.Error(err.Error())
		return nil, 0, err
	}

	postIDs := make([]string, 0, len(clientIDs))
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		for _, clientID := range clientIDs {
			caption := pc.Caption
			if override, ok := overrides[clientID]; ok {
				caption = override
			}

			post := models.Post{
				ID:            uuid.NewString(),
				ClientID:      clientID,
				ScheduledDate: scheduledDate,
				PostType:      pc.PostType,
				Caption:       caption,
				Status:        models.PostStatusPending,
			}
			if err := s.pr.Create(ctx, tx, &post); err != nil {
				return fmt.Errorf("error creating post: %w", err)
			}

			for i, up := range uploads {
				img := models.PostImage{
					ID:         uuid.NewString(),
					PostID:     post.ID,
					Position:   i,
					ImageURL:   up.URL,
					CropFormat: cropFormat,
				}
				if err := s.ir.Create(ctx, tx, &img); err != nil {
					return fmt.Errorf("error saving media file: %w", err)
				}
			}
			postIDs = append(postIDs, post.ID)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	delay := time.Until(scheduledDate)
	if delay < 0 {
		delay = 0
	}

	return postIDs, delay, nil
}

func (s *postService) List(ctx context.Context, clientID string) ([]*models.Post, error) {
	if clientID == "" {
		err := errors.New("client id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	posts, err := s.pr.ListByClientIDs(ctx, []string{clientID})
	if err != nil {
		return nil, fmt.Errorf("Error getting posts")
	}
	if posts == nil {
		return []*models.Post{}, nil
	}
	if err := attachChildren(ctx, s.ir, s.rr, posts); err != nil {
		slog.Error(err.Error())
		return nil, fmt.Errorf("Error getting posts")
	}
	return posts, nil
}

// UpdateCaption edits the caption and sends the post back for review.
func (s *postService) UpdateCaption(ctx context.Context, postID, caption string) error {
	if _, err := s.existing(ctx, postID); err != nil {
		return err
	}
	if err := s.pr.UpdateCaption(ctx, postID, caption); err != nil {
		return fmt.Errorf("Error updating caption")
	}
	return nil
}

func (s *postService) Remove(ctx context.Context, postID string) error {
	if _, err := s.existing(ctx, postID); err != nil {
		return err
	}
	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("Error removing post")
	}
	return nil
}

func (s *postService) existing(ctx context.Context, postID string) (*models.Post, error) {
	if postID == "" {
		err := errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		slog.Info("post doesn't exist", "post", postID)
		return nil, ErrPostNotFound
	}
	return post, nil
}

// uniqueIDs drops blank and repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
