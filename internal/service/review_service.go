package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
	"github.com/maheshrc27/approval-api/internal/transfer"
)

// ReviewService backs the client-facing share link: it builds the review
// board and applies reviewer actions to every post row behind a group. Every
// action ends with a fresh fetch so callers always see the stored state.
type ReviewService interface {
	Board(ctx context.Context, linkID string) (*ReviewBoard, error)
	ApproveGroup(ctx context.Context, linkID, groupKey string) (*ReviewBoard, error)
	RequestChange(ctx context.Context, linkID string, in *transfer.ChangeRequestInput) (*ReviewBoard, error)
	ApprovePost(ctx context.Context, linkID, postID string) (*ReviewBoard, error)
}

type reviewService struct {
	tx repository.Transactor
	f  PostFetcher
	pr repository.PostRepository
	rr repository.ChangeRequestRepository
}

func NewReviewService(
	tx repository.Transactor,
	f PostFetcher,
	pr repository.PostRepository,
	rr repository.ChangeRequestRepository) ReviewService {
	return &reviewService{
		tx: tx,
		f:  f,
		pr: pr,
		rr: rr,
	}
}

func (s *reviewService) Board(ctx context.Context, linkID string) (*ReviewBoard, error) {
	owner, err := s.f.ResolveLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	return s.board(ctx, owner)
}

func (s *reviewService) board(ctx context.Context, owner *models.Client) (*ReviewBoard, error) {
	posts, clients, err := s.f.FetchPosts(ctx, owner)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	return BuildBoard(owner, posts, clients), nil
}

func (s *reviewService) ApproveGroup(ctx context.Context, linkID, groupKey string) (*ReviewBoard, error) {
	owner, group, err := s.findGroup(ctx, linkID, groupKey)
	if err != nil {
		return nil, err
	}

	ids := group.PostIDs()
	if _, err := s.pr.UpdateStatusBatch(ctx, nil, models.PostStatusApproved, ids); err != nil {
		slog.Error("approve group failed", "group", groupKey, "posts", len(ids), "error", err)
		return nil, fmt.Errorf("error approving posts: %w", err)
	}

	return s.board(ctx, owner)
}

// RequestChange records one change request per post in the group and flags
// the posts as change_requested, both in the same transaction.
func (s *reviewService) RequestChange(ctx context.Context, linkID string, in *transfer.ChangeRequestInput) (*ReviewBoard, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidChangeRequest)
	}
	message := strings.TrimSpace(in.Message)
	if !models.ValidChangeType(in.RequestType) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidChangeRequest, in.RequestType)
	}
	if message == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrInvalidChangeRequest)
	}

	owner, group, err := s.findGroup(ctx, linkID, in.GroupKey)
	if err != nil {
		return nil, err
	}

	ids := group.PostIDs()
	requests := make([]*models.ChangeRequest, 0, len(ids))
	for _, id := range ids {
		requests = append(requests, &models.ChangeRequest{
			ID:          uuid.NewString(),
			PostID:      id,
			RequestType: in.RequestType,
			Message:     message,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.rr.CreateBatch(ctx, tx, requests); err != nil {
			return err
		}
		_, err := s.pr.UpdateStatusBatch(ctx, tx, models.PostStatusChangeRequested, ids)
		return err
	})
	if err != nil {
		slog.Error("change request failed", "group", in.GroupKey, "posts", len(ids), "error", err)
		return nil, fmt.Errorf("error requesting changes: %w", err)
	}

	return s.board(ctx, owner)
}

// ApprovePost approves a single post without touching the rest of its group.
func (s *reviewService) ApprovePost(ctx context.Context, linkID, postID string) (*ReviewBoard, error) {
	owner, err := s.f.ResolveLink(ctx, linkID)
	if err != nil {
		return nil, err
	}

	// checked against the raw rows: posts without images never reach a group
	posts, _, err := s.f.FetchPosts(ctx, owner)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	if !containsPost(posts, postID) {
		return nil, ErrPostNotFound
	}

	if err := s.pr.UpdateStatus(ctx, models.PostStatusApproved, postID); err != nil {
		slog.Error("approve post failed", "post", postID, "error", err)
		return nil, fmt.Errorf("error approving post: %w", err)
	}

	return s.board(ctx, owner)
}

func (s *reviewService) findGroup(ctx context.Context, linkID, groupKey string) (*models.Client, *GroupedPost, error) {
	owner, err := s.f.ResolveLink(ctx, linkID)
	if err != nil {
		return nil, nil, err
	}

	board, err := s.board(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	group := board.FindGroup(groupKey)
	if group == nil {
		return nil, nil, ErrGroupNotFound
	}
	return owner, group, nil
}

func containsPost(posts []*models.Post, id string) bool {
	for _, p := range posts {
		if p.ID == id {
			return true
		}
	}
	return false
}
