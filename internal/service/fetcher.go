package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
)

// PostFetcher loads every post visible through a client's share link,
// expanding virtual groups into their member clients.
type PostFetcher interface {
	ResolveLink(ctx context.Context, linkID string) (*models.Client, error)
	FetchPosts(ctx context.Context, owner *models.Client) ([]*models.Post, map[string]*models.Client, error)
}

type postFetcher struct {
	cr repository.ClientRepository
	pr repository.PostRepository
	ir repository.PostImageRepository
	rr repository.ChangeRequestRepository
}

func NewPostFetcher(
	cr repository.ClientRepository,
	pr repository.PostRepository,
	ir repository.PostImageRepository,
	rr repository.ChangeRequestRepository) PostFetcher {
	return &postFetcher{
		cr: cr,
		pr: pr,
		ir: ir,
		rr: rr,
	}
}

func (f *postFetcher) ResolveLink(ctx context.Context, linkID string) (*models.Client, error) {
	if linkID == "" {
		return nil, ErrClientNotFound
	}

	client, err := f.cr.GetByLinkID(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if client == nil {
		slog.Info("unknown share link", "link", linkID)
		return nil, ErrClientNotFound
	}
	return client, nil
}

// FetchPosts returns the owner's posts ordered by scheduled date together with
// the clients they belong to. Scheduled posts are matured first so statuses
// are current. A virtual group whose members cannot be resolved yields no
// posts rather than an error.
func (f *postFetcher) FetchPosts(ctx context.Context, owner *models.Client) ([]*models.Post, map[string]*models.Client, error) {
	if err := f.pr.PublishDue(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: publish due posts: %w", ErrLoadFailed, err)
	}

	clients, err := f.scope(ctx, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: resolve clients: %w", ErrLoadFailed, err)
	}
	if len(clients) == 0 {
		return []*models.Post{}, clients, nil
	}

	clientIDs := make([]string, 0, len(clients))
	for id := range clients {
		clientIDs = append(clientIDs, id)
	}
	sort.Strings(clientIDs)

	posts, err := f.pr.ListByClientIDs(ctx, clientIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: list posts: %w", ErrLoadFailed, err)
	}
	if len(posts) == 0 {
		return []*models.Post{}, clients, nil
	}

	if err := attachChildren(ctx, f.ir, f.rr, posts); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	sort.SliceStable(posts, func(i, j int) bool { return posts[i].ScheduledDate.Before(posts[j].ScheduledDate) })
	return posts, clients, nil
}

func (f *postFetcher) scope(ctx context.Context, owner *models.Client) (map[string]*models.Client, error) {
	clients := make(map[string]*models.Client)

	names, isGroup := owner.GroupMembers()
	if !isGroup {
		clients[owner.ID] = owner
		return clients, nil
	}
	if len(names) == 0 {
		return clients, nil
	}

	members, err := f.cr.ListByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(members) < len(names) {
		slog.Info("virtual group has unresolved members", "client", owner.Name, "listed", len(names), "resolved", len(members))
	}
	for _, m := range members {
		clients[m.ID] = m
	}
	return clients, nil
}

// attachChildren loads images and change requests for posts in two queries.
// Posts without children get empty slices, never nil.
func attachChildren(ctx context.Context, ir repository.PostImageRepository, rr repository.ChangeRequestRepository, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	byID := make(map[string]*models.Post, len(posts))
	for _, p := range posts {
		p.Images = []models.PostImage{}
		p.ChangeRequests = []models.ChangeRequest{}
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	images, err := ir.ListByPostIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}
	for _, img := range images {
		if p, ok := byID[img.PostID]; ok {
			p.Images = append(p.Images, *img)
		}
	}

	requests, err := rr.ListByPostIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list change requests: %w", err)
	}
	for _, cr := range requests {
		if p, ok := byID[cr.PostID]; ok {
			p.ChangeRequests = append(p.ChangeRequests, *cr)
		}
	}

	for _, p := range posts {
		sort.SliceStable(p.Images, func(i, j int) bool { return p.Images[i].Position < p.Images[j].Position })
	}
	return nil
}
