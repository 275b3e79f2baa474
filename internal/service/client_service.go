package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
	"github.com/maheshrc27/approval-api/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	linkAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	linkLength   = 12
)

type ClientService interface {
	Create(ctx context.Context, in *transfer.ClientInput) (*models.Client, error)
	Get(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, includeHidden bool) ([]*models.Client, error)
	Update(ctx context.Context, id string, in *transfer.ClientInput) (*models.Client, error)
	Remove(ctx context.Context, id string) error
	SetGroupMembers(ctx context.Context, id string, names []string) (*models.Client, error)
}

type clientService struct {
	cr repository.ClientRepository
}

func NewClientService(cr repository.ClientRepository) ClientService {
	return &clientService{cr: cr}
}

func (s *clientService) Create(ctx context.Context, in *transfer.ClientInput) (*models.Client, error) {
	if in == nil || strings.TrimSpace(in.Name) == "" {
		err := errors.New("client name is required")
		slog.Info(err.Error())
		return nil, err
	}

	linkID, err := gonanoid.Generate(linkAlphabet, linkLength)
	if err != nil {
		slog.Error(err.Error())
		return nil, fmt.Errorf("error generating share link: %w", err)
	}

	client := &models.Client{
		ID:           uuid.NewString(),
		UniqueLinkID: linkID,
	}
	apply(client, in)

	if err := s.cr.Create(ctx, nil, client); err != nil {
		return nil, fmt.Errorf("error creating client: %w", err)
	}
	return client, nil
}

func (s *clientService) Get(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.cr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, includeHidden bool) ([]*models.Client, error) {
	clients, err := s.cr.List(ctx, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("Error getting clients")
	}
	if clients == nil {
		clients = []*models.Client{}
	}
	return clients, nil
}

func (s *clientService) Update(ctx context.Context, id string, in *transfer.ClientInput) (*models.Client, error) {
	if in == nil || strings.TrimSpace(in.Name) == "" {
		err := errors.New("client name is required")
		slog.Info(err.Error())
		return nil, err
	}

	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(client, in)

	if err := s.cr.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("error updating client: %w", err)
	}
	return client, nil
}

func (s *clientService) Remove(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.cr.Remove(ctx, id)
}

// SetGroupMembers turns the client into a virtual group over the named
// clients. An empty list clears the marker.
func (s *clientService) SetGroupMembers(ctx context.Context, id string, names []string) (*models.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		if strings.Contains(name, ",") {
			return nil, fmt.Errorf("client name %q cannot be a group member", name)
		}
	}

	client.MetaCalendarURL = ""
	if members := models.GroupMarkerValue(names); members != models.GroupMarker {
		client.MetaCalendarURL = members
	}

	if err := s.cr.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("error updating client: %w", err)
	}
	return client, nil
}

func apply(c *models.Client, in *transfer.ClientInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.DisplayName = in.DisplayName
	c.Color = in.Color
	c.AvatarURL = in.AvatarURL
	c.WeeklyPostQuota = in.WeeklyPostQuota
	c.IsHidden = in.IsHidden
	c.InstagramURL = in.InstagramURL
	c.MetaCalendarURL = in.MetaCalendarURL
}
