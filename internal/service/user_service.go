package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
)

var ErrUserNotFound = errors.New("user doesn't exist")

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	RemoveUser(ctx context.Context, userID int64) error
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Error getting user info")
	}

	if !isExist {
		slog.Info("operator not found", "user", id)
		return nil, ErrUserNotFound
	}

	return user, nil
}

func (s *userService) RemoveUser(ctx context.Context, userID int64) error {
	if _, err := s.GetUserInfo(ctx, userID); err != nil {
		return err
	}
	return s.u.Remove(ctx, userID)
}
