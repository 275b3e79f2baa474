package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
	"github.com/maheshrc27/approval-api/pkg/utils"
)

const maxApiKeys = 5

var (
	ErrApiKeyNotFound = errors.New("key doesn't exist")
	ErrApiKeyLimit    = fmt.Errorf("only %d API keys can be created", maxApiKeys)
)

type ApiKeyService interface {
	Create(ctx context.Context, userID int64) (*models.ApiKey, error)
	List(ctx context.Context, userID int64) ([]*models.ApiKey, error)
	GetUserID(ctx context.Context, apiKey string) (int64, error)
	RemoveAPIKey(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64) (*models.ApiKey, error) {
	keys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(keys) >= maxApiKeys {
		slog.Info(ErrApiKeyLimit.Error(), "user", userID)
		return nil, ErrApiKeyLimit
	}

	key, err := utils.GenerateRandomKey(24)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("Error generating API key")
	}

	apiKey := &models.ApiKey{
		UserID: userID,
		ApiKey: key,
	}

	apiKey.ID, err = s.k.Create(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("Error saving API key")
	}
	return apiKey, nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (int64, error) {
	userID, isExist, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return 0, err
	}

	if !isExist {
		return 0, ErrApiKeyNotFound
	}

	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting API keys")
	}
	if apiKeys == nil {
		apiKeys = []*models.ApiKey{}
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID, keyID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return err
	}

	if keyID == 0 {
		err = errors.New("KeyID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		slog.Info(ErrApiKeyNotFound.Error())
		return ErrApiKeyNotFound
	}

	return s.k.Remove(ctx, keyID)
}
