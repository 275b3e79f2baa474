package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	config "github.com/maheshrc27/approval-api/configs"
	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type AuthService interface {
	LoginURL(state string) string
	LoginCallback(ctx context.Context, code string) (int64, error)
}

type userInfoFunc func(ctx context.Context, client *http.Client) (*oauth2api.Userinfo, error)

type authService struct {
	oc       *oauth2.Config
	u        repository.UserRepository
	userInfo userInfoFunc
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		oc: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
		u:        u,
		userInfo: fetchGoogleUserInfo,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.oc.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// LoginCallback exchanges the Google code and returns the operator's user id,
// creating the user on first login.
func (s *authService) LoginCallback(ctx context.Context, code string) (int64, error) {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return 0, err
	}

	if s.oc.ClientID == "" || s.oc.ClientSecret == "" || s.oc.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return 0, err
	}

	token, err := s.oc.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	info, err := s.userInfo(ctx, s.oc.Client(ctx, token))
	if err != nil {
		return 0, err
	}

	return s.upsert(ctx, info)
}

func (s *authService) upsert(ctx context.Context, info *oauth2api.Userinfo) (int64, error) {
	if info.Email == "" {
		err := errors.New("google account has no email")
		slog.Info(err.Error())
		return 0, err
	}

	user, isExist, err := s.u.GetByEmail(ctx, info.Email)
	if err != nil {
		return 0, err
	}

	if !isExist {
		userID, err := s.u.Create(ctx, nil, &models.User{
			GoogleID:       info.Id,
			Email:          info.Email,
			Name:           info.Name,
			ProfilePicture: info.Picture,
		})
		if err != nil {
			return 0, fmt.Errorf("error creating user: %w", err)
		}
		return userID, nil
	}

	if user.GoogleID == "" {
		user.GoogleID = info.Id
		user.Name = info.Name
		user.ProfilePicture = info.Picture
		if err := s.u.Update(ctx, user); err != nil {
			return 0, fmt.Errorf("error updating user: %w", err)
		}
	}
	return user.ID, nil
}

func fetchGoogleUserInfo(ctx context.Context, client *http.Client) (*oauth2api.Userinfo, error) {
	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error getting user info: %w", err)
	}
	return info, nil
}
