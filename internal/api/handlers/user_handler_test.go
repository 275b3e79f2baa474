package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) RemoveUser(ctx context.Context, userID int64) error {
	return m.Called(userID).Error(0)
}

// signedIn stands in for the auth middleware and stores the operator id the
// same way it does.
func signedIn(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

func userApp(s service.UserService, userID string) *fiber.App {
	h := NewUserHandler(s)
	app := fiber.New()
	api := app.Group("/api", signedIn(userID))
	api.Get("/user/info", h.GetUserInfo)
	api.Post("/user/remove", h.RemoveAccount)
	return app
}

func TestGetUserInfo(t *testing.T) {
	s := new(MockUserService)
	s.On("GetUserInfo", int64(7)).Return(&models.User{ID: 7, Email: "ops@agency.test", Name: "Ops", GoogleID: "g-7"}, nil)

	resp, err := userApp(s, "7").Test(httptest.NewRequest(http.MethodGet, "/api/user/info", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "ops@agency.test", out["email"])
	assert.Equal(t, float64(7), out["id"])
	assert.NotContains(t, out, "google_id")
}

func TestGetUserInfo_Errors(t *testing.T) {
	cases := []struct {
		name   string
		userID string
		err    error
		want   int
	}{
		{"not signed in", "", nil, http.StatusUnauthorized},
		{"deleted operator", "8", service.ErrUserNotFound, http.StatusNotFound},
		{"database down", "9", errors.New("Error getting user info"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := new(MockUserService)
			s.On("GetUserInfo", mock.Anything).Return(nil, tc.err)

			resp, err := userApp(s, tc.userID).Test(httptest.NewRequest(http.MethodGet, "/api/user/info", nil))

			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
			assert.NotEmpty(t, decode(t, resp)["error"])
			if tc.userID == "" {
				s.AssertNotCalled(t, "GetUserInfo", mock.Anything)
			}
		})
	}
}

func TestRemoveAccount(t *testing.T) {
	s := new(MockUserService)
	s.On("RemoveUser", int64(7)).Return(nil)
	s.On("RemoveUser", int64(8)).Return(service.ErrUserNotFound)

	resp, err := userApp(s, "7").Test(httptest.NewRequest(http.MethodPost, "/api/user/remove", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = userApp(s, "8").Test(httptest.NewRequest(http.MethodPost, "/api/user/remove", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = userApp(s, "").Test(httptest.NewRequest(http.MethodPost, "/api/user/remove", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	s.AssertNumberOfCalls(t, "RemoveUser", 2)
}
