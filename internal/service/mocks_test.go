package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) GetByLinkID(ctx context.Context, linkID string) (*models.Client, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) ListByNames(ctx context.Context, names []string) ([]*models.Client, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context, includeHidden bool) ([]*models.Client, error) {
	args := m.Called(ctx, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, tx *sql.Tx, client *models.Client) error {
	return m.Called(ctx, tx, client).Error(0)
}

func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) Remove(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	return m.Called(ctx, tx, post).Error(0)
}

func (m *MockPostRepository) ListByClientIDs(ctx context.Context, clientIDs []string) ([]*models.Post, error) {
	args := m.Called(ctx, clientIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateCaption(ctx context.Context, postID, caption string) error {
	return m.Called(ctx, postID, caption).Error(0)
}

func (m *MockPostRepository) UpdateStatus(ctx context.Context, status string, postID string) error {
	return m.Called(ctx, status, postID).Error(0)
}

func (m *MockPostRepository) UpdateStatusBatch(ctx context.Context, tx *sql.Tx, status string, postIDs []string) (int64, error) {
	args := m.Called(ctx, tx, status, postIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) PublishDue(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPostRepository) CountScheduledBetween(ctx context.Context, from, to time.Time) (map[string]int, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockPostRepository) Remove(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockPostImageRepository struct {
	mock.Mock
}

func (m *MockPostImageRepository) Create(ctx context.Context, tx *sql.Tx, img *models.PostImage) error {
	return m.Called(ctx, tx, img).Error(0)
}

func (m *MockPostImageRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.PostImage, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PostImage), args.Error(1)
}

type MockChangeRequestRepository struct {
	mock.Mock
}

func (m *MockChangeRequestRepository) CreateBatch(ctx context.Context, tx *sql.Tx, requests []*models.ChangeRequest) error {
	return m.Called(ctx, tx, requests).Error(0)
}

func (m *MockChangeRequestRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.ChangeRequest, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChangeRequest), args.Error(1)
}

// fakeTransactor runs the unit of work without a transaction; repositories
// under test receive a nil tx.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	f.calls++
	return fn(nil)
}

var (
	_ repository.ClientRepository        = (*MockClientRepository)(nil)
	_ repository.PostRepository          = (*MockPostRepository)(nil)
	_ repository.PostImageRepository     = (*MockPostImageRepository)(nil)
	_ repository.ChangeRequestRepository = (*MockChangeRequestRepository)(nil)
	_ repository.Transactor              = (*fakeTransactor)(nil)
)
