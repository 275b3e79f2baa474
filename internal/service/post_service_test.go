package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	calls int
	err   error
}

func (s *stubUploader) Upload(ctx context.Context, file []byte) (*UploadResult, error) {
	res, err := s.UploadAll(ctx, [][]byte{file}, nil)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (s *stubUploader) UploadAll(ctx context.Context, files [][]byte, onProgress ProgressFunc) ([]*UploadResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*UploadResult, len(files))
	for i := range files {
		out[i] = &UploadResult{URL: "https://cdn/" + string(rune('a'+i)) + ".jpg", ResourceType: ResourceImage}
	}
	return out, nil
}

type postFixture struct {
	tx       *fakeTransactor
	clients  *MockClientRepository
	posts    *MockPostRepository
	images   *MockPostImageRepository
	requests *MockChangeRequestRepository
	uploader *stubUploader
	service  PostService
}

func newPostFixture() *postFixture {
	f := &postFixture{
		tx:       &fakeTransactor{},
		clients:  new(MockClientRepository),
		posts:    new(MockPostRepository),
		images:   new(MockPostImageRepository),
		requests: new(MockChangeRequestRepository),
		uploader: &stubUploader{},
	}
	f.service = NewPostService(f.tx, f.clients, f.posts, f.images, f.requests, f.uploader)
	f.clients.On("GetByID", mock.Anything, "id-A").Return(&models.Client{ID: "id-A", Name: "A"}, nil)
	f.clients.On("GetByID", mock.Anything, "id-B").Return(&models.Client{ID: "id-B", Name: "B"}, nil)
	f.clients.On("GetByID", mock.Anything, "id-ghost").Return(nil, nil)
	return f
}

func carousel() *transfer.PostCreation {
	return &transfer.PostCreation{
		ClientIDs:        `["id-A","id-B"]`,
		PostType:         models.PostTypeCarousel,
		Caption:          "Summer sale",
		CaptionOverrides: `{"id-B":"Summer sale, Beta edition"}`,
		ScheduledTime:    "2999-06-01T18:00",
		CropFormat:       models.CropSquare,
	}
}

func TestCreatePost_OneRowPerClientSharingMedia(t *testing.T) {
	f := newPostFixture()
	var created []*models.Post
	var saved []*models.PostImage
	f.posts.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		created = append(created, args.Get(2).(*models.Post))
	})
	f.images.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(2).(*models.PostImage))
	})

	ids, delay, err := f.service.CreatePost(context.Background(), carousel(), [][]byte{pngBytes, jpegBytes}, nil)

	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.True(t, delay > 0)
	assert.Equal(t, 1, f.uploader.calls)
	assert.Equal(t, 1, f.tx.calls)

	require.Len(t, created, 2)
	assert.Equal(t, "Summer sale", created[0].Caption)
	assert.Equal(t, "Summer sale, Beta edition", created[1].Caption)
	for _, p := range created {
		assert.Equal(t, models.PostStatusPending, p.Status)
		assert.Equal(t, time.Date(2999, 6, 1, 18, 0, 0, 0, time.UTC), p.ScheduledDate)
	}

	require.Len(t, saved, 4)
	assert.Equal(t, saved[0].ImageURL, saved[2].ImageURL)
	assert.Equal(t, 0, saved[0].Position)
	assert.Equal(t, 1, saved[1].Position)
	assert.Equal(t, models.CropSquare, saved[3].CropFormat)

	// both rows land in the same review group
	created[0].Images = []models.PostImage{*saved[0], *saved[1]}
	created[1].Images = []models.PostImage{*saved[2], *saved[3]}
	groups := GroupPosts(created, testClients("A", "B"))
	assert.Len(t, groups, 1)
}

func TestCreatePost_RepeatedClientIDsCreateOneRow(t *testing.T) {
	f := newPostFixture()
	f.posts.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.images.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	pc := carousel()
	pc.ClientIDs = `["id-A","id-A","","id-B","id-A"]`
	ids, _, err := f.service.CreatePost(context.Background(), pc, [][]byte{pngBytes}, nil)

	require.NoError(t, err)
	assert.Len(t, ids, 2)
	f.posts.AssertNumberOfCalls(t, "Create", 2)
	f.images.AssertNumberOfCalls(t, "Create", 2)
	f.clients.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestCreatePost_PastScheduleHasNoDelay(t *testing.T) {
	f := newPostFixture()
	f.posts.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.images.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	pc := carousel()
	pc.ScheduledTime = "2020-01-01T10:00:00Z"
	_, delay, err := f.service.CreatePost(context.Background(), pc, [][]byte{pngBytes}, nil)

	require.NoError(t, err)
	assert.Zero(t, delay)
}

func TestCreatePost_Validation(t *testing.T) {
	cases := map[string]func(pc *transfer.PostCreation){
		"post type":      func(pc *transfer.PostCreation) { pc.PostType = "tweet" },
		"crop format":    func(pc *transfer.PostCreation) { pc.CropFormat = "21:9" },
		"schedule":       func(pc *transfer.PostCreation) { pc.ScheduledTime = "tomorrow" },
		"client ids":     func(pc *transfer.PostCreation) { pc.ClientIDs = "id-A" },
		"no clients":     func(pc *transfer.PostCreation) { pc.ClientIDs = "[]" },
		"blank clients":  func(pc *transfer.PostCreation) { pc.ClientIDs = `["",""]` },
		"overrides":      func(pc *transfer.PostCreation) { pc.CaptionOverrides = "[1]" },
		"unknown client": func(pc *transfer.PostCreation) { pc.ClientIDs = `["id-A","id-ghost"]` },
		"single file":    func(pc *transfer.PostCreation) { pc.PostType = models.PostTypeFeed },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newPostFixture()
			pc := carousel()
			mutate(pc)

			_, _, err := f.service.CreatePost(context.Background(), pc, [][]byte{pngBytes, jpegBytes}, nil)

			assert.Error(t, err)
			assert.Zero(t, f.uploader.calls)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestCreatePost_NoFiles(t *testing.T) {
	f := newPostFixture()

	_, _, err := f.service.CreatePost(context.Background(), carousel(), nil, nil)

	assert.Error(t, err)
	assert.Zero(t, f.uploader.calls)
}

func TestCreatePost_UploadFailureCreatesNothing(t *testing.T) {
	f := newPostFixture()
	f.uploader.err = &UploadError{StatusCode: 500, StatusText: "Internal Server Error", Err: errors.New("boom")}

	_, _, err := f.service.CreatePost(context.Background(), carousel(), [][]byte{pngBytes}, nil)

	var upErr *UploadError
	assert.ErrorAs(t, err, &upErr)
	assert.Zero(t, f.tx.calls)
	f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePost_RowFailureAbortsUnitOfWork(t *testing.T) {
	f := newPostFixture()
	f.posts.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("duplicate key"))

	ids, _, err := f.service.CreatePost(context.Background(), carousel(), [][]byte{pngBytes}, nil)

	assert.Error(t, err)
	assert.Nil(t, ids)
	f.posts.AssertNumberOfCalls(t, "Create", 1)
	f.images.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateCaption(t *testing.T) {
	f := newPostFixture()
	f.posts.On("GetByID", mock.Anything, "p1").Return(&models.Post{ID: "p1"}, nil)
	f.posts.On("GetByID", mock.Anything, "missing").Return(nil, nil)
	f.posts.On("UpdateCaption", mock.Anything, "p1", "fixed typo").Return(nil)

	require.NoError(t, f.service.UpdateCaption(context.Background(), "p1", "fixed typo"))
	assert.ErrorIs(t, f.service.UpdateCaption(context.Background(), "missing", "x"), ErrPostNotFound)
	assert.Error(t, f.service.UpdateCaption(context.Background(), "", "x"))
	f.posts.AssertNumberOfCalls(t, "UpdateCaption", 1)
}

func TestRemovePost(t *testing.T) {
	f := newPostFixture()
	f.posts.On("GetByID", mock.Anything, "p1").Return(&models.Post{ID: "p1"}, nil)
	f.posts.On("Remove", mock.Anything, "p1").Return(nil)

	require.NoError(t, f.service.Remove(context.Background(), "p1"))
	f.posts.AssertExpectations(t)
}

func TestListPosts(t *testing.T) {
	f := newPostFixture()
	f.posts.On("ListByClientIDs", mock.Anything, []string{"id-A"}).Return([]*models.Post{{ID: "p1"}, {ID: "p2"}}, nil)
	f.images.On("ListByPostIDs", mock.Anything, []string{"p1", "p2"}).Return([]*models.PostImage{
		{PostID: "p1", Position: 1, ImageURL: "https://x/second.jpg"},
		{PostID: "p1", Position: 0, ImageURL: "https://x/first.jpg"},
	}, nil)
	f.requests.On("ListByPostIDs", mock.Anything, []string{"p1", "p2"}).Return([]*models.ChangeRequest{
		{PostID: "p1", RequestType: models.ChangeTypeCaption, Message: "typo"},
	}, nil)

	posts, err := f.service.List(context.Background(), "id-A")

	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Len(t, posts[0].Images, 2)
	assert.Equal(t, "https://x/first.jpg", posts[0].Images[0].ImageURL)
	assert.Equal(t, "typo", posts[0].ActiveChangeRequest().Message)
	assert.NotNil(t, posts[1].Images)
	assert.Empty(t, posts[1].Images)
	assert.NotNil(t, posts[1].ChangeRequests)

	_, err = f.service.List(context.Background(), "")
	assert.Error(t, err)
}

func TestListPosts_EmptyClient(t *testing.T) {
	f := newPostFixture()
	f.posts.On("ListByClientIDs", mock.Anything, []string{"id-B"}).Return(nil, nil)

	posts, err := f.service.List(context.Background(), "id-B")

	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	f.images.AssertNotCalled(t, "ListByPostIDs", mock.Anything, mock.Anything)
}

func TestListPosts_ChildLoadFailure(t *testing.T) {
	f := newPostFixture()
	f.posts.On("ListByClientIDs", mock.Anything, []string{"id-A"}).Return([]*models.Post{{ID: "p1"}}, nil)
	f.images.On("ListByPostIDs", mock.Anything, []string{"p1"}).Return(nil, errors.New("connection reset"))

	posts, err := f.service.List(context.Background(), "id-A")

	assert.Error(t, err)
	assert.Nil(t, posts)
}
