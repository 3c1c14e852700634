package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockFileStorage is a mock implementation of storage.FileStorage.
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, contentType, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

func newMediaFixture(t *testing.T, files *MockFileStorage) (MediaService, *domain.Exercise) {
	t.Helper()
	exercises := memory.NewExerciseRepository()
	ex := &domain.Exercise{Name: "Deadlift"}
	_, err := exercises.Create(context.Background(), ex)
	require.NoError(t, err)
	if files == nil {
		return NewMediaService(memory.NewMediaRepository(), exercises, nil), ex
	}
	return NewMediaService(memory.NewMediaRepository(), exercises, files), ex
}

func TestMediaService_DisabledWithoutStorage(t *testing.T) {
	svc, ex := newMediaFixture(t, nil)
	ctx := context.Background()

	_, err := svc.RequestUploadURL(ctx, ex.ID, UploadRequest{ContentType: "video/mp4"})
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = svc.ListMedia(ctx, ex.ID)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, svc.DeleteMedia(ctx, primitive.NewObjectID()), ErrStorageDisabled)
}

func TestMediaService_UploadFlow(t *testing.T) {
	ctx := context.Background()
	files := new(MockFileStorage)
	svc, ex := newMediaFixture(t, files)

	prefix := "media/" + ex.ID.Hex() + "/"
	files.On("GeneratePresignedUploadURL", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, ".mp4")
	}), "video/mp4", mock.Anything).Return("https://s3.example/upload", nil)

	resp, err := svc.RequestUploadURL(ctx, ex.ID, UploadRequest{ContentType: "Video/MP4"})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example/upload", resp.UploadURL)

	media, err := svc.ConfirmUpload(ctx, "alice", ex.ID, ConfirmUploadInput{
		ObjectKey: resp.ObjectKey, FileName: "deadlift.mp4", ContentType: "video/mp4", Size: 1024,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", media.UploadedBy)

	_, err = svc.ConfirmUpload(ctx, "alice", ex.ID, ConfirmUploadInput{
		ObjectKey: resp.ObjectKey, FileName: "again.mp4", ContentType: "video/mp4",
	})
	assert.ErrorIs(t, err, ErrConflict)

	files.On("GeneratePresignedDownloadURL", mock.Anything, resp.ObjectKey, mock.Anything).Return("https://s3.example/get", nil)
	views, err := svc.ListMedia(ctx, ex.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "https://s3.example/get", views[0].DownloadURL)

	files.On("DeleteObject", mock.Anything, resp.ObjectKey).Return(nil)
	require.NoError(t, svc.DeleteMedia(ctx, media.ID))
	assert.ErrorIs(t, svc.DeleteMedia(ctx, media.ID), ErrNotFound)

	files.AssertExpectations(t)
}

func TestMediaService_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	files := new(MockFileStorage)
	svc, ex := newMediaFixture(t, files)

	_, err := svc.RequestUploadURL(ctx, ex.ID, UploadRequest{ContentType: "application/pdf"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RequestUploadURL(ctx, primitive.NewObjectID(), UploadRequest{ContentType: "image/png"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ConfirmUpload(ctx, "alice", ex.ID, ConfirmUploadInput{
		ObjectKey: "media/" + primitive.NewObjectID().Hex() + "/x.png", FileName: "x.png", ContentType: "image/png",
	})
	assert.ErrorIs(t, err, ErrValidation)

	files.AssertNotCalled(t, "GeneratePresignedUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaService_DeleteKeepsMetadataWhenObjectDeleteFails(t *testing.T) {
	ctx := context.Background()
	files := new(MockFileStorage)
	svc, ex := newMediaFixture(t, files)

	media, err := svc.ConfirmUpload(ctx, "bob", ex.ID, ConfirmUploadInput{
		ObjectKey: "media/" + ex.ID.Hex() + "/a.png", FileName: "a.png", ContentType: "image/png",
	})
	require.NoError(t, err)

	files.On("DeleteObject", mock.Anything, media.S3ObjectKey).Return(errors.New("boom"))
	assert.Error(t, svc.DeleteMedia(ctx, media.ID))

	files.On("GeneratePresignedDownloadURL", mock.Anything, media.S3ObjectKey, mock.Anything).Return("u", nil)
	views, err := svc.ListMedia(ctx, ex.ID)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}
