package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/storage"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	ExpiresAt string `json:"expiresAt"`
}

// UploadRequest asks for a presigned upload URL.
type UploadRequest struct {
	ContentType string `json:"contentType" validate:"required"`
}

// ConfirmUploadInput records an object the client finished uploading.
type ConfirmUploadInput struct {
	ObjectKey   string `json:"objectKey" validate:"required"`
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	Size        int64  `json:"size" validate:"min=0"`
}

// MediaView is a media record with a temporary download URL.
type MediaView struct {
	domain.ExerciseMedia
	DownloadURL string `json:"downloadUrl"`
}

// MediaService handles demonstration media attached to exercises.
type MediaService interface {
	RequestUploadURL(ctx context.Context, exerciseID primitive.ObjectID, req UploadRequest) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, uploader string, exerciseID primitive.ObjectID, in ConfirmUploadInput) (*domain.ExerciseMedia, error)
	ListMedia(ctx context.Context, exerciseID primitive.ObjectID) ([]MediaView, error)
	DeleteMedia(ctx context.Context, mediaID primitive.ObjectID) error
}

type mediaService struct {
	mediaRepo    repository.MediaRepository
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewMediaService creates a media service. A nil fileStorage disables every
// operation with ErrStorageDisabled.
func NewMediaService(mediaRepo repository.MediaRepository, exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) MediaService {
	return &mediaService{
		mediaRepo:    mediaRepo,
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

func mediaContentType(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(ct, "video/") && !strings.HasPrefix(ct, "image/") {
		return "", invalidField("contentType", "must be a video/* or image/* type")
	}
	return ct, nil
}

func (s *mediaService) exerciseExists(ctx context.Context, exerciseID primitive.ObjectID) error {
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Exercise", "id", exerciseID.Hex())
		}
		return err
	}
	return nil
}

// RequestUploadURL generates a presigned URL for uploading media of an exercise.
func (s *mediaService) RequestUploadURL(ctx context.Context, exerciseID primitive.ObjectID, req UploadRequest) (*UploadURLResponse, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	contentType, err := mediaContentType(req.ContentType)
	if err != nil {
		return nil, err
	}
	if err := s.exerciseExists(ctx, exerciseID); err != nil {
		return nil, err
	}

	objectKey := storage.NewMediaKey(exerciseID.Hex(), contentType)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate upload url: %w", err)
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().UTC().Add(storage.DefaultPresignedURLExpiry).Format(time.RFC3339),
	}, nil
}

// ConfirmUpload stores the metadata of an object uploaded with a presigned URL.
func (s *mediaService) ConfirmUpload(ctx context.Context, uploader string, exerciseID primitive.ObjectID, in ConfirmUploadInput) (*domain.ExerciseMedia, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	contentType, err := mediaContentType(in.ContentType)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(in.ObjectKey, storage.MediaPrefix(exerciseID.Hex())) {
		return nil, invalidField("objectKey", "does not belong to this exercise")
	}
	if err := s.exerciseExists(ctx, exerciseID); err != nil {
		return nil, err
	}

	media := &domain.ExerciseMedia{
		ExerciseID:  exerciseID,
		UploadedBy:  uploader,
		S3ObjectKey: in.ObjectKey,
		FileName:    in.FileName,
		ContentType: contentType,
		Size:        in.Size,
	}
	id, err := s.mediaRepo.Create(ctx, media)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, &ConflictError{Field: "objectKey", Message: "Upload already confirmed"}
		}
		return nil, err
	}
	media.ID = id
	return media, nil
}

// ListMedia returns the media of an exercise, each with a download URL.
func (s *mediaService) ListMedia(ctx context.Context, exerciseID primitive.ObjectID) ([]MediaView, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	if err := s.exerciseExists(ctx, exerciseID); err != nil {
		return nil, err
	}
	items, err := s.mediaRepo.GetByExerciseID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	views := make([]MediaView, 0, len(items))
	for _, m := range items {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, m.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("generate download url: %w", err)
		}
		views = append(views, MediaView{ExerciseMedia: m, DownloadURL: url})
	}
	return views, nil
}

// DeleteMedia removes the stored object and then its metadata.
func (s *mediaService) DeleteMedia(ctx context.Context, mediaID primitive.ObjectID) error {
	if s.fileStorage == nil {
		return ErrStorageDisabled
	}
	media, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("ExerciseMedia", "id", mediaID.Hex())
		}
		return err
	}
	if err := s.fileStorage.DeleteObject(ctx, media.S3ObjectKey); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	if err := s.mediaRepo.Delete(ctx, mediaID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("media_id", mediaID.Hex()).Msg("Object deleted but metadata removal failed")
		return err
	}
	return nil
}
