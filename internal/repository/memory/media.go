package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mediaRepository struct {
	mu    sync.RWMutex
	media map[primitive.ObjectID]domain.ExerciseMedia
}

// NewMediaRepository constructs an empty in-memory MediaRepository.
func NewMediaRepository() repository.MediaRepository {
	return &mediaRepository{media: make(map[primitive.ObjectID]domain.ExerciseMedia)}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.ExerciseMedia) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.media {
		if existing.S3ObjectKey == media.S3ObjectKey {
			return primitive.NilObjectID, &repository.DuplicateKeyError{Field: "s3ObjectKey"}
		}
	}
	media.ID = primitive.NewObjectID()
	media.UploadedAt = time.Now().UTC()
	r.media[media.ID] = *media
	return media.ID, nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseMedia, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.media[id]; ok {
		return &m, nil
	}
	return nil, repository.ErrNotFound
}

func (r *mediaRepository) GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExerciseMedia, error) {
	r.mu.RLock()
	out := []domain.ExerciseMedia{}
	for _, m := range r.media {
		if m.ExerciseID == exerciseID {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.ExerciseMedia) int {
		if c := a.UploadedAt.Compare(b.UploadedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.Hex(), b.ID.Hex())
	})
	return out, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.media[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.media, id)
	return nil
}
