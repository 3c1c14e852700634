package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var exerciseSortKeys = sortKeys[domain.Exercise]{
	"name":            func(a, b *domain.Exercise) int { return cmp.Compare(a.Name, b.Name) },
	"reps":            func(a, b *domain.Exercise) int { return cmp.Compare(a.Reps, b.Reps) },
	"sets":            func(a, b *domain.Exercise) int { return cmp.Compare(a.Sets, b.Sets) },
	"weight":          func(a, b *domain.Exercise) int { return comparePtrFloat(a.Weight, b.Weight) },
	"equipment":       func(a, b *domain.Exercise) int { return cmp.Compare(a.Equipment, b.Equipment) },
	"difficultyLevel": func(a, b *domain.Exercise) int { return cmp.Compare(a.DifficultyLevel, b.DifficultyLevel) },
	"createdAt":       func(a, b *domain.Exercise) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

type exerciseRepository struct {
	mu        sync.RWMutex
	exercises map[primitive.ObjectID]domain.Exercise
}

// NewExerciseRepository constructs an empty in-memory ExerciseRepository.
func NewExerciseRepository() repository.ExerciseRepository {
	return &exerciseRepository{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

func cloneExercise(e domain.Exercise) domain.Exercise {
	e.MuscleGroups = slices.Clone(e.MuscleGroups)
	return e
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	r.exercises[exercise.ID] = cloneExercise(*exercise)
	return exercise.ID, nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.exercises[id]; ok {
		e = cloneExercise(e)
		return &e, nil
	}
	return nil, repository.ErrNotFound
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	exercise.CreatedAt = existing.CreatedAt
	exercise.UpdatedAt = time.Now().UTC()
	r.exercises[exercise.ID] = cloneExercise(*exercise)
	return nil
}

func (r *exerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *exerciseRepository) Find(ctx context.Context, filter repository.ExerciseFilter, page repository.PageRequest) (repository.Page[domain.Exercise], error) {
	r.mu.RLock()
	matches := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		if matchExercise(&e, filter) {
			matches = append(matches, cloneExercise(e))
		}
	}
	r.mu.RUnlock()

	return sortAndWindow(matches, page, exerciseSortKeys, func(e *domain.Exercise) primitive.ObjectID { return e.ID }), nil
}

func matchExercise(e *domain.Exercise, f repository.ExerciseFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Reps != nil && e.Reps != *f.Reps {
		return false
	}
	if f.Sets != nil && e.Sets != *f.Sets {
		return false
	}
	if f.WorkoutID != nil && e.WorkoutID != *f.WorkoutID {
		return false
	}
	if f.Equipment != "" && e.Equipment != f.Equipment {
		return false
	}
	if f.DifficultyLevel != "" && e.DifficultyLevel != f.DifficultyLevel {
		return false
	}
	if f.MuscleGroup != "" && !slices.Contains(e.MuscleGroups, f.MuscleGroup) {
		return false
	}
	return true
}
