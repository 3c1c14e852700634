package memory

import (
	"cmp"
	"context"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var workoutSortKeys = sortKeys[domain.Workout]{
	"name":           func(a, b *domain.Workout) int { return cmp.Compare(a.Name, b.Name) },
	"date":           func(a, b *domain.Workout) int { return compareTime(a.Date, b.Date) },
	"duration":       func(a, b *domain.Workout) int { return cmp.Compare(a.Duration, b.Duration) },
	"workoutType":    func(a, b *domain.Workout) int { return cmp.Compare(a.WorkoutType, b.WorkoutType) },
	"caloriesBurned": func(a, b *domain.Workout) int { return cmp.Compare(a.CaloriesBurned, b.CaloriesBurned) },
	"createdAt":      func(a, b *domain.Workout) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

type workoutRepository struct {
	mu       sync.RWMutex
	workouts map[primitive.ObjectID]domain.Workout
}

// NewWorkoutRepository constructs an empty in-memory WorkoutRepository.
func NewWorkoutRepository() repository.WorkoutRepository {
	return &workoutRepository{workouts: make(map[primitive.ObjectID]domain.Workout)}
}

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	r.workouts[workout.ID] = *workout
	return workout.ID, nil
}

func (r *workoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if w, ok := r.workouts[id]; ok {
		return &w, nil
	}
	return nil, repository.ErrNotFound
}

func (r *workoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.workouts[workout.ID]
	if !ok {
		return repository.ErrNotFound
	}
	workout.CreatedAt = existing.CreatedAt
	workout.UpdatedAt = time.Now().UTC()
	r.workouts[workout.ID] = *workout
	return nil
}

func (r *workoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *workoutRepository) Find(ctx context.Context, filter repository.WorkoutFilter, page repository.PageRequest) (repository.Page[domain.Workout], error) {
	r.mu.RLock()
	matches := make([]domain.Workout, 0, len(r.workouts))
	for _, w := range r.workouts {
		if matchWorkout(&w, filter) {
			matches = append(matches, w)
		}
	}
	r.mu.RUnlock()

	return sortAndWindow(matches, page, workoutSortKeys, func(w *domain.Workout) primitive.ObjectID { return w.ID }), nil
}

func matchWorkout(w *domain.Workout, f repository.WorkoutFilter) bool {
	if f.UserID != nil && w.UserID != *f.UserID {
		return false
	}
	if f.WorkoutType != "" && w.WorkoutType != f.WorkoutType {
		return false
	}
	if f.DateFrom != nil && w.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !w.Date.Before(*f.DateTo) {
		return false
	}
	return true
}
