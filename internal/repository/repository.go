package repository

import (
	"alcyxob/fitness-tracker/internal/domain" // Import our defined domain models
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DuplicateKeyError reports which unique field rejected a write.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return string(ErrDuplicateKey)
	}
	return string(ErrDuplicateKey) + " on " + e.Field
}

// Is makes errors.Is(err, ErrDuplicateKey) hold for any DuplicateKeyError.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter UserFilter, page PageRequest) (Page[domain.User], error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter WorkoutFilter, page PageRequest) (Page[domain.Workout], error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter ExerciseFilter, page PageRequest) (Page[domain.Exercise], error)
}

// FitnessGoalRepository defines the interface for interacting with fitness goal data.
type FitnessGoalRepository interface {
	Create(ctx context.Context, goal *domain.FitnessGoal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FitnessGoal, error)
	Update(ctx context.Context, goal *domain.FitnessGoal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter FitnessGoalFilter, page PageRequest) (Page[domain.FitnessGoal], error)
}

// MediaRepository defines the interface for interacting with exercise media metadata.
type MediaRepository interface {
	Create(ctx context.Context, media *domain.ExerciseMedia) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseMedia, error)
	GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExerciseMedia, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Stores groups every repository behind one value for wiring.
type Stores struct {
	Users     UserRepository
	Workouts  WorkoutRepository
	Exercises ExerciseRepository
	Goals     FitnessGoalRepository
	Media     MediaRepository
}
