package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository" // Import repository package
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var exerciseSortFields = sortFields{
	"id":              "_id",
	"name":            "name",
	"reps":            "reps",
	"sets":            "sets",
	"weight":          "weight",
	"equipment":       "equipment",
	"difficultyLevel": "difficultyLevel",
	"createdAt":       "createdAt",
}

// ExerciseInput carries a new exercise. WorkoutID, when set, must name an existing workout.
type ExerciseInput struct {
	Name            string   `json:"name" validate:"required"`
	Reps            int      `json:"reps" validate:"min=0"`
	Sets            int      `json:"sets" validate:"min=0"`
	Weight          *float64 `json:"weight" validate:"omitempty,min=0"`
	Equipment       string   `json:"equipment"`
	DifficultyLevel string   `json:"difficultyLevel"`
	MuscleGroups    []string `json:"muscleGroups"`
	WorkoutID       string   `json:"workoutId" validate:"omitempty,mongodb"`
}

// ExercisePatch is a partial update; nil fields are left unchanged.
type ExercisePatch struct {
	Name            *string   `json:"name" validate:"omitempty,min=1"`
	Reps            *int      `json:"reps" validate:"omitempty,min=0"`
	Sets            *int      `json:"sets" validate:"omitempty,min=0"`
	Weight          *float64  `json:"weight" validate:"omitempty,min=0"`
	Equipment       *string   `json:"equipment"`
	DifficultyLevel *string   `json:"difficultyLevel"`
	MuscleGroups    *[]string `json:"muscleGroups"`
	WorkoutID       *string   `json:"workoutId"`
}

// ExerciseQuery holds the optional exercise filters. Name matches as a
// case-insensitive substring.
type ExerciseQuery struct {
	Name            string
	Reps            *int
	Sets            *int
	WorkoutID       string
	Equipment       string
	DifficultyLevel string
	MuscleGroup     string
}

// ExerciseService manages exercises and their link to workouts.
type ExerciseService interface {
	CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, patch ExercisePatch) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error
	ListExercises(ctx context.Context, q ExerciseQuery) ([]domain.Exercise, error)
	ListExercisesPage(ctx context.Context, q ExerciseQuery, page PageQuery) (repository.Page[domain.Exercise], error)
	GetExercisesByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	workoutRepo  repository.WorkoutRepository
	paging       Paging
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, workoutRepo repository.WorkoutRepository, paging Paging) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		workoutRepo:  workoutRepo,
		paging:       paging,
	}
}

// CreateExercise stores a new exercise, optionally attached to a workout.
func (s *exerciseService) CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	workoutID, err := s.resolveWorkout(ctx, in.WorkoutID)
	if err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		WorkoutID:       workoutID,
		Name:            in.Name,
		Reps:            in.Reps,
		Sets:            in.Sets,
		Weight:          in.Weight,
		Equipment:       in.Equipment,
		DifficultyLevel: in.DifficultyLevel,
		MuscleGroups:    in.MuscleGroups,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// resolveWorkout parses a workout reference and checks the workout exists.
func (s *exerciseService) resolveWorkout(ctx context.Context, hex string) (primitive.ObjectID, error) {
	id, err := optionalObjectID("workoutId", hex)
	if err != nil || id.IsZero() {
		return id, err
	}
	if _, err := s.workoutRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, notFound("Workout", "id", hex)
		}
		return primitive.NilObjectID, err
	}
	return id, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Exercise", "id", exerciseID.Hex())
		}
		return nil, err
	}
	return exercise, nil
}

// UpdateExercise applies the non-nil fields of patch.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, patch ExercisePatch) (*domain.Exercise, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		exercise.Name = *patch.Name
	}
	if patch.Reps != nil {
		exercise.Reps = *patch.Reps
	}
	if patch.Sets != nil {
		exercise.Sets = *patch.Sets
	}
	if patch.Weight != nil {
		exercise.Weight = patch.Weight
	}
	if patch.Equipment != nil {
		exercise.Equipment = *patch.Equipment
	}
	if patch.DifficultyLevel != nil {
		exercise.DifficultyLevel = *patch.DifficultyLevel
	}
	if patch.MuscleGroups != nil {
		exercise.MuscleGroups = *patch.MuscleGroups
	}
	if patch.WorkoutID != nil {
		if exercise.WorkoutID, err = s.resolveWorkout(ctx, *patch.WorkoutID); err != nil {
			return nil, err
		}
	}

	if err = s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Exercise", "id", exerciseID.Hex())
		}
		return nil, err
	}
	return exercise, nil
}

// DeleteExercise removes an exercise.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	err := s.exerciseRepo.Delete(ctx, exerciseID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Exercise", "id", exerciseID.Hex())
	}
	return err
}

func (s *exerciseService) ListExercises(ctx context.Context, q ExerciseQuery) ([]domain.Exercise, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	page, err := s.exerciseRepo.Find(ctx, filter, repository.Unpaged("name"))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *exerciseService) ListExercisesPage(ctx context.Context, q ExerciseQuery, page PageQuery) (repository.Page[domain.Exercise], error) {
	filter, err := q.filter()
	if err != nil {
		return repository.Page[domain.Exercise]{}, err
	}
	req, err := s.paging.request(page, exerciseSortFields, "name")
	if err != nil {
		return repository.Page[domain.Exercise]{}, err
	}
	return s.exerciseRepo.Find(ctx, filter, req)
}

// GetExercisesByWorkout lists the exercises of an existing workout.
func (s *exerciseService) GetExercisesByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error) {
	if _, err := s.resolveWorkout(ctx, workoutID.Hex()); err != nil {
		return nil, err
	}
	page, err := s.exerciseRepo.Find(ctx, repository.ExerciseFilter{WorkoutID: &workoutID}, repository.Unpaged(""))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (q ExerciseQuery) filter() (repository.ExerciseFilter, error) {
	f := repository.ExerciseFilter{
		Name:            q.Name,
		Reps:            q.Reps,
		Sets:            q.Sets,
		Equipment:       q.Equipment,
		DifficultyLevel: q.DifficultyLevel,
		MuscleGroup:     q.MuscleGroup,
	}
	if q.WorkoutID != "" {
		id, err := primitive.ObjectIDFromHex(q.WorkoutID)
		if err != nil {
			return f, invalidField("workoutId", "must be a valid id")
		}
		f.WorkoutID = &id
	}
	return f, nil
}
