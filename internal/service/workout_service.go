package service

import (
	"context"
	"errors"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var workoutSortFields = sortFields{
	"id":             "_id",
	"name":           "name",
	"date":           "date",
	"duration":       "duration",
	"workoutType":    "workoutType",
	"caloriesBurned": "caloriesBurned",
	"createdAt":      "createdAt",
}

// WorkoutInput carries a new workout.
type WorkoutInput struct {
	Name           string    `json:"name" validate:"required"`
	UserID         string    `json:"userId" validate:"omitempty,mongodb"`
	Date           *DateTime `json:"date" validate:"required"`
	Duration       int       `json:"duration" validate:"min=1"`
	WorkoutType    string    `json:"workoutType" validate:"required"`
	CaloriesBurned int       `json:"caloriesBurned" validate:"min=0"`
}

// WorkoutPatch is a partial update; nil fields are left unchanged.
// An empty UserID detaches the workout from its owner.
type WorkoutPatch struct {
	Name           *string   `json:"name" validate:"omitempty,min=1"`
	UserID         *string   `json:"userId" validate:"omitempty"`
	Date           *DateTime `json:"date"`
	Duration       *int      `json:"duration" validate:"omitempty,min=1"`
	WorkoutType    *string   `json:"workoutType" validate:"omitempty,min=1"`
	CaloriesBurned *int      `json:"caloriesBurned" validate:"omitempty,min=0"`
}

// WorkoutQuery holds the optional workout filters. Empty fields are ignored.
// From is inclusive and To is exclusive.
type WorkoutQuery struct {
	UserID      string
	WorkoutType string
	From        *DateTime
	To          *DateTime
}

// WorkoutService manages workouts.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, in WorkoutInput) (*domain.Workout, error)
	GetWorkoutByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, id primitive.ObjectID, patch WorkoutPatch) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id primitive.ObjectID) error
	ListWorkouts(ctx context.Context, q WorkoutQuery) ([]domain.Workout, error)
	ListWorkoutsPage(ctx context.Context, q WorkoutQuery, page PageQuery) (repository.Page[domain.Workout], error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	paging      Paging
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, paging Paging) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo, paging: paging}
}

func (s *workoutService) CreateWorkout(ctx context.Context, in WorkoutInput) (*domain.Workout, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	userID, err := optionalObjectID("userId", in.UserID)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		Name:           in.Name,
		UserID:         userID,
		Date:           in.Date.Time,
		Duration:       in.Duration,
		WorkoutType:    in.WorkoutType,
		CaloriesBurned: in.CaloriesBurned,
	}
	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = id
	return workout, nil
}

func (s *workoutService) GetWorkoutByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Workout", "id", id.Hex())
	}
	return workout, err
}

func (s *workoutService) UpdateWorkout(ctx context.Context, id primitive.ObjectID, patch WorkoutPatch) (*domain.Workout, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	workout, err := s.GetWorkoutByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		workout.Name = *patch.Name
	}
	if patch.UserID != nil {
		if workout.UserID, err = optionalObjectID("userId", *patch.UserID); err != nil {
			return nil, err
		}
	}
	if patch.Date != nil {
		workout.Date = patch.Date.Time
	}
	if patch.Duration != nil {
		workout.Duration = *patch.Duration
	}
	if patch.WorkoutType != nil {
		workout.WorkoutType = *patch.WorkoutType
	}
	if patch.CaloriesBurned != nil {
		workout.CaloriesBurned = *patch.CaloriesBurned
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Workout", "id", id.Hex())
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, id primitive.ObjectID) error {
	err := s.workoutRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Workout", "id", id.Hex())
	}
	return err
}

func (s *workoutService) ListWorkouts(ctx context.Context, q WorkoutQuery) ([]domain.Workout, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	page, err := s.workoutRepo.Find(ctx, filter, repository.Unpaged("date"))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *workoutService) ListWorkoutsPage(ctx context.Context, q WorkoutQuery, page PageQuery) (repository.Page[domain.Workout], error) {
	filter, err := q.filter()
	if err != nil {
		return repository.Page[domain.Workout]{}, err
	}
	req, err := s.paging.request(page, workoutSortFields, "date")
	if err != nil {
		return repository.Page[domain.Workout]{}, err
	}
	return s.workoutRepo.Find(ctx, filter, req)
}

func (q WorkoutQuery) filter() (repository.WorkoutFilter, error) {
	f := repository.WorkoutFilter{WorkoutType: q.WorkoutType}
	if q.UserID != "" {
		id, err := primitive.ObjectIDFromHex(q.UserID)
		if err != nil {
			return f, invalidField("userId", "must be a valid id")
		}
		f.UserID = &id
	}
	f.DateFrom = q.From.timePtr()
	f.DateTo = q.To.timePtr()
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, invalidField("endDate", "must not be before startDate")
	}
	return f, nil
}

// optionalObjectID parses hex as an id; the empty string yields the nil id.
func optionalObjectID(field, hex string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, invalidField(field, "must be a valid id")
	}
	return id, nil
}
