package api

import (
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserResponse excludes the stored credential.
type UserResponse struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	DateOfBirth *time.Time  `json:"dateOfBirth,omitempty"`
	Height      *float64    `json:"height,omitempty"`
	Weight      *float64    `json:"weight,omitempty"`
	FitnessGoal string      `json:"fitnessGoal,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	UserID         *string   `json:"userId"`
	Date           time.Time `json:"date"`
	Duration       int       `json:"duration"`
	WorkoutType    string    `json:"workoutType"`
	CaloriesBurned int       `json:"caloriesBurned"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID              string    `json:"id"`
	WorkoutID       *string   `json:"workoutId"`
	Name            string    `json:"name"`
	Reps            int       `json:"reps"`
	Sets            int       `json:"sets"`
	Weight          *float64  `json:"weight,omitempty"`
	Equipment       string    `json:"equipment,omitempty"`
	DifficultyLevel string    `json:"difficultyLevel,omitempty"`
	MuscleGroups    []string  `json:"muscleGroups"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func hexOrNil(id primitive.ObjectID) *string {
	if id.IsZero() {
		return nil
	}
	s := id.Hex()
	return &s
}

// MapUserToResponse converts a domain.User to UserResponse DTO.
func MapUserToResponse(u *domain.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:          u.ID.Hex(),
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DateOfBirth: u.DateOfBirth,
		Height:      u.Height,
		Weight:      u.Weight,
		FitnessGoal: u.FitnessGoal,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:             w.ID.Hex(),
		Name:           w.Name,
		UserID:         hexOrNil(w.UserID),
		Date:           w.Date,
		Duration:       w.Duration,
		WorkoutType:    w.WorkoutType,
		CaloriesBurned: w.CaloriesBurned,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	groups := ex.MuscleGroups
	if groups == nil {
		groups = []string{}
	}
	return ExerciseResponse{
		ID:              ex.ID.Hex(),
		WorkoutID:       hexOrNil(ex.WorkoutID),
		Name:            ex.Name,
		Reps:            ex.Reps,
		Sets:            ex.Sets,
		Weight:          ex.Weight,
		Equipment:       ex.Equipment,
		DifficultyLevel: ex.DifficultyLevel,
		MuscleGroups:    groups,
		CreatedAt:       ex.CreatedAt,
		UpdatedAt:       ex.UpdatedAt,
	}
}

// mapAll converts a slice with one of the Map*ToResponse functions.
func mapAll[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}

// mapPage converts the items of a page and keeps its paging metadata.
func mapPage[T, R any](page repository.Page[T], fn func(*T) R) repository.Page[R] {
	return repository.Page[R]{
		Items:      mapAll(page.Items, fn),
		Page:       page.Page,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}
