// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents one movement performed as part of a workout.
type Exercise struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID primitive.ObjectID `bson:"workoutId,omitempty" json:"workoutId,omitempty"` // Link to the owning Workout
	Name      string             `bson:"name" json:"name"`
	Reps      int                `bson:"reps" json:"reps"`
	Sets      int                `bson:"sets" json:"sets"`
	Weight    *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // kg, optional for bodyweight work

	Equipment       string   `bson:"equipment,omitempty" json:"equipment,omitempty"`             // e.g. "barbell", "none"
	DifficultyLevel string   `bson:"difficultyLevel,omitempty" json:"difficultyLevel,omitempty"` // e.g. "beginner", "advanced"
	MuscleGroups    []string `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
