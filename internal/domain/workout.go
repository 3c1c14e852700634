package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout represents a single recorded training session.
// Exercises are not embedded; each Exercise points back here via WorkoutID.
type Workout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	UserID         primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"` // Optional owner
	Date           time.Time          `bson:"date" json:"date"`
	Duration       int                `bson:"duration" json:"duration"`       // Minutes, >= 1
	WorkoutType    string             `bson:"workoutType" json:"workoutType"` // e.g. "cardio", "strength"
	CaloriesBurned int                `bson:"caloriesBurned" json:"caloriesBurned"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
