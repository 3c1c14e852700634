package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal statuses. Status is stored as free text; these are the values the API produces.
const (
	GoalStatusInProgress = "in progress"
	GoalStatusCompleted  = "completed"
	GoalStatusAbandoned  = "abandoned"
)

// FitnessGoal tracks progress of a user towards a measurable target.
type FitnessGoal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	GoalType     string             `bson:"goalType" json:"goalType"` // e.g. "weight loss", "distance"
	Description  string             `bson:"description" json:"description"`
	StartValue   float64            `bson:"startValue" json:"startValue"`
	TargetValue  float64            `bson:"targetValue" json:"targetValue"`
	CurrentValue float64            `bson:"currentValue" json:"currentValue"`
	StartDate    time.Time          `bson:"startDate" json:"startDate"`
	TargetDate   time.Time          `bson:"targetDate" json:"targetDate"`
	Status       string             `bson:"status" json:"status"`

	// Set once, the first time Status becomes "completed".
	CompletedDate *time.Time `bson:"completedDate,omitempty" json:"completedDate,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsCompleted reports whether the goal status is "completed".
func (g *FitnessGoal) IsCompleted() bool {
	return g.Status == GoalStatusCompleted
}

// ApplyStatus changes the goal status and stamps CompletedDate on the first
// transition to "completed". Later transitions never move CompletedDate.
func (g *FitnessGoal) ApplyStatus(status string, now time.Time) {
	g.Status = status
	if g.IsCompleted() && g.CompletedDate == nil {
		completed := now
		g.CompletedDate = &completed
	}
}
