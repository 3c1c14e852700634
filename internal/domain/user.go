package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account together with its fitness profile.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Unique
	Email        string             `bson:"email" json:"email"`       // Unique
	PasswordHash string             `bson:"password" json:"-"`        // bcrypt hash, or the raw value in plaintext mode
	Role         Role               `bson:"role" json:"role"`

	// --- Profile ---
	FirstName   string     `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName    string     `bson:"lastName,omitempty" json:"lastName,omitempty"`
	DateOfBirth *time.Time `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Height      *float64   `bson:"height,omitempty" json:"height,omitempty"` // cm
	Weight      *float64   `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	FitnessGoal string     `bson:"fitnessGoal,omitempty" json:"fitnessGoal,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
