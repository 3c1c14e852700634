package repository

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SortDirection orders query results.
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

// ParseSortDirection maps "desc" (any case) to SortDesc and anything else to SortAsc.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return SortDesc
	}
	return SortAsc
}

func (d SortDirection) String() string {
	if d == SortDesc {
		return "desc"
	}
	return "asc"
}

// PageRequest describes a zero-based page window over a sorted result.
// Size <= 0 means unpaged: every match is returned.
// SortField is a storage field name; an empty value sorts by insertion id.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	Direction SortDirection
}

// Unpaged returns a request for every match sorted by sortField ascending.
func Unpaged(sortField string) PageRequest {
	return PageRequest{SortField: sortField}
}

// Paged reports whether the request limits the result window.
func (p PageRequest) Paged() bool {
	return p.Size > 0
}

// Offset is the number of matches skipped before the window.
func (p PageRequest) Offset() int64 {
	if !p.Paged() || p.Page <= 0 {
		return 0
	}
	return int64(p.Page) * int64(p.Size)
}

// Page is one window of a query result.
type Page[T any] struct {
	Items      []T   `json:"content"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"totalElements"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles a Page for items matched by req out of total.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{Items: items, Page: req.Page, Size: req.Size, TotalItems: total}
	switch {
	case req.Paged():
		page.TotalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	case total > 0:
		page.Size = int(total)
		page.TotalPages = 1
	}
	return page
}

// Window returns the slice of items covered by req. It never fails:
// an out-of-range page yields an empty slice.
func Window[T any](items []T, req PageRequest) []T {
	if !req.Paged() {
		return items
	}
	start := req.Offset()
	if start >= int64(len(items)) {
		return []T{}
	}
	end := start + int64(req.Size)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[start:end]
}

// UserFilter selects users by exact username or email. Empty fields match all.
type UserFilter struct {
	Username string
	Email    string
}

// WorkoutFilter narrows workout queries. Nil or empty fields are no-ops.
// DateFrom is inclusive, DateTo is exclusive.
type WorkoutFilter struct {
	UserID      *primitive.ObjectID
	WorkoutType string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// ExerciseFilter narrows exercise queries. Name matches as a
// case-insensitive substring; MuscleGroup matches any element of MuscleGroups.
type ExerciseFilter struct {
	Name            string
	Reps            *int
	Sets            *int
	WorkoutID       *primitive.ObjectID
	Equipment       string
	DifficultyLevel string
	MuscleGroup     string
}

// FitnessGoalFilter narrows goal queries. TargetBefore is exclusive.
type FitnessGoalFilter struct {
	UserID       *primitive.ObjectID
	GoalType     string
	Status       string
	TargetBefore *time.Time
}
