// Package memory provides map-backed repositories for tests, local
// development and the CLI when no database is configured.
//
// Every repository is safe for concurrent use via an RWMutex. State is lost
// when the process restarts. Stored values are copied in and out so callers
// never share memory with the store.
package memory

import (
	"cmp"
	"slices"
	"time"

	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// clonePtr returns a fresh pointer to a copy of *p, or nil.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NewStores builds every in-memory repository.
func NewStores() repository.Stores {
	return repository.Stores{
		Users:     NewUserRepository(),
		Workouts:  NewWorkoutRepository(),
		Exercises: NewExerciseRepository(),
		Goals:     NewFitnessGoalRepository(),
		Media:     NewMediaRepository(),
	}
}

// sortKeys maps a storage field name to a comparison over T.
type sortKeys[T any] map[string]func(a, b *T) int

// sortAndWindow orders items by req and cuts the requested page.
// Ties, and unknown or empty sort fields, fall back to id order.
func sortAndWindow[T any](items []T, req repository.PageRequest, keys sortKeys[T], id func(*T) primitive.ObjectID) repository.Page[T] {
	byID := func(a, b *T) int {
		ia, ib := id(a), id(b)
		return cmp.Compare(ia.Hex(), ib.Hex())
	}
	primary, ok := keys[req.SortField]

	slices.SortStableFunc(items, func(a, b T) int {
		if ok {
			c := primary(&a, &b)
			if req.Direction == repository.SortDesc {
				c = -c
			}
			if c != 0 {
				return c
			}
			return byID(&a, &b)
		}
		c := byID(&a, &b)
		if req.Direction == repository.SortDesc {
			c = -c
		}
		return c
	})

	window := repository.Window(items, req)
	return repository.NewPage(slices.Clone(window), req, int64(len(items)))
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

func comparePtrTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

func comparePtrFloat(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}
