package memory

import (
	"cmp"
	"context"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var goalSortKeys = sortKeys[domain.FitnessGoal]{
	"goalType":      func(a, b *domain.FitnessGoal) int { return cmp.Compare(a.GoalType, b.GoalType) },
	"status":        func(a, b *domain.FitnessGoal) int { return cmp.Compare(a.Status, b.Status) },
	"targetDate":    func(a, b *domain.FitnessGoal) int { return compareTime(a.TargetDate, b.TargetDate) },
	"startDate":     func(a, b *domain.FitnessGoal) int { return compareTime(a.StartDate, b.StartDate) },
	"completedDate": func(a, b *domain.FitnessGoal) int { return comparePtrTime(a.CompletedDate, b.CompletedDate) },
	"targetValue":   func(a, b *domain.FitnessGoal) int { return cmp.Compare(a.TargetValue, b.TargetValue) },
	"currentValue":  func(a, b *domain.FitnessGoal) int { return cmp.Compare(a.CurrentValue, b.CurrentValue) },
	"createdAt":     func(a, b *domain.FitnessGoal) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

func cloneGoal(g domain.FitnessGoal) domain.FitnessGoal {
	g.CompletedDate = clonePtr(g.CompletedDate)
	return g
}

type fitnessGoalRepository struct {
	mu    sync.RWMutex
	goals map[primitive.ObjectID]domain.FitnessGoal
}

// NewFitnessGoalRepository constructs an empty in-memory FitnessGoalRepository.
func NewFitnessGoalRepository() repository.FitnessGoalRepository {
	return &fitnessGoalRepository{goals: make(map[primitive.ObjectID]domain.FitnessGoal)}
}

func (r *fitnessGoalRepository) Create(ctx context.Context, goal *domain.FitnessGoal) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	r.goals[goal.ID] = cloneGoal(*goal)
	return goal.ID, nil
}

func (r *fitnessGoalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FitnessGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.goals[id]; ok {
		g = cloneGoal(g)
		return &g, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fitnessGoalRepository) Update(ctx context.Context, goal *domain.FitnessGoal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.goals[goal.ID]
	if !ok {
		return repository.ErrNotFound
	}
	goal.CreatedAt = existing.CreatedAt
	goal.UpdatedAt = time.Now().UTC()
	r.goals[goal.ID] = cloneGoal(*goal)
	return nil
}

func (r *fitnessGoalRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}

func (r *fitnessGoalRepository) Find(ctx context.Context, filter repository.FitnessGoalFilter, page repository.PageRequest) (repository.Page[domain.FitnessGoal], error) {
	r.mu.RLock()
	matches := make([]domain.FitnessGoal, 0, len(r.goals))
	for _, g := range r.goals {
		if filter.UserID != nil && g.UserID != *filter.UserID {
			continue
		}
		if filter.GoalType != "" && g.GoalType != filter.GoalType {
			continue
		}
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		if filter.TargetBefore != nil && !g.TargetDate.Before(*filter.TargetBefore) {
			continue
		}
		matches = append(matches, cloneGoal(g))
	}
	r.mu.RUnlock()

	return sortAndWindow(matches, page, goalSortKeys, func(g *domain.FitnessGoal) primitive.ObjectID { return g.ID }), nil
}
