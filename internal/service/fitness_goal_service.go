package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var goalSortFields = sortFields{
	"id":            "_id",
	"goalType":      "goalType",
	"status":        "status",
	"targetDate":    "targetDate",
	"startDate":     "startDate",
	"completedDate": "completedDate",
	"targetValue":   "targetValue",
	"currentValue":  "currentValue",
	"createdAt":     "createdAt",
}

// FitnessGoalInput carries a new goal. CurrentValue defaults to StartValue,
// StartDate to now and Status to "in progress".
type FitnessGoalInput struct {
	UserID       string    `json:"userId" validate:"required,mongodb"`
	GoalType     string    `json:"goalType" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	StartValue   float64   `json:"startValue"`
	TargetValue  float64   `json:"targetValue"`
	CurrentValue *float64  `json:"currentValue"`
	StartDate    *DateTime `json:"startDate"`
	TargetDate   *DateTime `json:"targetDate" validate:"required"`
	Status       string    `json:"status"`
}

// FitnessGoalPatch is a partial update; nil fields are left unchanged.
type FitnessGoalPatch struct {
	GoalType     *string   `json:"goalType" validate:"omitempty,min=1"`
	Description  *string   `json:"description" validate:"omitempty,min=1"`
	StartValue   *float64  `json:"startValue"`
	TargetValue  *float64  `json:"targetValue"`
	CurrentValue *float64  `json:"currentValue"`
	StartDate    *DateTime `json:"startDate"`
	TargetDate   *DateTime `json:"targetDate"`
	Status       *string   `json:"status" validate:"omitempty,min=1"`
}

// ProgressInput records a new measurement and optionally a new status.
type ProgressInput struct {
	CurrentValue float64 `json:"currentValue"`
	Status       string  `json:"status"`
}

// FitnessGoalQuery holds the optional goal filters. Before is exclusive.
type FitnessGoalQuery struct {
	UserID   string
	GoalType string
	Status   string
	Before   *DateTime
}

// FitnessGoalService manages goals and their completion lifecycle.
type FitnessGoalService interface {
	CreateGoal(ctx context.Context, in FitnessGoalInput) (*domain.FitnessGoal, error)
	GetGoalByID(ctx context.Context, id primitive.ObjectID) (*domain.FitnessGoal, error)
	UpdateGoal(ctx context.Context, id primitive.ObjectID, patch FitnessGoalPatch) (*domain.FitnessGoal, error)
	UpdateProgress(ctx context.Context, id primitive.ObjectID, in ProgressInput) (*domain.FitnessGoal, error)
	DeleteGoal(ctx context.Context, id primitive.ObjectID) error
	ListGoals(ctx context.Context, q FitnessGoalQuery) ([]domain.FitnessGoal, error)
	ListGoalsPage(ctx context.Context, q FitnessGoalQuery, page PageQuery) (repository.Page[domain.FitnessGoal], error)
}

type fitnessGoalService struct {
	goalRepo repository.FitnessGoalRepository
	paging   Paging
	now      func() time.Time
}

// NewFitnessGoalService creates a new instance of fitnessGoalService.
func NewFitnessGoalService(goalRepo repository.FitnessGoalRepository, paging Paging) FitnessGoalService {
	return &fitnessGoalService{
		goalRepo: goalRepo,
		paging:   paging,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *fitnessGoalService) CreateGoal(ctx context.Context, in FitnessGoalInput) (*domain.FitnessGoal, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		return nil, invalidField("userId", "must be a valid id")
	}

	now := s.now()
	goal := &domain.FitnessGoal{
		UserID:       userID,
		GoalType:     in.GoalType,
		Description:  in.Description,
		StartValue:   in.StartValue,
		TargetValue:  in.TargetValue,
		CurrentValue: in.StartValue,
		StartDate:    now,
		TargetDate:   in.TargetDate.Time,
	}
	if in.CurrentValue != nil {
		goal.CurrentValue = *in.CurrentValue
	}
	if in.StartDate != nil {
		goal.StartDate = in.StartDate.Time
	}
	status := in.Status
	if status == "" {
		status = domain.GoalStatusInProgress
	}
	goal.ApplyStatus(status, now)

	id, err := s.goalRepo.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	goal.ID = id
	return goal, nil
}

func (s *fitnessGoalService) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*domain.FitnessGoal, error) {
	goal, err := s.goalRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("FitnessGoal", "id", id.Hex())
	}
	return goal, err
}

func (s *fitnessGoalService) UpdateGoal(ctx context.Context, id primitive.ObjectID, patch FitnessGoalPatch) (*domain.FitnessGoal, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	goal, err := s.GetGoalByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.GoalType != nil {
		goal.GoalType = *patch.GoalType
	}
	if patch.Description != nil {
		goal.Description = *patch.Description
	}
	if patch.StartValue != nil {
		goal.StartValue = *patch.StartValue
	}
	if patch.TargetValue != nil {
		goal.TargetValue = *patch.TargetValue
	}
	if patch.CurrentValue != nil {
		goal.CurrentValue = *patch.CurrentValue
	}
	if patch.StartDate != nil {
		goal.StartDate = patch.StartDate.Time
	}
	if patch.TargetDate != nil {
		goal.TargetDate = patch.TargetDate.Time
	}
	if patch.Status != nil {
		goal.ApplyStatus(*patch.Status, s.now())
	}

	return s.save(ctx, goal)
}

// UpdateProgress sets the current value and, when given, the status.
// CompletedDate is stamped only on the first transition to "completed".
func (s *fitnessGoalService) UpdateProgress(ctx context.Context, id primitive.ObjectID, in ProgressInput) (*domain.FitnessGoal, error) {
	goal, err := s.GetGoalByID(ctx, id)
	if err != nil {
		return nil, err
	}

	goal.CurrentValue = in.CurrentValue
	if in.Status != "" {
		goal.ApplyStatus(in.Status, s.now())
	}
	return s.save(ctx, goal)
}

func (s *fitnessGoalService) save(ctx context.Context, goal *domain.FitnessGoal) (*domain.FitnessGoal, error) {
	if err := s.goalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("FitnessGoal", "id", goal.ID.Hex())
		}
		return nil, err
	}
	return goal, nil
}

func (s *fitnessGoalService) DeleteGoal(ctx context.Context, id primitive.ObjectID) error {
	err := s.goalRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("FitnessGoal", "id", id.Hex())
	}
	return err
}

func (s *fitnessGoalService) ListGoals(ctx context.Context, q FitnessGoalQuery) ([]domain.FitnessGoal, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	page, err := s.goalRepo.Find(ctx, filter, repository.Unpaged("targetDate"))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *fitnessGoalService) ListGoalsPage(ctx context.Context, q FitnessGoalQuery, page PageQuery) (repository.Page[domain.FitnessGoal], error) {
	filter, err := q.filter()
	if err != nil {
		return repository.Page[domain.FitnessGoal]{}, err
	}
	req, err := s.paging.request(page, goalSortFields, "targetDate")
	if err != nil {
		return repository.Page[domain.FitnessGoal]{}, err
	}
	return s.goalRepo.Find(ctx, filter, req)
}

func (q FitnessGoalQuery) filter() (repository.FitnessGoalFilter, error) {
	f := repository.FitnessGoalFilter{GoalType: q.GoalType, Status: q.Status, TargetBefore: q.Before.timePtr()}
	if q.UserID != "" {
		id, err := primitive.ObjectIDFromHex(q.UserID)
		if err != nil {
			return f, invalidField("userId", "must be a valid id")
		}
		f.UserID = &id
	}
	return f, nil
}
