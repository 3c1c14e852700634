package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const fitnessGoalCollectionName = "fitness_goals"

type mongoFitnessGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoFitnessGoalRepository creates a new FitnessGoal repository backed by MongoDB.
func NewMongoFitnessGoalRepository(db *mongo.Database) repository.FitnessGoalRepository {
	return &mongoFitnessGoalRepository{
		collection: db.Collection(fitnessGoalCollectionName),
	}
}

// Create inserts a new goal.
func (r *mongoFitnessGoalRepository) Create(ctx context.Context, goal *domain.FitnessGoal) (primitive.ObjectID, error) {
	if goal.UserID.IsZero() || goal.GoalType == "" {
		return primitive.NilObjectID, errors.New("goal userId and goalType are required")
	}

	goal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single goal by its ID.
func (r *mongoFitnessGoalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FitnessGoal, error) {
	var goal domain.FitnessGoal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// Update stores every mutable field of goal and refreshes UpdatedAt.
func (r *mongoFitnessGoalRepository) Update(ctx context.Context, goal *domain.FitnessGoal) error {
	goal.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"userId":        goal.UserID,
			"goalType":      goal.GoalType,
			"description":   goal.Description,
			"startValue":    goal.StartValue,
			"targetValue":   goal.TargetValue,
			"currentValue":  goal.CurrentValue,
			"startDate":     goal.StartDate,
			"targetDate":    goal.TargetDate,
			"status":        goal.Status,
			"completedDate": goal.CompletedDate,
			"updatedAt":     goal.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": goal.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a goal.
func (r *mongoFitnessGoalRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Find returns one page of goals matching filter.
func (r *mongoFitnessGoalRepository) Find(ctx context.Context, filter repository.FitnessGoalFilter, page repository.PageRequest) (repository.Page[domain.FitnessGoal], error) {
	return findPage[domain.FitnessGoal](ctx, r.collection, goalFilterDoc(filter), page)
}

// EnsureFitnessGoalIndexes creates necessary indexes for the fitness_goals collection.
func EnsureFitnessGoalIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "goalType", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "targetDate", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn().Err(err).Str("collection", collection.Name()).Msg("failed to create indexes")
		return err
	}
	return nil
}
