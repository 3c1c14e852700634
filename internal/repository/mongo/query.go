package mongo

import (
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findOptions translates a page request into sort, skip and limit options.
// _id is always the last sort key so equal sort values keep a stable order.
func findOptions(req repository.PageRequest) *options.FindOptions {
	order := 1
	if req.Direction == repository.SortDesc {
		order = -1
	}

	sort := bson.D{}
	if req.SortField != "" && req.SortField != "_id" {
		sort = append(sort, bson.E{Key: req.SortField, Value: order})
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	} else {
		sort = append(sort, bson.E{Key: "_id", Value: order})
	}

	opts := options.Find().SetSort(sort)
	if req.Paged() {
		opts.SetSkip(req.Offset()).SetLimit(int64(req.Size))
	}
	return opts
}

// findPage counts the matches of filter and decodes the requested window.
func findPage[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, req repository.PageRequest) (repository.Page[T], error) {
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return repository.Page[T]{}, err
	}

	items := []T{}
	if !req.Paged() || req.Offset() < total {
		cursor, err := collection.Find(ctx, filter, findOptions(req))
		if err != nil {
			return repository.Page[T]{}, err
		}
		defer cursor.Close(ctx)

		if err = cursor.All(ctx, &items); err != nil {
			return repository.Page[T]{}, err
		}
	}

	return repository.NewPage(items, req, total), nil
}

// containsInsensitive builds a case-insensitive substring match with the
// input treated literally.
func containsInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func userFilterDoc(f repository.UserFilter) bson.M {
	filter := bson.M{}
	if f.Username != "" {
		filter["username"] = f.Username
	}
	if f.Email != "" {
		filter["email"] = f.Email
	}
	return filter
}

func workoutFilterDoc(f repository.WorkoutFilter) bson.M {
	filter := bson.M{}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if f.WorkoutType != "" {
		filter["workoutType"] = f.WorkoutType
	}
	if f.DateFrom != nil || f.DateTo != nil {
		date := bson.M{}
		if f.DateFrom != nil {
			date["$gte"] = f.DateFrom.UTC()
		}
		if f.DateTo != nil {
			date["$lt"] = f.DateTo.UTC()
		}
		filter["date"] = date
	}
	return filter
}

func exerciseFilterDoc(f repository.ExerciseFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = containsInsensitive(f.Name)
	}
	if f.Reps != nil {
		filter["reps"] = *f.Reps
	}
	if f.Sets != nil {
		filter["sets"] = *f.Sets
	}
	if f.WorkoutID != nil {
		filter["workoutId"] = *f.WorkoutID
	}
	if f.Equipment != "" {
		filter["equipment"] = f.Equipment
	}
	if f.DifficultyLevel != "" {
		filter["difficultyLevel"] = f.DifficultyLevel
	}
	if f.MuscleGroup != "" {
		// Matches any element of the muscleGroups array.
		filter["muscleGroups"] = f.MuscleGroup
	}
	return filter
}

func goalFilterDoc(f repository.FitnessGoalFilter) bson.M {
	filter := bson.M{}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if f.GoalType != "" {
		filter["goalType"] = f.GoalType
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.TargetBefore != nil {
		filter["targetDate"] = bson.M{"$lt": f.TargetBefore.UTC()}
	}
	return filter
}

// duplicateField maps a duplicate key error to the unique field it hit.
// Returns nil when err is not a duplicate key error.
func duplicateField(err error, fields ...string) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	for _, field := range fields {
		if strings.Contains(msg, "index: "+field+"_") || strings.Contains(msg, "dup key: { "+field+":") {
			return &repository.DuplicateKeyError{Field: field}
		}
	}
	return &repository.DuplicateKeyError{}
}
