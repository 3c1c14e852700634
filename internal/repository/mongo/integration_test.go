//go:build integration

package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	db := connectMongo(t, "fitness_tracker_test")
	require.NoError(t, EnsureIndexes(context.Background(), db))
	return db
}

func connectMongo(t *testing.T, name string) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := ConnectDB(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = DisconnectDB(client) })

	return client.Database(name)
}

func TestEnsureIndexesFailsOnDuplicateUsers(t *testing.T) {
	db := connectMongo(t, "fitness_tracker_legacy")
	ctx := context.Background()

	users := db.Collection(userCollectionName)
	_, err := users.InsertMany(ctx, []any{
		bson.M{"username": "alice", "email": "a1@example.com"},
		bson.M{"username": "alice", "email": "a2@example.com"},
	})
	require.NoError(t, err)

	err = EnsureIndexes(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique user indexes")
}

func TestMongoRepositories(t *testing.T) {
	db := startMongo(t)
	stores := NewStores(db)
	ctx := context.Background()

	t.Run("unique username and email", func(t *testing.T) {
		_, err := stores.Users.Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: domain.RoleUser})
		require.NoError(t, err)

		_, err = stores.Users.Create(ctx, &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x", Role: domain.RoleUser})
		var dup *repository.DuplicateKeyError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "username", dup.Field)

		_, err = stores.Users.Create(ctx, &domain.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x", Role: domain.RoleUser})
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "email", dup.Field)
	})

	t.Run("workout paging and filters", func(t *testing.T) {
		base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 7; i++ {
			kind := "cardio"
			if i%2 == 1 {
				kind = "strength"
			}
			_, err := stores.Workouts.Create(ctx, &domain.Workout{
				Name: fmt.Sprintf("w%d", i), Date: base.AddDate(0, 0, i), Duration: 30, WorkoutType: kind,
			})
			require.NoError(t, err)
		}

		page, err := stores.Workouts.Find(ctx, repository.WorkoutFilter{}, repository.PageRequest{Page: 1, Size: 3, SortField: "date", Direction: repository.SortDesc})
		require.NoError(t, err)
		assert.Equal(t, int64(7), page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "w3", page.Items[0].Name)

		beyond, err := stores.Workouts.Find(ctx, repository.WorkoutFilter{}, repository.PageRequest{Page: 10, Size: 3})
		require.NoError(t, err)
		assert.Empty(t, beyond.Items)

		from, to := base.AddDate(0, 0, 2), base.AddDate(0, 0, 5)
		ranged, err := stores.Workouts.Find(ctx, repository.WorkoutFilter{WorkoutType: "cardio", DateFrom: &from, DateTo: &to}, repository.Unpaged("date"))
		require.NoError(t, err)
		require.Len(t, ranged.Items, 2)
		assert.Equal(t, "w2", ranged.Items[0].Name)
		assert.Equal(t, "w4", ranged.Items[1].Name)
	})

	t.Run("exercise name contains", func(t *testing.T) {
		for _, name := range []string{"Bench Press", "Leg press", "Squat"} {
			_, err := stores.Exercises.Create(ctx, &domain.Exercise{Name: name, Reps: 10, Sets: 3})
			require.NoError(t, err)
		}
		page, err := stores.Exercises.Find(ctx, repository.ExerciseFilter{Name: "PRESS"}, repository.Unpaged("name"))
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Bench Press", page.Items[0].Name)
	})

	t.Run("goal completed date survives update", func(t *testing.T) {
		goal := &domain.FitnessGoal{UserID: primitiveID(), GoalType: "weight", Description: "lose", Status: domain.GoalStatusInProgress}
		id, err := stores.Goals.Create(ctx, goal)
		require.NoError(t, err)

		done := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		goal.ID = id
		goal.ApplyStatus(domain.GoalStatusCompleted, done)
		require.NoError(t, stores.Goals.Update(ctx, goal))

		got, err := stores.Goals.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got.CompletedDate)
		assert.True(t, got.CompletedDate.Equal(done))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := stores.Workouts.GetByID(ctx, primitiveID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, stores.Exercises.Delete(ctx, primitiveID()), repository.ErrNotFound)
	})

	t.Run("probe", func(t *testing.T) {
		result, err := NewProbe(db).Run(ctx)
		require.NoError(t, err)
		assert.True(t, result.WriteTest)
		assert.Contains(t, result.Collections, "users")
	})
}
