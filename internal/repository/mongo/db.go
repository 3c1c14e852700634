package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-tracker/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		// If ping fails, disconnect the client before returning the error
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStores builds every repository over db.
func NewStores(db *mongo.Database) repository.Stores {
	return repository.Stores{
		Users:     NewMongoUserRepository(db),
		Workouts:  NewMongoWorkoutRepository(db),
		Exercises: NewMongoExerciseRepository(db),
		Goals:     NewMongoFitnessGoalRepository(db),
		Media:     NewMongoMediaRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Only the unique user
// indexes are required: username and email uniqueness rests on them, so their
// failure is returned. The remaining indexes are query aids and are logged.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := EnsureUserIndexes(ctx, db.Collection(userCollectionName)); err != nil {
		return fmt.Errorf("unique user indexes: %w", err)
	}

	err := errors.Join(
		EnsureWorkoutIndexes(ctx, db.Collection(workoutCollectionName)),
		EnsureExerciseIndexes(ctx, db.Collection(exerciseCollectionName)),
		EnsureFitnessGoalIndexes(ctx, db.Collection(fitnessGoalCollectionName)),
		EnsureMediaIndexes(ctx, db.Collection(mediaCollectionName)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Secondary index creation incomplete")
	}
	return nil
}

// Probe runs connectivity checks against a database for the diagnostics endpoints.
type Probe struct {
	db *mongo.Database
}

// NewProbe creates a Probe for db.
func NewProbe(db *mongo.Database) *Probe {
	return &Probe{db: db}
}

// ProbeResult is the outcome of a diagnostics run.
type ProbeResult struct {
	Database    string   `json:"database"`
	Collections []string `json:"collections"`
	WriteTest   bool     `json:"writeTest"`
}

// Run pings the server, lists collections and performs a write/delete round trip
// on a scratch collection.
func (p *Probe) Run(ctx context.Context) (*ProbeResult, error) {
	if err := p.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	names, err := p.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	scratch := p.db.Collection("diagnostics")
	res, err := scratch.InsertOne(ctx, bson.M{"probe": true, "at": time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	if _, err = scratch.DeleteOne(ctx, bson.M{"_id": res.InsertedID}); err != nil {
		return nil, err
	}

	return &ProbeResult{Database: p.db.Name(), Collections: names, WriteTest: true}, nil
}
