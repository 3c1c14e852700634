// Package app wires configuration, storage and services into a runnable
// application shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/fitness-tracker/internal/api"
	"alcyxob/fitness-tracker/internal/auth"
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/memory"
	"alcyxob/fitness-tracker/internal/repository/mongo"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// App holds the wired services and the resources they depend on.
type App struct {
	Config   config.Config
	Codec    *auth.TokenCodec
	Services api.Services
	Probe    api.DatabaseProbe

	client *mongodriver.Client
}

// mongoProbe adapts mongo.Probe to the diagnostics endpoint.
type mongoProbe struct {
	probe *mongo.Probe
}

func (p mongoProbe) Probe(ctx context.Context) (api.DatabaseReport, error) {
	res, err := p.probe.Run(ctx)
	if err != nil {
		return api.DatabaseReport{}, err
	}
	return api.DatabaseReport{Database: res.Database, Collections: res.Collections, WriteTest: res.WriteTest}, nil
}

// openStores connects the configured persistence driver.
func (a *App) openStores(ctx context.Context) (repository.Stores, error) {
	switch strings.ToLower(a.Config.Database.Driver) {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory storage; data is lost on exit")
		return memory.NewStores(), nil
	case "", config.DriverMongo:
		client, err := mongo.ConnectDB(ctx, a.Config.Database.URI)
		if err != nil {
			return repository.Stores{}, fmt.Errorf("connect to mongodb: %w", err)
		}
		a.client = client
		db := client.Database(a.Config.Database.Name)

		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = mongo.DisconnectDB(client)
			a.client = nil
			return repository.Stores{}, err
		}
		a.Probe = mongoProbe{probe: mongo.NewProbe(db)}
		return mongo.NewStores(db), nil
	default:
		return repository.Stores{}, fmt.Errorf("unknown database driver %q", a.Config.Database.Driver)
	}
}

// New builds the application from cfg.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	credentials, err := service.NewCredentialPolicy(cfg.Auth.PasswordStorage)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.PasswordStorage == service.PasswordStoragePlaintext {
		log.Warn().Msg("Passwords are stored and compared in plaintext (auth.password_storage=plaintext)")
	}

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("jwt.secret is not set; using the built-in default secret, tokens can be forged by anyone who knows it")
	}
	a.Codec = auth.NewTokenCodec(cfg.JWT.Secret)

	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		if fileStorage, err = storage.NewS3Storage(ctx, cfg.S3); err != nil {
			return nil, fmt.Errorf("init media storage: %w", err)
		}
	} else {
		log.Info().Msg("No S3 bucket configured; exercise media endpoints are disabled")
	}

	stores, err := a.openStores(ctx)
	if err != nil {
		return nil, err
	}

	paging := service.Paging{DefaultSize: cfg.Query.DefaultPageSize, MaxSize: cfg.Query.MaxPageSize}
	admin := service.AdminCredentials{
		Enabled:  cfg.Auth.Admin.Enabled,
		Username: cfg.Auth.Admin.Username,
		Password: cfg.Auth.Admin.Password,
	}

	users := service.NewUserService(stores.Users, credentials, paging)
	a.Services = api.Services{
		Auth:      service.NewAuthService(users, credentials, a.Codec, admin, cfg.JWT.Expiration),
		Users:     users,
		Workouts:  service.NewWorkoutService(stores.Workouts, paging),
		Exercises: service.NewExerciseService(stores.Exercises, stores.Workouts, paging),
		Goals:     service.NewFitnessGoalService(stores.Goals, paging),
		Media:     service.NewMediaService(stores.Media, stores.Exercises, fileStorage),
	}
	return a, nil
}

// Router builds the HTTP handler.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	api.SetupRoutes(router, api.RouterConfig{
		Codec:          a.Codec,
		Policy:         api.NewPolicy(api.DefaultRules(a.Config.Security.PublicUsers)...),
		CORSOrigins:    a.Config.Security.CORSOrigins,
		RequestTimeout: a.Config.Server.RequestTimeout,
		Probe:          a.Probe,
		LoginRateLimit: a.Config.Security.LoginRateLimit,
		Env: api.EnvInfo{
			Profile:     a.Config.Profile,
			Driver:      a.Config.Database.Driver,
			DatabaseURI: a.Config.Database.MaskedDatabaseURI(),
			Database:    a.Config.Database.Name,
			IsAtlas:     a.Config.Database.IsAtlas(),
		},
	}, a.Services)
	return router
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.client == nil {
		return nil
	}
	return mongo.DisconnectDB(a.client)
}
