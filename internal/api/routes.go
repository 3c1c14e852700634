package api

import (
	"net/http"
	"time"

	"alcyxob/fitness-tracker/internal/auth"
	"alcyxob/fitness-tracker/internal/logging"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the use cases served over HTTP.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Workouts  service.WorkoutService
	Exercises service.ExerciseService
	Goals     service.FitnessGoalService
	Media     service.MediaService
}

// RouterConfig carries the HTTP-level settings.
type RouterConfig struct {
	Codec          *auth.TokenCodec
	Policy         *Policy
	CORSOrigins    []string
	RequestTimeout time.Duration
	Probe          DatabaseProbe
	Env            EnvInfo
	LoginRateLimit int // per client IP per minute, 0 disables
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", logging.RequestIDHeader},
		ExposeHeaders: []string{"Authorization", logging.RequestIDHeader},
		MaxAge:        time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// SetupRoutes installs the middleware chain and every route on router.
// Order matters: the auth gate runs before the route policy, and both run
// for unmatched paths too.
func SetupRoutes(router *gin.Engine, cfg RouterConfig, svcs Services) {
	policy := cfg.Policy
	if policy == nil {
		policy = NewPolicy(DefaultRules(false)...)
	}

	router.Use(
		gin.Recovery(),
		logging.RequestLogger(),
		metrics.Middleware(),
		corsMiddleware(cfg.CORSOrigins),
		RequestTimeout(cfg.RequestTimeout),
		AuthGate(cfg.Codec),
		Authorize(policy),
	)

	authHandler := NewAuthHandler(svcs.Auth)
	userHandler := NewUserHandler(svcs.Users)
	workoutHandler := NewWorkoutHandler(svcs.Workouts, svcs.Exercises)
	exerciseHandler := NewExerciseHandler(svcs.Exercises)
	goalHandler := NewFitnessGoalHandler(svcs.Goals)
	mediaHandler := NewMediaHandler(svcs.Media)
	diagnosticsHandler := NewDiagnosticsHandler(cfg.Probe, cfg.Env)
	throttle := NewLoginThrottle(cfg.LoginRateLimit).Middleware()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "fitness-tracker", "status": "ok"})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Alternate admin-only login
	router.POST("/auth/login", throttle, authHandler.AdminLogin)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", throttle, authHandler.Login)
		authGroup.POST("/register", throttle, authHandler.Register)
	}

	users := api.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/paginated", userHandler.ListUsersPage)
		users.GET("/paged", userHandler.ListUsersPage)
		users.GET("/username/:username", userHandler.GetUserByUsername)
		users.GET("/email/:email", userHandler.GetUserByEmail)
		users.GET("/:id", userHandler.GetUser)
		users.POST("", userHandler.CreateUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	workouts := api.Group("/workouts")
	registerWorkoutRoutes(workouts, workoutHandler)
	{
		workouts.GET("/search", workoutHandler.SearchWorkouts)
		workouts.GET("/filterByDate", workoutHandler.FilterByDate)
		workouts.GET("/:id/exercises", workoutHandler.ListWorkoutExercises)
	}

	exercises := api.Group("/exercises")
	registerExerciseRoutes(exercises, exerciseHandler)
	{
		exercises.GET("/filter", exerciseHandler.ListExercises)

		// --- Exercise media ---
		exercises.POST("/:id/media/upload-url", mediaHandler.RequestUploadURL)
		exercises.POST("/:id/media", mediaHandler.ConfirmUpload)
		exercises.GET("/:id/media", mediaHandler.ListMedia)
		exercises.DELETE("/media/:mediaId", mediaHandler.DeleteMedia)
	}

	goals := api.Group("/fitness-goals")
	{
		goals.GET("", goalHandler.ListGoals)
		goals.GET("/paginated", goalHandler.ListGoalsPage)
		goals.GET("/paged", goalHandler.ListGoalsPage)
		goals.GET("/upcoming", goalHandler.UpcomingGoals)
		goals.GET("/user/:userId", goalHandler.ListGoals)
		goals.GET("/user/:userId/type/:goalType", goalHandler.ListGoals)
		goals.GET("/user/:userId/status/:status", goalHandler.ListGoals)
		goals.GET("/:id", goalHandler.GetGoal)
		goals.POST("", goalHandler.CreateGoal)
		goals.PUT("/:id", goalHandler.UpdateGoal)
		goals.PATCH("/:id/progress", goalHandler.UpdateProgress)
		goals.DELETE("/:id", goalHandler.DeleteGoal)
	}

	// --- Admin surface, role "admin" enforced by the policy ---
	admin := api.Group("/admin")
	registerWorkoutRoutes(admin.Group("/workouts"), workoutHandler)
	registerExerciseRoutes(admin.Group("/exercises"), exerciseHandler)

	diagnostics := api.Group("/diagnostics")
	{
		diagnostics.GET("/mongodb-test", diagnosticsHandler.DatabaseTest)
		diagnostics.GET("/env-info", diagnosticsHandler.EnvInfo)
	}
}

func registerWorkoutRoutes(g *gin.RouterGroup, h *WorkoutHandler) {
	g.GET("", h.ListWorkouts)
	g.GET("/paginated", h.ListWorkoutsPage)
	g.GET("/:id", h.GetWorkout)
	g.POST("", h.CreateWorkout)
	g.PUT("/:id", h.UpdateWorkout)
	g.DELETE("/:id", h.DeleteWorkout)
}

func registerExerciseRoutes(g *gin.RouterGroup, h *ExerciseHandler) {
	g.GET("", h.ListExercises)
	g.GET("/paginated", h.ListExercisesPage)
	g.GET("/:id", h.GetExercise)
	g.POST("", h.CreateExercise)
	g.PUT("/:id", h.UpdateExercise)
	g.DELETE("/:id", h.DeleteExercise)
}
