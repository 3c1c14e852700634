package api

import (
	"net/http"

	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Creates an exercise, optionally linked to an existing workout.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body service.ExerciseInput true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} ValidationErrorResponse "Invalid input (validation error)"
// @Failure 401 "Unauthorized"
// @Failure 404 {object} ErrorDetails "Workout not found"
// @Router /api/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req service.ExerciseInput
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ExercisePatch
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// exerciseQuery reads every exercise filter from the query string.
func exerciseQuery(c *gin.Context) (service.ExerciseQuery, error) {
	q := service.ExerciseQuery{
		Name:            c.Query("name"),
		WorkoutID:       c.Query("workoutId"),
		Equipment:       c.Query("equipment"),
		DifficultyLevel: c.Query("difficultyLevel"),
		MuscleGroup:     c.Query("muscleGroup"),
	}
	var err error
	if q.Reps, err = queryInt(c, "reps"); err != nil {
		return q, err
	}
	if q.Sets, err = queryInt(c, "sets"); err != nil {
		return q, err
	}
	return q, nil
}

// ListExercises serves both the plain listing and /filter.
//
// @Summary List exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param name query string false "Case-insensitive name fragment"
// @Param reps query int false "Exact reps"
// @Param sets query int false "Exact sets"
// @Param workoutId query string false "Owning workout"
// @Success 200 {array} ExerciseResponse
// @Router /api/exercises/filter [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	q, err := exerciseQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(exercises, MapExerciseToResponse))
}

func (h *ExerciseHandler) ListExercisesPage(c *gin.Context) {
	q, err := exerciseQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	pq, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.exerciseService.ListExercisesPage(c.Request.Context(), q, pq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPage(page, MapExerciseToResponse))
}
