package api

import (
	"net/http"
	"time"

	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler exposes workouts and their exercises.
type WorkoutHandler struct {
	workoutService  service.WorkoutService
	exerciseService service.ExerciseService
}

func NewWorkoutHandler(workoutService service.WorkoutService, exerciseService service.ExerciseService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, exerciseService: exerciseService}
}

// CreateWorkout godoc
// @Summary Create a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body service.WorkoutInput true "Workout details"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req service.WorkoutInput
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkoutByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.WorkoutPatch
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// workoutQuery reads userId, workoutType, from and to.
func workoutQuery(c *gin.Context) (service.WorkoutQuery, error) {
	q := service.WorkoutQuery{UserID: c.Query("userId"), WorkoutType: c.Query("workoutType")}
	var err error
	if q.From, err = queryDate(c, "from"); err != nil {
		return q, err
	}
	if q.To, err = queryDate(c, "to"); err != nil {
		return q, err
	}
	return q, nil
}

// ListWorkouts returns every workout matching the optional filters, oldest first.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	q, err := workoutQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondList(c, q)
}

// SearchWorkouts godoc
// @Summary Search workouts by type and owner
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutType query string false "Workout type"
// @Param userId query string false "Owner id"
// @Router /api/workouts/search [get]
func (h *WorkoutHandler) SearchWorkouts(c *gin.Context) {
	h.respondList(c, service.WorkoutQuery{UserID: c.Query("userId"), WorkoutType: c.Query("workoutType")})
}

// FilterByDate godoc
// @Summary Workouts within a date range
// @Description Both dates are yyyy-MM-dd and inclusive.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param startDate query string true "First day"
// @Param endDate query string true "Last day"
// @Router /api/workouts/filterByDate [get]
func (h *WorkoutHandler) FilterByDate(c *gin.Context) {
	start, err := queryDate(c, "startDate")
	if err == nil && start == nil {
		err = invalidParam("startDate", "must not be blank")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := queryDate(c, "endDate")
	if err == nil && end == nil {
		err = invalidParam("endDate", "must not be blank")
	}
	if err != nil {
		respondError(c, err)
		return
	}

	endExclusive := service.DateTime{Time: end.Add(24 * time.Hour)}
	h.respondList(c, service.WorkoutQuery{From: start, To: &endExclusive})
}

func (h *WorkoutHandler) respondList(c *gin.Context, q service.WorkoutQuery) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(workouts, MapWorkoutToResponse))
}

func (h *WorkoutHandler) ListWorkoutsPage(c *gin.Context) {
	q, err := workoutQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	pq, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.workoutService.ListWorkoutsPage(c.Request.Context(), q, pq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPage(page, MapWorkoutToResponse))
}

func (h *WorkoutHandler) ListWorkoutExercises(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	exercises, err := h.exerciseService.GetExercisesByWorkout(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(exercises, MapExerciseToResponse))
}
