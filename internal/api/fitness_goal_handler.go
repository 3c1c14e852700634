package api

import (
	"net/http"

	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// FitnessGoalHandler exposes goals and their progress updates.
type FitnessGoalHandler struct {
	goalService service.FitnessGoalService
}

func NewFitnessGoalHandler(goalService service.FitnessGoalService) *FitnessGoalHandler {
	return &FitnessGoalHandler{goalService: goalService}
}

func (h *FitnessGoalHandler) CreateGoal(c *gin.Context) {
	var req service.FitnessGoalInput
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goalService.CreateGoal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *FitnessGoalHandler) GetGoal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	goal, err := h.goalService.GetGoalByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *FitnessGoalHandler) UpdateGoal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.FitnessGoalPatch
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// UpdateProgress godoc
// @Summary Record goal progress
// @Description Sets the current value and optionally the status. completedDate is stamped only the first time the goal becomes "completed".
// @Tags FitnessGoals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal id"
// @Param progress body service.ProgressInput true "Progress"
// @Success 200 {object} domain.FitnessGoal
// @Failure 404 {object} ErrorDetails
// @Router /api/fitness-goals/{id}/progress [patch]
func (h *FitnessGoalHandler) UpdateProgress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ProgressInput
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goalService.UpdateProgress(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *FitnessGoalHandler) DeleteGoal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.goalService.DeleteGoal(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// goalQuery combines query-string filters with the userId, goalType and
// status path parameters of the per-user views.
func goalQuery(c *gin.Context) (service.FitnessGoalQuery, error) {
	q := service.FitnessGoalQuery{
		UserID:   c.Query("userId"),
		GoalType: c.Query("goalType"),
		Status:   c.Query("status"),
	}
	if v := c.Param("userId"); v != "" {
		q.UserID = v
	}
	if v := c.Param("goalType"); v != "" {
		q.GoalType = v
	}
	if v := c.Param("status"); v != "" {
		q.Status = v
	}
	var err error
	q.Before, err = queryDate(c, "before")
	return q, err
}

// ListGoals serves the plain listing and every per-user view.
func (h *FitnessGoalHandler) ListGoals(c *gin.Context) {
	q, err := goalQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	goals, err := h.goalService.ListGoals(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// UpcomingGoals lists goals whose target date is before the required "before" date.
func (h *FitnessGoalHandler) UpcomingGoals(c *gin.Context) {
	if c.Query("before") == "" {
		respondError(c, invalidParam("before", "must not be blank"))
		return
	}
	h.ListGoals(c)
}

func (h *FitnessGoalHandler) ListGoalsPage(c *gin.Context) {
	q, err := goalQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	pq, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.goalService.ListGoalsPage(c.Request.Context(), q, pq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
