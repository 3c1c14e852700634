package api

import (
	"net/http"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes account management.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func callerIsAdmin(c *gin.Context) bool {
	identity, ok := identityFromContext(c)
	return ok && identity.HasRole(string(domain.RoleAdmin))
}

// CreateUser godoc
// @Summary Create a user
// @Description The role field is honoured only when the caller is an admin.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body service.CreateUserInput true "User details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} ValidationErrorResponse "Invalid input or username/email taken"
// @Router /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}
	if !callerIsAdmin(c) {
		req.Role = domain.RoleUser
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	user, err := h.userService.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.userService.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(users, MapUserToResponse))
}

// ListUsersPage godoc
// @Summary List users page by page
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Zero-based page"
// @Param size query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param direction query string false "asc or desc"
// @Router /api/users/paginated [get]
func (h *UserHandler) ListUsersPage(c *gin.Context) {
	q, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.userService.ListUsersPage(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPage(page, MapUserToResponse))
}

// UpdateUser applies a partial update. Role changes from non-admin callers are ignored.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}
	if !callerIsAdmin(c) {
		req.Role = nil
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
