package api

import (
	"context"
	"errors"
	"net/http"

	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// --- Handler Methods ---

// Login godoc
// @Summary Log in
// @Description Checks the fixed admin pair, then stored users, and returns a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 401 "Invalid credentials (empty body)"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, h.authService.Login)
}

// AdminLogin godoc
// @Summary Log in with the fixed admin pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Admin credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 401 "Invalid credentials (empty body)"
// @Router /auth/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, h.authService.AdminLogin)
}

type loginFunc func(ctx context.Context, username, password string) (string, error)

// login answers 401 with an empty body for every credential failure,
// without telling which field was wrong.
func (h *AuthHandler) login(c *gin.Context, fn loginFunc) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginAttempt(metrics.LoginFailure)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	token, err := fn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			metrics.LoginAttempt(metrics.LoginFailure)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		metrics.LoginAttempt(metrics.LoginError)
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Login failed")
		respondError(c, err)
		return
	}

	metrics.LoginAttempt(metrics.LoginSuccess)
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new account with the "user" role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body service.RegisterInput true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} ValidationErrorResponse "Invalid input or username/email taken"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}
