package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/middleware"
	"github.com/jobhive/jobhive_backend/internal/platform/config"
	"github.com/jobhive/jobhive_backend/internal/utils"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService portssvc.UserSvcFacade
	jwtSecret   string
	jwtDuration time.Duration
	jwtIssuer   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: us,
		jwtSecret:   cfg.JWTSecret,
		jwtDuration: cfg.JWTExpiryDuration,
		jwtIssuer:   cfg.JWTIssuer,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := NewAuthHandler(userService, cfg)

	// 5 requests per minute per IP on login
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/register", h.Register)
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a COMPANY or WORKER account.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterUserRequest true "Registration details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for register request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to register user")
		return
	}

	logger.Info("User registered successfully", slog.String("new_user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("Authentication failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(user.UserID, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
	if err != nil {
		logger.Error("Failed to generate JWT", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.jwtDuration),
		User:      dto.ToUserResponse(user),
	})
}
