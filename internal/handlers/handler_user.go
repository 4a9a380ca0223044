package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/middleware"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/:userID", h.getUser)
	}
}

// getUser godoc
// @Summary Get a user by ID
// @Description Retrieves a user's public profile. Users can read their own
// @Description record; admins can read anyone.
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{userID} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetUserID := c.Param("userID")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if loggedInUserID != targetUserID {
		actor, err := h.userService.GetUserByID(c.Request.Context(), loggedInUserID)
		if err != nil || actor.Role != domain.RoleAdmin {
			logger.Warn("User forbidden to access another user's details")
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
			return
		}
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), targetUserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
