package handlers

import (
	"net/http"

	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
	"github.com/BuildPass/site_personnel_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to user accounts.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(services *portssvc.ServiceContainer) *userHandler {
	return &userHandler{userService: services.User}
}

// RegisterUserRoutes registers all user management routes.
func RegisterUserRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newUserHandler(services)

	users := rg.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("/me", h.getCurrentUser)
		users.GET("/:id", h.getUser)
		users.DELETE("/:id", h.deleteUser)
	}
}

// createUser godoc
// @Summary Create a user account
// @Description Creates a user bound to a counterparty, or a shared user when no counterparty is given.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	if !actor.IsAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
		return
	}
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req, actor.UserID)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// getCurrentUser godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(actor))
}

// getUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	userID := c.Param("id")
	if !actor.IsAdmin && actor.UserID != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access to this user is not allowed"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deleteUser godoc
// @Summary Delete a user account
// @Description Soft-deletes a user. Admin only; deleting your own account is rejected.
// @Tags users
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	if !actor.IsAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"), actor.UserID); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
