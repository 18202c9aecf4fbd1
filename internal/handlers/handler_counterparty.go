package handlers

import (
	"net/http"

	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
	"github.com/BuildPass/site_personnel_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// counterpartyHandler handles HTTP requests for counterparties and their
// required-field configurations.
type counterpartyHandler struct {
	counterpartyService portssvc.CounterpartySvcFacade
	userService         portssvc.UserSvcFacade
}

func newCounterpartyHandler(services *portssvc.ServiceContainer) *counterpartyHandler {
	return &counterpartyHandler{
		counterpartyService: services.Counterparty,
		userService:         services.User,
	}
}

// registerCounterpartyRoutes registers all counterparty-related routes.
func registerCounterpartyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCounterpartyHandler(services)

	counterparties := rg.Group("/counterparties")
	{
		counterparties.POST("", h.createCounterparty)
		counterparties.GET("", h.listCounterparties)
		counterparties.GET("/:id", h.getCounterparty)
		counterparties.GET("/:id/field-config", h.getFieldConfig)
		counterparties.PUT("/:id/field-config", h.updateFieldConfig)
	}
}

// createCounterparty godoc
// @Summary Create a counterparty
// @Tags counterparties
// @Accept json
// @Produce json
// @Param counterparty body dto.CreateCounterpartyRequest true "Counterparty details"
// @Success 201 {object} dto.CounterpartyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /counterparties [post]
func (h *counterpartyHandler) createCounterparty(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	if !actor.IsAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
		return
	}
	var req dto.CreateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	counterparty, err := h.counterpartyService.CreateCounterparty(c.Request.Context(), req.Name, actor.UserID)
	if err != nil {
		respondError(c, err, "Failed to create counterparty")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCounterpartyResponse(counterparty))
}

// listCounterparties godoc
// @Summary List counterparties
// @Tags counterparties
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListCounterpartiesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /counterparties [get]
func (h *counterpartyHandler) listCounterparties(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	if !actor.IsAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
		return
	}
	var params dto.ListCounterpartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination parameters"})
		return
	}

	counterparties, err := h.counterpartyService.ListCounterparties(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list counterparties")
		return
	}

	resp := dto.ListCounterpartiesResponse{Counterparties: make([]dto.CounterpartyResponse, len(counterparties))}
	for i := range counterparties {
		resp.Counterparties[i] = dto.ToCounterpartyResponse(&counterparties[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getCounterparty godoc
// @Summary Get a counterparty
// @Tags counterparties
// @Produce json
// @Param id path string true "Counterparty ID"
// @Success 200 {object} dto.CounterpartyResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /counterparties/{id} [get]
func (h *counterpartyHandler) getCounterparty(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	counterpartyID := c.Param("id")
	if !actor.IsAdmin && (actor.CounterpartyID == nil || *actor.CounterpartyID != counterpartyID) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access to this counterparty is not allowed"})
		return
	}

	counterparty, err := h.counterpartyService.FindCounterpartyByID(c.Request.Context(), counterpartyID)
	if err != nil {
		respondError(c, err, "Counterparty not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToCounterpartyResponse(counterparty))
}

// getFieldConfig godoc
// @Summary Get the effective required-field configuration
// @Description Returns the counterparty's field configuration, falling back to the shared default when it has none of its own.
// @Tags counterparties
// @Produce json
// @Param id path string true "Counterparty ID"
// @Success 200 {object} domain.FieldConfig
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /counterparties/{id}/field-config [get]
func (h *counterpartyHandler) getFieldConfig(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	counterpartyID := c.Param("id")
	if !actor.IsAdmin && (actor.CounterpartyID == nil || *actor.CounterpartyID != counterpartyID) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access to this counterparty is not allowed"})
		return
	}

	cfg, err := h.counterpartyService.ResolveFieldConfig(c.Request.Context(), counterpartyID)
	if err != nil {
		respondError(c, err, "Counterparty not found")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// updateFieldConfig godoc
// @Summary Replace a counterparty's required-field configuration
// @Tags counterparties
// @Accept json
// @Produce json
// @Param id path string true "Counterparty ID"
// @Param config body dto.UpdateFieldConfigRequest true "Field configuration"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /counterparties/{id}/field-config [put]
func (h *counterpartyHandler) updateFieldConfig(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	if !actor.IsAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
		return
	}
	var req dto.UpdateFieldConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	if err := h.counterpartyService.UpdateFieldConfig(c.Request.Context(), c.Param("id"), req.FieldConfig, actor.UserID); err != nil {
		respondError(c, err, "Failed to update field configuration")
		return
	}
	c.Status(http.StatusNoContent)
}
