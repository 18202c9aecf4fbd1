package handlers

import (
	"log/slog"
	"net/http"

	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
	"github.com/BuildPass/site_personnel_app/internal/dto"
	"github.com/BuildPass/site_personnel_app/internal/middleware"
	"github.com/BuildPass/site_personnel_app/internal/utils"
	"github.com/BuildPass/site_personnel_app/internal/utils/mapping"
	"github.com/gin-gonic/gin"
)

// employeeHandler handles HTTP requests for employee records and their
// lifecycle statuses.
type employeeHandler struct {
	employeeService portssvc.EmployeeSvcFacade
	statusService   portssvc.StatusSvcFacade
	accessService   portssvc.AccessAuthorizerSvc
	userService     portssvc.UserSvcFacade
	posthog         *utils.PosthogClientWrapper
}

func newEmployeeHandler(services *portssvc.ServiceContainer, posthog *utils.PosthogClientWrapper) *employeeHandler {
	return &employeeHandler{
		employeeService: services.Employee,
		statusService:   services.Status,
		accessService:   services.Access,
		userService:     services.User,
		posthog:         posthog,
	}
}

// RegisterEmployeeRoutes registers all employee-related routes.
func RegisterEmployeeRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, posthog *utils.PosthogClientWrapper) {
	h := newEmployeeHandler(services, posthog)

	employees := rg.Group("/employees")
	{
		employees.POST("", h.createEmployee)
		employees.GET("", h.listEmployees)
		employees.GET("/:id", h.getEmployee)
		employees.PUT("/:id", h.updateEmployee)
		employees.DELETE("/:id", h.deleteEmployee)

		employees.POST("/:id/fire", h.fireEmployee)
		employees.POST("/:id/reinstate", h.reinstateEmployee)
		employees.POST("/:id/activate", h.activateEmployee)
		employees.POST("/:id/deactivate", h.deactivateEmployee)
		employees.POST("/:id/mark-edited", h.markEdited)

		employees.GET("/:id/statuses", h.getEmployeeStatuses)
		employees.GET("/:id/statuses/:group", h.getEmployeeGroupStatus)
	}

	// Outside the /employees group: a static "statuses" segment would
	// collide with the :id wildcard above.
	rg.POST("/statuses/batch", h.getBatchStatuses)
}

// createEmployee godoc
// @Summary Create an employee draft
// @Description Creates an employee record with its counterparty mapping and initial statuses.
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body dto.CreateEmployeeRequest true "Employee details"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Document identifier already registered"
// @Security BearerAuth
// @Router /employees [post]
func (h *employeeHandler) createEmployee(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), *actor, req)
	if err != nil {
		respondError(c, err, "Failed to create employee")
		return
	}

	middleware.PosthogEvent(c, h.posthog, "employee_created", map[string]any{"employee_id": employee.EmployeeID})
	c.JSON(http.StatusCreated, mapping.ToEmployeeResponse(employee))
}

// getEmployee godoc
// @Summary Get an employee
// @Description Retrieves an employee record visible to the actor.
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [get]
func (h *employeeHandler) getEmployee(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	employee, err := h.employeeService.GetEmployee(c.Request.Context(), *actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, mapping.ToEmployeeResponse(employee))
}

// listEmployees godoc
// @Summary List a counterparty's employees
// @Description Lists employees mapped to the counterparty together with their current statuses.
// @Tags employees
// @Produce json
// @Param counterpartyID query string true "Counterparty ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListEmployeesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees [get]
func (h *employeeHandler) listEmployees(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	counterpartyID := c.Query("counterpartyID")
	if counterpartyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "counterpartyID query parameter required"})
		return
	}
	var params dto.ListEmployeesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination parameters"})
		return
	}

	items, err := h.employeeService.ListEmployees(c.Request.Context(), *actor, counterpartyID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list employees")
		return
	}

	resp := dto.ListEmployeesResponse{Employees: make([]dto.EmployeeListItem, len(items))}
	for i, item := range items {
		resp.Employees[i] = mapping.ToEmployeeListItem(item)
	}
	c.JSON(http.StatusOK, resp)
}

// updateEmployee godoc
// @Summary Update an employee
// @Description Applies a field update, recomputes derived statuses and reconciles the fired/inactive flags.
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param employee body dto.UpdateEmployeeRequest true "Fields to update"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [put]
func (h *employeeHandler) updateEmployee(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), *actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update employee")
		return
	}
	c.JSON(http.StatusOK, mapping.ToEmployeeResponse(employee))
}

// deleteEmployee godoc
// @Summary Delete an employee
// @Description Removes the employee with its mappings, links and status history.
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [delete]
func (h *employeeHandler) deleteEmployee(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), *actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete employee")
		return
	}
	c.Status(http.StatusNoContent)
}

// transition wraps the write-authorization check around a status transition.
func (h *employeeHandler) transition(c *gin.Context, name string, fn func(employeeID, actorID string) error) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	employeeID := c.Param("id")

	if err := h.accessService.Authorize(c.Request.Context(), *actor, employeeID, domain.OperationWrite); err != nil {
		respondError(c, err, "Employee not found")
		return
	}
	if err := fn(employeeID, actor.UserID); err != nil {
		respondError(c, err, "Failed to apply status transition")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Status transition applied",
		slog.String("transition", name),
		slog.String("employee_id", employeeID))
	middleware.PosthogEvent(c, h.posthog, "employee_"+name, map[string]any{"employee_id": employeeID})

	statuses, err := h.statusService.GetAllCurrent(c.Request.Context(), employeeID)
	if err != nil {
		respondError(c, err, "Failed to load statuses")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatusMappingResponses(statuses))
}

// fireEmployee godoc
// @Summary Fire an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {array} dto.StatusMappingResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/fire [post]
func (h *employeeHandler) fireEmployee(c *gin.Context) {
	h.transition(c, "fired", func(employeeID, actorID string) error {
		return h.statusService.Fire(c.Request.Context(), employeeID, actorID)
	})
}

// reinstateEmployee godoc
// @Summary Reinstate a fired employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {array} dto.StatusMappingResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/reinstate [post]
func (h *employeeHandler) reinstateEmployee(c *gin.Context) {
	h.transition(c, "reinstated", func(employeeID, actorID string) error {
		return h.statusService.Reinstate(c.Request.Context(), employeeID, actorID)
	})
}

// activateEmployee godoc
// @Summary Return an employee to employed
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {array} dto.StatusMappingResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/activate [post]
func (h *employeeHandler) activateEmployee(c *gin.Context) {
	h.transition(c, "activated", func(employeeID, actorID string) error {
		return h.statusService.Activate(c.Request.Context(), employeeID, actorID)
	})
}

// deactivateEmployee godoc
// @Summary Mark an employee inactive
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {array} dto.StatusMappingResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/deactivate [post]
func (h *employeeHandler) deactivateEmployee(c *gin.Context) {
	h.transition(c, "deactivated", func(employeeID, actorID string) error {
		return h.statusService.Deactivate(c.Request.Context(), employeeID, actorID)
	})
}

// markEdited godoc
// @Summary Mark an employee as edited for HR sync
// @Description Activates the edited HR status. A nil upload flag defaults to true.
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param body body dto.MarkEditedRequest false "Upload flag"
// @Success 200 {array} dto.StatusMappingResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/mark-edited [post]
func (h *employeeHandler) markEdited(c *gin.Context) {
	var req dto.MarkEditedRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}
	upload := true
	if req.Upload != nil {
		upload = *req.Upload
	}

	h.transition(c, "marked_edited", func(employeeID, actorID string) error {
		return h.statusService.MarkEdited(c.Request.Context(), employeeID, actorID, upload)
	})
}

// getEmployeeStatuses godoc
// @Summary Get the current statuses of an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {array} dto.StatusMappingResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/statuses [get]
func (h *employeeHandler) getEmployeeStatuses(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	employeeID := c.Param("id")

	if err := h.accessService.Authorize(c.Request.Context(), *actor, employeeID, domain.OperationRead); err != nil {
		respondError(c, err, "Employee not found")
		return
	}
	statuses, err := h.statusService.GetAllCurrent(c.Request.Context(), employeeID)
	if err != nil {
		respondError(c, err, "Failed to load statuses")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatusMappingResponses(statuses))
}

// getEmployeeGroupStatus godoc
// @Summary Get the active status of one group for an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Param group path string true "Status group" Enums(status, status_card, status_active, status_hr, status_secure)
// @Success 200 {object} dto.StatusMappingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/statuses/{group} [get]
func (h *employeeHandler) getEmployeeGroupStatus(c *gin.Context) {
	actor, ok := currentUser(c, h.userService)
	if !ok {
		return
	}
	employeeID := c.Param("id")
	group := domain.StatusGroup(c.Param("group"))
	if !domain.IsKnownStatusGroup(group) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown status group: " + string(group)})
		return
	}

	if err := h.accessService.Authorize(c.Request.Context(), *actor, employeeID, domain.OperationRead); err != nil {
		respondError(c, err, "Employee not found")
		return
	}
	status, err := h.statusService.GetCurrent(c.Request.Context(), employeeID, group)
	if err != nil {
		respondError(c, err, "Status not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatusMappingResponse(*status))
}

// getBatchStatuses godoc
// @Summary Get current statuses for many employees
// @Description Returns active statuses grouped by employee ID. Employees whose statuses could not be loaded are returned with none.
// @Tags employees
// @Accept json
// @Produce json
// @Param body body dto.BatchStatusRequest true "Employee IDs"
// @Success 200 {object} dto.BatchStatusResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /statuses/batch [post]
func (h *employeeHandler) getBatchStatuses(c *gin.Context) {
	if _, ok := currentUser(c, h.userService); !ok {
		return
	}
	var req dto.BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	batch, err := h.statusService.GetBatch(c.Request.Context(), req.EmployeeIDs)
	if err != nil {
		respondError(c, err, "Failed to load statuses")
		return
	}

	resp := dto.BatchStatusResponse{Statuses: make(map[string][]dto.StatusMappingResponse, len(batch))}
	for employeeID, mappings := range batch {
		resp.Statuses[employeeID] = dto.ToStatusMappingResponses(mappings)
	}
	c.JSON(http.StatusOK, resp)
}
