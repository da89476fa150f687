package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"usersvc/internal/middleware"
	"usersvc/internal/model"
	"usersvc/internal/service"
)

// RoleHandler bundles role CRUD HTTP handlers.
type RoleHandler struct {
	svc service.RoleService
}

// NewRoleHandler creates a handler layer.
func NewRoleHandler(svc service.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// List godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RoleResponse
// @Router /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		resp = append(resp, toRoleResponse(&roles[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get role by id
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} RoleResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	role, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// GetByName godoc
// @Summary Get role by name
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param name path string true "Role name"
// @Success 200 {object} RoleResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /roles/name/{name} [get]
func (h *RoleHandler) GetByName(c echo.Context) error {
	role, err := h.svc.GetByName(c.Request().Context(), model.RoleName(c.Param("name")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Create godoc
// @Summary Create role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role body RoleRequest true "Role payload"
// @Success 201 {object} RoleResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.svc.Create(c.Request().Context(), middleware.CurrentUser(c), model.RoleName(req.Name))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoleResponse(role))
}

// Update godoc
// @Summary Update role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param role body RoleRequest true "Role payload"
// @Success 200 {object} RoleResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.svc.Update(c.Request().Context(), middleware.CurrentUser(c), id, model.RoleName(req.Name))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Delete godoc
// @Summary Delete role
// @Tags roles
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 204 "No Content"
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
