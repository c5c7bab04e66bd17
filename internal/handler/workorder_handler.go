package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	"github.com/sgmi-dev/sgmi-api/internal/service"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
	"github.com/sgmi-dev/sgmi-api/pkg/response"
)

// WorkOrderHandler exposes work order endpoints.
type WorkOrderHandler struct {
	orders *service.WorkOrderService
}

// NewWorkOrderHandler constructs WorkOrderHandler.
func NewWorkOrderHandler(orders *service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{orders: orders}
}

// List returns all work orders, newest first.
func (h *WorkOrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, orders, nil)
}

// Get returns a single work order by code.
func (h *WorkOrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// Create opens a new work order attributed to the authenticated caller.
func (h *WorkOrderHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req models.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// Update edits work order fields.
func (h *WorkOrderHandler) Update(c *gin.Context) {
	var req models.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	order, err := h.orders.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// TransitionStatus moves a work order through its lifecycle.
func (h *WorkOrderHandler) TransitionStatus(c *gin.Context) {
	var req models.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	order, err := h.orders.TransitionStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// Delete removes a work order.
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
