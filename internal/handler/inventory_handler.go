package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	"github.com/sgmi-dev/sgmi-api/internal/service"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
	"github.com/sgmi-dev/sgmi-api/pkg/response"
)

// InventoryHandler exposes inventory endpoints.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler constructs InventoryHandler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List returns all items ordered by name.
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ListBelowMinimum returns items under their stock threshold.
func (h *InventoryHandler) ListBelowMinimum(c *gin.Context) {
	items, err := h.inventory.ListBelowMinimum(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get returns a single item.
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.inventory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create registers a new item.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req models.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	item, err := h.inventory.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update edits item metadata.
func (h *InventoryHandler) Update(c *gin.Context) {
	var req models.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	item, err := h.inventory.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete removes an item.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.inventory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Adjust applies a stock movement.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req models.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	item, err := h.inventory.AdjustQuantity(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
