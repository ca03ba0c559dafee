package handler

import (
	"net/http"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/middleware"
	"otica/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// AdjustStock godoc
// @Summary Records a manual frame stock entry or exit
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AdjustStockRequest true "Adjustment data"
// @Success 204 "No Content"
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventory/adjust [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	if err := h.svc.AdjustStock(c.Request.Context(), actor.OrganizationID, actor.ID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustLensStock godoc
// @Summary Records a manual lens grid stock entry or exit
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AdjustLensStockRequest true "Adjustment data"
// @Success 204 "No Content"
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventory/adjust-lens [post]
func (h *InventoryHandler) AdjustLensStock(c *gin.Context) {
	var req dto.AdjustLensStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	if err := h.svc.AdjustLensStock(c.Request.Context(), actor.OrganizationID, actor.ID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLevels godoc
// @Summary Lists per-store inventory levels with reservations
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param store_id query string false "Store ID"
// @Param low_stock query bool false "Only low stock levels"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.LevelListResponse
// @Router /v1/inventory/levels [get]
func (h *InventoryHandler) ListLevels(c *gin.Context) {
	var filter dto.LevelFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.ListLevels(c.Request.Context(), actor.OrganizationID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMovements godoc
// @Summary Lists the stock movement history (kardex)
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param store_id query string false "Store ID"
// @Param frame_id query string false "Frame ID"
// @Param lens_id query string false "Lens ID"
// @Param movement_type query string false "Movement type"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.StockMovementListResponse
// @Router /v1/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.ListMovements(c.Request.Context(), actor.OrganizationID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
