package handler

import (
	"net/http"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/middleware"
	"otica/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReceivableHandler struct{ svc service.ReceivableService }

func NewReceivableHandler(svc service.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{svc: svc}
}

// Get godoc
// @Summary Fetches a receivable
// @Tags receivables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Receivable ID"
// @Success 200 {object} dto.ReceivableResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/receivables/{id} [get]
func (h *ReceivableHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid receivable id"))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.Get(c.Request.Context(), actor.OrganizationID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Lists receivables with filters and pagination
// @Tags receivables
// @Produce json
// @Security BearerAuth
// @Param customer_id query string false "Customer ID"
// @Param staff_id query string false "Staff ID"
// @Param status query string false "Receivable status"
// @Param overdue query bool false "Only overdue"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ReceivableListResponse
// @Router /v1/receivables [get]
func (h *ReceivableHandler) List(c *gin.Context) {
	var filter dto.ReceivableFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.List(c.Request.Context(), actor.OrganizationID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Settle godoc
// @Summary Records a payment against a receivable
// @Tags receivables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Receivable ID"
// @Param body body dto.SettleReceivableRequest true "Payment data"
// @Success 200 {object} dto.ReceivableResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/receivables/{id}/settle [post]
func (h *ReceivableHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid receivable id"))
		return
	}
	var req dto.SettleReceivableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.Settle(c.Request.Context(), actor.OrganizationID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
