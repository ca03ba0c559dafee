package handler

import (
	"net/http"

	"otica/internal/middleware"
	"otica/internal/service"

	"github.com/gin-gonic/gin"
)

// LabHandler serves the lab board: paid orders grouped by production stage.
type LabHandler struct{ svc service.OrderService }

func NewLabHandler(svc service.OrderService) *LabHandler { return &LabHandler{svc: svc} }

// Queue godoc
// @Summary Lists in-flight orders grouped by production stage
// @Tags lab
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LabQueueResponse
// @Router /v1/lab/queue [get]
func (h *LabHandler) Queue(c *gin.Context) {
	actor := middleware.GetActor(c)

	resp, err := h.svc.LabQueue(c.Request.Context(), actor.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
