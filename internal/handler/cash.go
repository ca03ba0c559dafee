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

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

// Open godoc
// @Summary Opens a cash session for the authenticated staff member
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenSessionRequest true "Opening data"
// @Success 201 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash/open [post]
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.Open(c.Request.Context(), actor.OrganizationID, actor.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MySession godoc
// @Summary Fetches the authenticated staff member's open session
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionDetailResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash/my-session [get]
func (h *CashHandler) MySession(c *gin.Context) {
	actor := middleware.GetActor(c)

	resp, err := h.svc.MySession(c.Request.Context(), actor.OrganizationID, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Fetches a cash session with its movements
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionDetailResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash/sessions/{id} [get]
func (h *CashHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
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

// RecordMovement godoc
// @Summary Records a deposit or withdrawal on an open session
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body dto.MovementRequest true "Movement data"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cash/sessions/{id}/movements [post]
func (h *CashHandler) RecordMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.RecordMovement(c.Request.Context(), actor.OrganizationID, actor.ID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Closes a session against a blind declared balance
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body dto.CloseSessionRequest true "Declared balance"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cash/sessions/{id}/close [post]
func (h *CashHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.Close(c.Request.Context(), actor.OrganizationID, actor.ID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Audit godoc
// @Summary Resolves a session held in PENDING_AUDIT
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body dto.AuditSessionRequest true "Audit resolution"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/cash/sessions/{id}/audit [post]
func (h *CashHandler) Audit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.AuditSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.Audit(c.Request.Context(), actor.OrganizationID, actor.ID, actor.Role, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Lists cash sessions with filters and pagination
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Param status query string false "Session status"
// @Param store_id query string false "Store ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.SessionListResponse
// @Router /v1/cash/sessions [get]
func (h *CashHandler) List(c *gin.Context) {
	var filter dto.SessionFilter
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

// Stats godoc
// @Summary Summarizes a session's movements and expected balance
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStatsResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash/sessions/{id}/stats [get]
func (h *CashHandler) Stats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.Stats(c.Request.Context(), actor.OrganizationID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
