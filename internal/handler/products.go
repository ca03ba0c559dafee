package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/middleware"
	"otica/internal/repository"
	"otica/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const priceCacheTTL = 4 * time.Hour

type ProductHandler struct {
	svc  service.ProductService
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductHandler(svc service.ProductService, repo repository.ProductRepository, rdb *redis.Client) *ProductHandler {
	return &ProductHandler{svc: svc, repo: repo, rdb: rdb}
}

// CreateFrame godoc
// @Summary Registers a frame in the catalog
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateFrameRequest true "Frame data"
// @Success 201 {object} dto.FrameResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/products/frames [post]
func (h *ProductHandler) CreateFrame(c *gin.Context) {
	var req dto.CreateFrameRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.CreateFrame(c.Request.Context(), actor.OrganizationID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetFrame godoc
// @Summary Fetches a frame
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Frame ID"
// @Success 200 {object} dto.FrameResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/frames/{id} [get]
func (h *ProductHandler) GetFrame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid frame id"))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.GetFrame(c.Request.Context(), actor.OrganizationID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateFrame godoc
// @Summary Updates a frame
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Frame ID"
// @Param body body dto.UpdateFrameRequest true "Fields to update"
// @Success 200 {object} dto.FrameResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/frames/{id} [patch]
func (h *ProductHandler) UpdateFrame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid frame id"))
		return
	}
	var req dto.UpdateFrameRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.UpdateFrame(c.Request.Context(), actor.OrganizationID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	// Stale price entries expire on their own; drop this one eagerly.
	h.invalidatePrice(c.Request.Context(), actor.OrganizationID, resp.ReferenceCode)
	c.JSON(http.StatusOK, resp)
}

// ListFrames godoc
// @Summary Lists frames with search and pagination
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or reference search"
// @Param active query bool false "Only active products"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.FrameListResponse
// @Router /v1/products/frames [get]
func (h *ProductHandler) ListFrames(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.ListFrames(c.Request.Context(), actor.OrganizationID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateLens godoc
// @Summary Registers a lens in the catalog
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateLensRequest true "Lens data"
// @Success 201 {object} dto.LensResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/products/lenses [post]
func (h *ProductHandler) CreateLens(c *gin.Context) {
	var req dto.CreateLensRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.CreateLens(c.Request.Context(), actor.OrganizationID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetLens godoc
// @Summary Fetches a lens
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lens ID"
// @Success 200 {object} dto.LensResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/lenses/{id} [get]
func (h *ProductHandler) GetLens(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid lens id"))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.GetLens(c.Request.Context(), actor.OrganizationID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateLens godoc
// @Summary Updates a lens
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lens ID"
// @Param body body dto.UpdateLensRequest true "Fields to update"
// @Success 200 {object} dto.LensResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/lenses/{id} [patch]
func (h *ProductHandler) UpdateLens(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid lens id"))
		return
	}
	var req dto.UpdateLensRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.UpdateLens(c.Request.Context(), actor.OrganizationID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListLenses godoc
// @Summary Lists lenses with search and pagination
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or brand search"
// @Param active query bool false "Only active products"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.LensListResponse
// @Router /v1/products/lenses [get]
func (h *ProductHandler) ListLenses(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	actor := middleware.GetActor(c)

	resp, err := h.svc.ListLenses(c.Request.Context(), actor.OrganizationID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PriceByReference godoc
// @Summary Quick frame price lookup by reference code
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference code"
// @Success 200 {object} dto.PriceLookupResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/price/{reference} [get]
func (h *ProductHandler) PriceByReference(c *gin.Context) {
	reference := c.Param("reference")
	actor := middleware.GetActor(c)
	ctx := c.Request.Context()
	cacheKey := priceCacheKey(actor.OrganizationID, reference)

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceLookupResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			resp.FromCache = true
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	frame, err := h.repo.FindFrameByReference(ctx, actor.OrganizationID, reference)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	resp := dto.PriceLookupResponse{
		ProductID:     frame.ID.String(),
		ReferenceCode: frame.ReferenceCode,
		Name:          frame.Name,
		SalePrice:     frame.SalePrice,
	}

	// Populate cache best effort, ignore errors.
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) invalidatePrice(ctx context.Context, orgID, reference string) {
	_ = h.rdb.Del(ctx, priceCacheKey(orgID, reference)).Err()
}

func priceCacheKey(orgID, reference string) string {
	return "price:" + orgID + ":" + reference
}
