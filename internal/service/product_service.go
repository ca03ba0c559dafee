package service

import (
	"context"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/model"
	"otica/internal/repository"

	"github.com/google/uuid"
)

type ProductService interface {
	CreateFrame(ctx context.Context, orgID string, req dto.CreateFrameRequest) (*dto.FrameResponse, error)
	GetFrame(ctx context.Context, orgID string, id uuid.UUID) (*dto.FrameResponse, error)
	UpdateFrame(ctx context.Context, orgID string, id uuid.UUID, req dto.UpdateFrameRequest) (*dto.FrameResponse, error)
	ListFrames(ctx context.Context, orgID string, filter dto.ProductFilter) (*dto.FrameListResponse, error)
	FindFrameByReference(ctx context.Context, orgID, reference string) (*dto.FrameResponse, error)

	CreateLens(ctx context.Context, orgID string, req dto.CreateLensRequest) (*dto.LensResponse, error)
	GetLens(ctx context.Context, orgID string, id uuid.UUID) (*dto.LensResponse, error)
	UpdateLens(ctx context.Context, orgID string, id uuid.UUID, req dto.UpdateLensRequest) (*dto.LensResponse, error)
	ListLenses(ctx context.Context, orgID string, filter dto.ProductFilter) (*dto.LensListResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) CreateFrame(ctx context.Context, orgID string, req dto.CreateFrameRequest) (*dto.FrameResponse, error) {
	if _, err := s.repo.FindFrameByReference(ctx, orgID, req.ReferenceCode); err == nil {
		return nil, apierror.Conflict("reference code %s already exists", req.ReferenceCode)
	}
	f := model.ProductFrame{
		OrganizationID: orgID,
		ReferenceCode:  req.ReferenceCode,
		Name:           req.Name,
		Brand:          req.Brand,
		Color:          req.Color,
		Material:       req.Material,
		CostPrice:      req.CostPrice,
		SalePrice:      req.SalePrice,
		IsActive:       true,
	}
	if err := s.repo.CreateFrame(ctx, &f); err != nil {
		return nil, err
	}
	return frameToResponse(&f), nil
}

func (s *productService) GetFrame(ctx context.Context, orgID string, id uuid.UUID) (*dto.FrameResponse, error) {
	f, err := s.repo.FindFrameByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("frame %s not found", id)
	}
	return frameToResponse(f), nil
}

func (s *productService) UpdateFrame(ctx context.Context, orgID string, id uuid.UUID, req dto.UpdateFrameRequest) (*dto.FrameResponse, error) {
	f, err := s.repo.FindFrameByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("frame %s not found", id)
	}
	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Brand != nil {
		f.Brand = req.Brand
	}
	if req.Color != nil {
		f.Color = req.Color
	}
	if req.Material != nil {
		f.Material = req.Material
	}
	if req.CostPrice != nil {
		f.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		f.SalePrice = *req.SalePrice
	}
	if req.Active != nil {
		f.IsActive = *req.Active
	}
	if err := s.repo.UpdateFrame(ctx, f); err != nil {
		return nil, err
	}
	return frameToResponse(f), nil
}

func (s *productService) ListFrames(ctx context.Context, orgID string, filter dto.ProductFilter) (*dto.FrameListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	frames, total, err := s.repo.ListFrames(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.FrameResponse, 0, len(frames))
	for i := range frames {
		data = append(data, *frameToResponse(&frames[i]))
	}
	return &dto.FrameListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) FindFrameByReference(ctx context.Context, orgID, reference string) (*dto.FrameResponse, error) {
	f, err := s.repo.FindFrameByReference(ctx, orgID, reference)
	if err != nil {
		return nil, apierror.NotFound("no frame with reference %s", reference)
	}
	return frameToResponse(f), nil
}

func (s *productService) CreateLens(ctx context.Context, orgID string, req dto.CreateLensRequest) (*dto.LensResponse, error) {
	l := model.ProductLens{
		OrganizationID: orgID,
		Name:           req.Name,
		Brand:          req.Brand,
		Treatment:      req.Treatment,
		SalePrice:      req.SalePrice,
		IsLabOrder:     req.IsLabOrder,
		IsActive:       true,
	}
	if err := s.repo.CreateLens(ctx, &l); err != nil {
		return nil, err
	}
	return lensToResponse(&l), nil
}

func (s *productService) GetLens(ctx context.Context, orgID string, id uuid.UUID) (*dto.LensResponse, error) {
	l, err := s.repo.FindLensByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("lens %s not found", id)
	}
	return lensToResponse(l), nil
}

func (s *productService) UpdateLens(ctx context.Context, orgID string, id uuid.UUID, req dto.UpdateLensRequest) (*dto.LensResponse, error) {
	l, err := s.repo.FindLensByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("lens %s not found", id)
	}
	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Brand != nil {
		l.Brand = req.Brand
	}
	if req.Treatment != nil {
		l.Treatment = req.Treatment
	}
	if req.SalePrice != nil {
		l.SalePrice = *req.SalePrice
	}
	if req.IsLabOrder != nil {
		l.IsLabOrder = *req.IsLabOrder
	}
	if req.Active != nil {
		l.IsActive = *req.Active
	}
	if err := s.repo.UpdateLens(ctx, l); err != nil {
		return nil, err
	}
	return lensToResponse(l), nil
}

func (s *productService) ListLenses(ctx context.Context, orgID string, filter dto.ProductFilter) (*dto.LensListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	lenses, total, err := s.repo.ListLenses(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LensResponse, 0, len(lenses))
	for i := range lenses {
		data = append(data, *lensToResponse(&lenses[i]))
	}
	return &dto.LensListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func frameToResponse(f *model.ProductFrame) *dto.FrameResponse {
	return &dto.FrameResponse{
		ID:            f.ID.String(),
		ReferenceCode: f.ReferenceCode,
		Name:          f.Name,
		Brand:         f.Brand,
		Color:         f.Color,
		Material:      f.Material,
		CostPrice:     f.CostPrice,
		SalePrice:     f.SalePrice,
		Active:        f.IsActive,
	}
}

func lensToResponse(l *model.ProductLens) *dto.LensResponse {
	return &dto.LensResponse{
		ID:         l.ID.String(),
		Name:       l.Name,
		Brand:      l.Brand,
		Treatment:  l.Treatment,
		SalePrice:  l.SalePrice,
		IsLabOrder: l.IsLabOrder,
		Active:     l.IsActive,
	}
}
