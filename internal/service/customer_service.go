package service

import (
	"context"
	"time"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/model"
	"otica/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, orgID string, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.CustomerResponse, error)
	Update(ctx context.Context, orgID string, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, orgID string, id uuid.UUID) error
	List(ctx context.Context, orgID string, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, orgID string, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if existing, err := s.repo.FindByDocument(ctx, orgID, req.Document); err == nil {
		return nil, apierror.Conflict("document %s already registered to %s", req.Document, existing.FullName)
	}
	c := model.Customer{
		OrganizationID: orgID,
		FullName:       req.FullName,
		Document:       req.Document,
		Email:          req.Email,
		Phone:          req.Phone,
		Notes:          req.Notes,
		IsActive:       true,
	}
	if req.BirthDate != nil {
		bd, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, apierror.Validation("birth_date must be YYYY-MM-DD")
		}
		c.BirthDate = &bd
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return customerToResponse(&c), nil
}

func (s *customerService) Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", id)
	}
	return customerToResponse(c), nil
}

func (s *customerService) Update(ctx context.Context, orgID string, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", id)
	}
	if req.FullName != nil {
		c.FullName = *req.FullName
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}
	if req.BirthDate != nil {
		bd, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, apierror.Validation("birth_date must be YYYY-MM-DD")
		}
		c.BirthDate = &bd
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Deactivate(ctx context.Context, orgID string, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return apierror.NotFound("customer %s not found", id)
	}
	c.IsActive = false
	return s.repo.Update(ctx, c)
}

func (s *customerService) List(ctx context.Context, orgID string, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	customers, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		data = append(data, *customerToResponse(&customers[i]))
	}
	return &dto.CustomerListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:        c.ID.String(),
		FullName:  c.FullName,
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.BirthDate != nil {
		v := c.BirthDate.Format("2006-01-02")
		resp.BirthDate = &v
	}
	return resp
}
