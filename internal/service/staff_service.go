package service

import (
	"context"
	"time"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/identity"
	"otica/internal/model"
	"otica/internal/repository"
	"otica/internal/worker"

	"github.com/google/uuid"
)

type StaffService interface {
	Invite(ctx context.Context, orgID string, req dto.InviteStaffRequest) (*dto.StaffResponse, error)
	Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.StaffResponse, error)
	Update(ctx context.Context, orgID string, id uuid.UUID, req dto.UpdateStaffRequest) (*dto.StaffResponse, error)
	List(ctx context.Context, orgID string, filter dto.StaffFilter) (*dto.StaffListResponse, error)
}

type staffService struct {
	repo       repository.StaffRepository
	provider   identity.Provider
	dispatcher *worker.Dispatcher
}

func NewStaffService(repo repository.StaffRepository, provider identity.Provider, dispatcher *worker.Dispatcher) StaffService {
	return &staffService{repo: repo, provider: provider, dispatcher: dispatcher}
}

// Invite registers the employee locally and asks the identity provider to
// send its own invitation. The local row links up on first login, when the
// auth middleware stores the provider's user id.
func (s *staffService) Invite(ctx context.Context, orgID string, req dto.InviteStaffRequest) (*dto.StaffResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, orgID, req.Email); err == nil {
		return nil, apierror.Conflict("%s is already a staff member", req.Email)
	}

	member := model.StaffMember{
		OrganizationID: orgID,
		FullName:       req.FullName,
		Email:          req.Email,
		Role:           req.Role,
		Department:     req.Department,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, &member); err != nil {
		return nil, err
	}

	if err := s.provider.InviteUser(ctx, req.Email, req.Role, orgID); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueEmail(ctx, map[string]interface{}{
			"template": "staff_welcome",
			"to":       req.Email,
			"name":     req.FullName,
		})
	}

	return staffToResponse(&member), nil
}

func (s *staffService) Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.StaffResponse, error) {
	member, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("staff member %s not found", id)
	}
	return staffToResponse(member), nil
}

func (s *staffService) Update(ctx context.Context, orgID string, id uuid.UUID, req dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	member, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("staff member %s not found", id)
	}
	if req.FullName != nil {
		member.FullName = *req.FullName
	}
	if req.Role != nil {
		member.Role = *req.Role
	}
	if req.Department != nil {
		member.Department = req.Department
	}
	if req.Active != nil {
		member.IsActive = *req.Active
	}
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return staffToResponse(member), nil
}

func (s *staffService) List(ctx context.Context, orgID string, filter dto.StaffFilter) (*dto.StaffListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	members, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		data = append(data, *staffToResponse(&members[i]))
	}
	return &dto.StaffListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func staffToResponse(m *model.StaffMember) *dto.StaffResponse {
	return &dto.StaffResponse{
		ID:         m.ID.String(),
		FullName:   m.FullName,
		Email:      m.Email,
		Role:       m.Role,
		Department: m.Department,
		Active:     m.IsActive,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}
