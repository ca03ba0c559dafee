package service

import (
	"context"
	"time"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/model"
	"otica/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceivableService interface {
	Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.ReceivableResponse, error)
	List(ctx context.Context, orgID string, filter dto.ReceivableFilter) (*dto.ReceivableListResponse, error)
	Settle(ctx context.Context, orgID string, id uuid.UUID, req dto.SettleReceivableRequest) (*dto.ReceivableResponse, error)
	MarkOverdue(ctx context.Context) (int64, error)
}

type receivableService struct {
	repo repository.ReceivableRepository
}

func NewReceivableService(repo repository.ReceivableRepository) ReceivableService {
	return &receivableService{repo: repo}
}

func (s *receivableService) Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.ReceivableResponse, error) {
	rcv, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("receivable %s not found", id)
	}
	return receivableToResponse(rcv), nil
}

func (s *receivableService) List(ctx context.Context, orgID string, filter dto.ReceivableFilter) (*dto.ReceivableListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	rcvs, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ReceivableResponse, 0, len(rcvs))
	for i := range rcvs {
		data = append(data, *receivableToResponse(&rcvs[i]))
	}
	return &dto.ReceivableListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Settle records a payment. Partial payments are allowed; overpayment is not.
func (s *receivableService) Settle(ctx context.Context, orgID string, id uuid.UUID, req dto.SettleReceivableRequest) (*dto.ReceivableResponse, error) {
	rcv, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("receivable %s not found", id)
	}
	switch rcv.Status {
	case model.ReceivablePaid:
		return nil, apierror.InvalidTransition("receivable is already settled")
	case model.ReceivableCancelled:
		return nil, apierror.InvalidTransition("receivable was cancelled")
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("amount must be positive")
	}
	if req.Amount.GreaterThan(rcv.RemainingAmount) {
		return nil, apierror.Validation("payment of %s exceeds the remaining %s", req.Amount, rcv.RemainingAmount)
	}

	rcv.PaidAmount = rcv.PaidAmount.Add(req.Amount)
	rcv.RemainingAmount = rcv.TotalAmount.Sub(rcv.PaidAmount)
	if req.Notes != nil {
		rcv.Notes = req.Notes
	}
	if rcv.RemainingAmount.IsZero() {
		now := time.Now()
		rcv.Status = model.ReceivablePaid
		rcv.PaidAt = &now
	} else {
		rcv.Status = model.ReceivablePartial
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, rcv)
	}); err != nil {
		return nil, err
	}
	return receivableToResponse(rcv), nil
}

func (s *receivableService) MarkOverdue(ctx context.Context) (int64, error) {
	return s.repo.MarkOverdue(ctx, time.Now())
}

func receivableToResponse(r *model.Receivable) *dto.ReceivableResponse {
	resp := &dto.ReceivableResponse{
		ID:              r.ID.String(),
		Description:     r.Description,
		TotalAmount:     r.TotalAmount,
		PaidAmount:      r.PaidAmount,
		RemainingAmount: r.RemainingAmount,
		Status:          r.Status,
		DueDate:         r.DueDate.Format("2006-01-02"),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.CustomerID != nil {
		v := r.CustomerID.String()
		resp.CustomerID = &v
	}
	if r.StaffID != nil {
		v := r.StaffID.String()
		resp.StaffID = &v
	}
	if r.SaleID != nil {
		v := r.SaleID.String()
		resp.SaleID = &v
	}
	return resp
}
