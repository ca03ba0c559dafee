package service

import (
	"context"
	"fmt"
	"time"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/model"
	"otica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashService interface {
	Open(ctx context.Context, orgID string, staffID uuid.UUID, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	MySession(ctx context.Context, orgID string, staffID uuid.UUID) (*dto.SessionDetailResponse, error)
	Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.SessionDetailResponse, error)
	RecordMovement(ctx context.Context, orgID string, staffID, sessionID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error)
	Close(ctx context.Context, orgID string, staffID, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	Audit(ctx context.Context, orgID string, actorID uuid.UUID, actorRole string, sessionID uuid.UUID, req dto.AuditSessionRequest) (*dto.SessionResponse, error)
	List(ctx context.Context, orgID string, filter dto.SessionFilter) (*dto.SessionListResponse, error)
	Stats(ctx context.Context, orgID string, sessionID uuid.UUID) (*dto.SessionStatsResponse, error)
}

type cashService struct {
	repo           repository.CashRepository
	receivableRepo repository.ReceivableRepository
}

func NewCashService(repo repository.CashRepository, receivableRepo repository.ReceivableRepository) CashService {
	return &cashService{repo: repo, receivableRepo: receivableRepo}
}

func (s *cashService) Open(ctx context.Context, orgID string, staffID uuid.UUID, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apierror.Validation("invalid store_id")
	}
	if existing, err := s.repo.FindOpenByStaff(ctx, orgID, staffID); err == nil {
		return nil, apierror.Conflict("an open session already exists (opened %s)", existing.OpenedAt.Format("2006-01-02 15:04"))
	}

	session := model.CashSession{
		OrganizationID: orgID,
		StoreID:        storeID,
		StaffID:        staffID,
		Status:         model.SessionOpen,
		OpenedAt:       time.Now(),
		OpeningBalance: req.OpeningBalance,
		IsActive:       true,
	}
	if err := s.repo.CreateSession(ctx, &session); err != nil {
		return nil, err
	}
	return sessionToResponse(&session), nil
}

func (s *cashService) MySession(ctx context.Context, orgID string, staffID uuid.UUID) (*dto.SessionDetailResponse, error) {
	session, err := s.repo.FindOpenByStaff(ctx, orgID, staffID)
	if err != nil {
		return nil, apierror.NotFound("no open cash session")
	}
	return s.Get(ctx, orgID, session.ID)
}

func (s *cashService) Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.SessionDetailResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("session %s not found", id)
	}
	movs := make([]dto.MovementResponse, 0, len(session.Movements))
	for i := range session.Movements {
		movs = append(movs, movementToResponse(&session.Movements[i]))
	}
	return &dto.SessionDetailResponse{
		SessionResponse: *sessionToResponse(session),
		Movements:       movs,
	}, nil
}

// RecordMovement appends to the drawer log. Withdrawals cannot take out more
// than the drawer currently holds.
func (s *cashService) RecordMovement(ctx context.Context, orgID string, staffID, sessionID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, orgID, sessionID)
	if err != nil {
		return nil, apierror.NotFound("session %s not found", sessionID)
	}
	if session.Status != model.SessionOpen {
		return nil, apierror.InvalidTransition("session is %s, movements require an OPEN session", session.Status)
	}
	if session.StaffID != staffID {
		return nil, apierror.Validation("session belongs to another seller")
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("amount must be positive")
	}

	var mov model.CashMovement
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.MovementType == model.MovementWithdrawal {
			deposits, withdrawals, err := s.repo.SumMovements(ctx, tx, session.ID)
			if err != nil {
				return err
			}
			expected := session.OpeningBalance.Add(deposits).Sub(withdrawals)
			if req.Amount.GreaterThan(expected) {
				return apierror.Validation("withdrawal of %s exceeds the drawer balance of %s", req.Amount, expected)
			}
		}
		mov = model.CashMovement{
			OrganizationID: orgID,
			CashSessionID:  session.ID,
			StaffID:        staffID,
			MovementType:   req.MovementType,
			Amount:         req.Amount,
			Description:    req.Description,
			MovementDate:   time.Now(),
			IsActive:       true,
		}
		return s.repo.CreateMovement(ctx, tx, &mov)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := movementToResponse(&mov)
	return &resp, nil
}

// Close freezes the log, computes the expected balance and compares it with
// what the operator counted. calculated = opening + deposits - withdrawals;
// discrepancy = calculated - declared. Zero closes clean, anything else
// parks the session for a manager.
func (s *cashService) Close(ctx context.Context, orgID string, staffID, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, orgID, sessionID)
	if err != nil {
		return nil, apierror.NotFound("session %s not found", sessionID)
	}
	if session.Status != model.SessionOpen {
		return nil, apierror.InvalidTransition("session is already %s", session.Status)
	}
	if session.StaffID != staffID {
		return nil, apierror.Validation("session belongs to another seller")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		deposits, withdrawals, err := s.repo.SumMovements(ctx, tx, session.ID)
		if err != nil {
			return err
		}
		calculated := session.OpeningBalance.Add(deposits).Sub(withdrawals)
		discrepancy := calculated.Sub(req.DeclaredBalance)

		now := time.Now()
		session.ClosedAt = &now
		session.ClosingBalance = &req.DeclaredBalance
		session.CalculatedBalance = &calculated
		session.Discrepancy = &discrepancy
		if req.Notes != nil {
			session.AuditNotes = req.Notes
		}
		if discrepancy.IsZero() {
			session.Status = model.SessionClosed
		} else {
			session.Status = model.SessionPendingAudit
		}
		return s.repo.UpdateSession(ctx, tx, session)
	})
	if txErr != nil {
		return nil, txErr
	}
	return sessionToResponse(session), nil
}

// Audit resolves a PENDING_AUDIT session. CORRECT_VALUE replaces the
// calculated balance and recomputes the discrepancy against the declared
// count; CHARGE_STAFF books the shortage as a receivable against the seller;
// ACCEPT_LOSS just records the decision.
func (s *cashService) Audit(ctx context.Context, orgID string, actorID uuid.UUID, actorRole string, sessionID uuid.UUID, req dto.AuditSessionRequest) (*dto.SessionResponse, error) {
	if !model.IsElevatedRole(actorRole) {
		return nil, apierror.RequiresApproval("auditing a cash session requires a manager")
	}
	session, err := s.repo.FindSessionByID(ctx, orgID, sessionID)
	if err != nil {
		return nil, apierror.NotFound("session %s not found", sessionID)
	}
	if session.Status != model.SessionPendingAudit {
		return nil, apierror.InvalidTransition("session is %s, only PENDING_AUDIT sessions can be audited", session.Status)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		switch req.Action {
		case model.AuditCorrectValue:
			if req.CorrectedBalance == nil {
				return apierror.Validation("CORRECT_VALUE requires corrected_balance")
			}
			// The corrected figure becomes the calculated balance; the
			// declared count stands.
			calculated := *req.CorrectedBalance
			discrepancy := calculated.Sub(*session.ClosingBalance)
			session.CalculatedBalance = &calculated
			session.Discrepancy = &discrepancy
		case model.AuditChargeStaff:
			if session.Discrepancy == nil || !session.Discrepancy.IsPositive() {
				return apierror.Validation("CHARGE_STAFF only applies to a cash shortage")
			}
			staffID := session.StaffID
			rcv := model.Receivable{
				OrganizationID:  orgID,
				StaffID:         &staffID,
				Description:     fmt.Sprintf("Cash shortage on session closed %s", session.ClosedAt.Format("2006-01-02")),
				TotalAmount:     *session.Discrepancy,
				RemainingAmount: *session.Discrepancy,
				Status:          model.ReceivablePending,
				DueDate:         time.Now().AddDate(0, 1, 0),
				IsActive:        true,
			}
			if err := s.receivableRepo.Create(ctx, tx, &rcv); err != nil {
				return err
			}
		case model.AuditAcceptLoss:
			// Decision recorded below; nothing else to book.
		}

		now := time.Now()
		action := req.Action
		session.Status = model.SessionClosed
		session.AuditAction = &action
		session.AuditNotes = &req.Notes
		session.AuditResolvedBy = &actorID
		session.AuditResolvedAt = &now
		return s.repo.UpdateSession(ctx, tx, session)
	})
	if txErr != nil {
		return nil, txErr
	}
	return sessionToResponse(session), nil
}

func (s *cashService) List(ctx context.Context, orgID string, filter dto.SessionFilter) (*dto.SessionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sessions, total, err := s.repo.ListSessions(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		data = append(data, *sessionToResponse(&sessions[i]))
	}
	return &dto.SessionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *cashService) Stats(ctx context.Context, orgID string, sessionID uuid.UUID) (*dto.SessionStatsResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, orgID, sessionID)
	if err != nil {
		return nil, apierror.NotFound("session %s not found", sessionID)
	}
	deposits, withdrawals := decimal.Zero, decimal.Zero
	for i := range session.Movements {
		switch session.Movements[i].MovementType {
		case model.MovementDeposit:
			deposits = deposits.Add(session.Movements[i].Amount)
		case model.MovementWithdrawal:
			withdrawals = withdrawals.Add(session.Movements[i].Amount)
		}
	}
	return &dto.SessionStatsResponse{
		OpeningBalance:   session.OpeningBalance,
		TotalDeposits:    deposits,
		TotalWithdrawals: withdrawals,
		ExpectedBalance:  session.OpeningBalance.Add(deposits).Sub(withdrawals),
		MovementCount:    len(session.Movements),
	}, nil
}

func sessionToResponse(s *model.CashSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:                s.ID.String(),
		StoreID:           s.StoreID.String(),
		OpenedBy:          s.StaffID.String(),
		Status:            s.Status,
		OpeningBalance:    s.OpeningBalance,
		ClosingBalance:    s.ClosingBalance,
		CalculatedBalance: s.CalculatedBalance,
		Discrepancy:       s.Discrepancy,
		AuditAction:       s.AuditAction,
		AuditNotes:        s.AuditNotes,
		OpenedAt:          s.OpenedAt.Format(time.RFC3339),
	}
	if s.AuditResolvedBy != nil {
		v := s.AuditResolvedBy.String()
		resp.AuditResolvedBy = &v
	}
	if s.ClosedAt != nil {
		v := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}

func movementToResponse(m *model.CashMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:           m.ID.String(),
		MovementType: m.MovementType,
		Amount:       m.Amount,
		Description:  m.Description,
		CreatedBy:    m.StaffID.String(),
		CreatedAt:    m.MovementDate.Format(time.RFC3339),
	}
	if m.ReferenceID != nil {
		v := m.ReferenceID.String()
		resp.ReferenceID = &v
	}
	return resp
}
