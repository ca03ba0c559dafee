package service

import (
	"context"
	"testing"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cashEnv struct {
	repo        *fakeCashRepo
	receivables *fakeReceivableRepo
	svc         CashService

	orgID   string
	storeID uuid.UUID
	staffID uuid.UUID
}

func newCashEnv(t *testing.T) *cashEnv {
	t.Helper()
	env := &cashEnv{
		repo:        newFakeCashRepo(),
		receivables: newFakeReceivableRepo(),
		orgID:       "org-1",
		storeID:     uuid.New(),
		staffID:     uuid.New(),
	}
	env.svc = NewCashService(env.repo, env.receivables)
	return env
}

func (e *cashEnv) openSession(t *testing.T, opening int64) uuid.UUID {
	t.Helper()
	resp, err := e.svc.Open(context.Background(), e.orgID, e.staffID, dto.OpenSessionRequest{
		StoreID:        e.storeID.String(),
		OpeningBalance: decimal.NewFromInt(opening),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func (e *cashEnv) move(t *testing.T, sessionID uuid.UUID, movType string, amount int64, desc string) {
	t.Helper()
	_, err := e.svc.RecordMovement(context.Background(), e.orgID, e.staffID, sessionID, dto.MovementRequest{
		MovementType: movType,
		Amount:       decimal.NewFromInt(amount),
		Description:  desc,
	})
	require.NoError(t, err)
}

func TestOpenSessionOnlyOnePerSeller(t *testing.T) {
	env := newCashEnv(t)
	env.openSession(t, 100)

	_, err := env.svc.Open(context.Background(), env.orgID, env.staffID, dto.OpenSessionRequest{
		StoreID:        env.storeID.String(),
		OpeningBalance: decimal.NewFromInt(50),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// A different seller opens fine.
	_, err = env.svc.Open(context.Background(), env.orgID, uuid.New(), dto.OpenSessionRequest{
		StoreID:        env.storeID.String(),
		OpeningBalance: decimal.NewFromInt(50),
	})
	assert.NoError(t, err)
}

func TestCloseWithExactCount(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	env.move(t, id, model.MovementWithdrawal, 20, "change for the till next door")
	env.move(t, id, model.MovementDeposit, 50, "walk-in sale")

	resp, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(130),
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionClosed, resp.Status)
	require.NotNil(t, resp.CalculatedBalance)
	assert.True(t, resp.CalculatedBalance.Equal(decimal.NewFromInt(130)))
	assert.True(t, resp.Discrepancy.IsZero())
	assert.NotNil(t, resp.ClosedAt)
}

func TestCloseWithShortageParksForAudit(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	env.move(t, id, model.MovementWithdrawal, 20, "supplier cod payment")
	env.move(t, id, model.MovementDeposit, 50, "walk-in sale")

	resp, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(125),
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionPendingAudit, resp.Status)
	assert.True(t, resp.Discrepancy.Equal(decimal.NewFromInt(5)))

	// The declared value stands; no second count.
	_, err = env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(130),
	})
	assert.Equal(t, apierror.KindInvalidTransition, apierror.KindOf(err))
}

func TestWithdrawalCannotExceedDrawer(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	env.move(t, id, model.MovementWithdrawal, 60, "bank deposit run")

	_, err := env.svc.RecordMovement(context.Background(), env.orgID, env.staffID, id, dto.MovementRequest{
		MovementType: model.MovementWithdrawal,
		Amount:       decimal.NewFromInt(50),
		Description:  "second bank run",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestMovementRejectedForOtherSeller(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)

	_, err := env.svc.RecordMovement(context.Background(), env.orgID, uuid.New(), id, dto.MovementRequest{
		MovementType: model.MovementDeposit,
		Amount:       decimal.NewFromInt(10),
		Description:  "found on the floor",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestAuditRequiresManager(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	_, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(90),
	})
	require.NoError(t, err)

	_, err = env.svc.Audit(context.Background(), env.orgID, env.staffID, model.RoleSeller, id, dto.AuditSessionRequest{
		Action: model.AuditAcceptLoss,
		Notes:  "just let it go",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindRequiresApproval, apierror.KindOf(err))
}

func TestAuditAcceptLoss(t *testing.T) {
	env := newCashEnv(t)
	managerID := uuid.New()
	id := env.openSession(t, 100)
	_, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(95),
	})
	require.NoError(t, err)

	resp, err := env.svc.Audit(context.Background(), env.orgID, managerID, model.RoleManager, id, dto.AuditSessionRequest{
		Action: model.AuditAcceptLoss,
		Notes:  "small shortage, counting error",
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionClosed, resp.Status)
	require.NotNil(t, resp.AuditAction)
	assert.Equal(t, model.AuditAcceptLoss, *resp.AuditAction)
	assert.Equal(t, managerID.String(), *resp.AuditResolvedBy)
	// No receivable is booked.
	rcvs, _, _ := env.receivables.List(context.Background(), env.orgID, dto.ReceivableFilter{})
	assert.Empty(t, rcvs)
}

func TestAuditChargeStaffBooksReceivable(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	_, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(85),
	})
	require.NoError(t, err)

	_, err = env.svc.Audit(context.Background(), env.orgID, uuid.New(), model.RoleAdmin, id, dto.AuditSessionRequest{
		Action: model.AuditChargeStaff,
		Notes:  "repeat shortage, charging the seller",
	})
	require.NoError(t, err)

	rcvs, _, _ := env.receivables.List(context.Background(), env.orgID, dto.ReceivableFilter{})
	require.Len(t, rcvs, 1)
	require.NotNil(t, rcvs[0].StaffID)
	assert.Equal(t, env.staffID, *rcvs[0].StaffID)
	assert.Nil(t, rcvs[0].CustomerID)
	assert.True(t, rcvs[0].TotalAmount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, model.ReceivablePending, rcvs[0].Status)
}

func TestAuditChargeStaffRejectsOverage(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	// Declared more than calculated: the drawer holds extra, nothing to charge.
	_, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(110),
	})
	require.NoError(t, err)

	_, err = env.svc.Audit(context.Background(), env.orgID, uuid.New(), model.RoleManager, id, dto.AuditSessionRequest{
		Action: model.AuditChargeStaff,
		Notes:  "charge the seller anyway",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestAuditCorrectValueRecomputes(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	env.move(t, id, model.MovementWithdrawal, 20, "supplier cod payment")
	env.move(t, id, model.MovementDeposit, 50, "walk-in sale")
	_, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(125),
	})
	require.NoError(t, err)

	// The auditor confirms the expected balance really was 130: the corrected
	// figure replaces the calculated side, the declared count of 125 stands,
	// so the 5 shortage is confirmed, not erased.
	corrected := decimal.NewFromInt(130)
	resp, err := env.svc.Audit(context.Background(), env.orgID, uuid.New(), model.RoleManager, id, dto.AuditSessionRequest{
		Action:           model.AuditCorrectValue,
		CorrectedBalance: &corrected,
		Notes:            "recount of the day's movements",
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionClosed, resp.Status)
	require.NotNil(t, resp.CalculatedBalance)
	assert.True(t, resp.CalculatedBalance.Equal(corrected))
	require.NotNil(t, resp.ClosingBalance)
	assert.True(t, resp.ClosingBalance.Equal(decimal.NewFromInt(125)))
	assert.True(t, resp.Discrepancy.Equal(decimal.NewFromInt(5)))
}

func TestAuditCorrectValueCanClearDiscrepancy(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	_, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	// A movement was mis-keyed: the drawer should only have held 80.
	corrected := decimal.NewFromInt(80)
	resp, err := env.svc.Audit(context.Background(), env.orgID, uuid.New(), model.RoleManager, id, dto.AuditSessionRequest{
		Action:           model.AuditCorrectValue,
		CorrectedBalance: &corrected,
		Notes:            "withdrawal entered twice",
	})
	require.NoError(t, err)

	assert.True(t, resp.Discrepancy.IsZero())
	assert.True(t, resp.ClosingBalance.Equal(decimal.NewFromInt(80)))
}

func TestAuditCorrectValueRequiresBalance(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 100)
	_, err := env.svc.Close(context.Background(), env.orgID, env.staffID, id, dto.CloseSessionRequest{
		DeclaredBalance: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	_, err = env.svc.Audit(context.Background(), env.orgID, uuid.New(), model.RoleManager, id, dto.AuditSessionRequest{
		Action: model.AuditCorrectValue,
		Notes:  "recount happened",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSessionStats(t *testing.T) {
	env := newCashEnv(t)
	id := env.openSession(t, 200)
	env.move(t, id, model.MovementDeposit, 75, "cash sale")
	env.move(t, id, model.MovementDeposit, 25, "cash sale")
	env.move(t, id, model.MovementWithdrawal, 40, "courier payment")

	stats, err := env.svc.Stats(context.Background(), env.orgID, id)
	require.NoError(t, err)
	assert.True(t, stats.TotalDeposits.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.TotalWithdrawals.Equal(decimal.NewFromInt(40)))
	assert.True(t, stats.ExpectedBalance.Equal(decimal.NewFromInt(260)))
	assert.Equal(t, 3, stats.MovementCount)
}
