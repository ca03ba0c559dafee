package service

import (
	"context"
	"testing"
	"time"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receivableEnv struct {
	repo  *fakeReceivableRepo
	svc   ReceivableService
	orgID string
}

func newReceivableEnv() *receivableEnv {
	repo := newFakeReceivableRepo()
	return &receivableEnv{repo: repo, svc: NewReceivableService(repo), orgID: "org-1"}
}

func (e *receivableEnv) seed(t *testing.T, total string, due time.Time) uuid.UUID {
	t.Helper()
	customerID := uuid.New()
	rcv := &model.Receivable{
		OrganizationID:  e.orgID,
		CustomerID:      &customerID,
		Description:     "Order OS-2026-0001 (CREDIT)",
		TotalAmount:     decimal.RequireFromString(total),
		RemainingAmount: decimal.RequireFromString(total),
		Status:          model.ReceivablePending,
		DueDate:         due,
		IsActive:        true,
	}
	require.NoError(t, e.repo.Create(context.Background(), nil, rcv))
	return rcv.ID
}

func TestSettlePartialPayment(t *testing.T) {
	env := newReceivableEnv()
	id := env.seed(t, "300", time.Now().AddDate(0, 0, 30))

	resp, err := env.svc.Settle(context.Background(), env.orgID, id, dto.SettleReceivableRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReceivablePartial, resp.Status)
	assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.RemainingAmount.Equal(decimal.NewFromInt(200)))
}

func TestSettleFullPaymentAcrossInstallments(t *testing.T) {
	env := newReceivableEnv()
	id := env.seed(t, "300", time.Now().AddDate(0, 0, 30))

	_, err := env.svc.Settle(context.Background(), env.orgID, id, dto.SettleReceivableRequest{
		Amount: decimal.NewFromInt(120),
	})
	require.NoError(t, err)

	resp, err := env.svc.Settle(context.Background(), env.orgID, id, dto.SettleReceivableRequest{
		Amount: decimal.NewFromInt(180),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReceivablePaid, resp.Status)
	assert.True(t, resp.RemainingAmount.IsZero())

	stored, err := env.repo.FindByID(context.Background(), env.orgID, id)
	require.NoError(t, err)
	require.NotNil(t, stored.PaidAt)
}

func TestSettleOverpaymentRejected(t *testing.T) {
	env := newReceivableEnv()
	id := env.seed(t, "300", time.Now().AddDate(0, 0, 30))

	_, err := env.svc.Settle(context.Background(), env.orgID, id, dto.SettleReceivableRequest{
		Amount: decimal.NewFromInt(301),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSettleRequiresPositiveAmount(t *testing.T) {
	env := newReceivableEnv()
	id := env.seed(t, "300", time.Now().AddDate(0, 0, 30))

	_, err := env.svc.Settle(context.Background(), env.orgID, id, dto.SettleReceivableRequest{
		Amount: decimal.Zero,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSettleClosedReceivableRejected(t *testing.T) {
	env := newReceivableEnv()
	id := env.seed(t, "300", time.Now().AddDate(0, 0, 30))

	_, err := env.svc.Settle(context.Background(), env.orgID, id, dto.SettleReceivableRequest{
		Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	_, err = env.svc.Settle(context.Background(), env.orgID, id, dto.SettleReceivableRequest{
		Amount: decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInvalidTransition, apierror.KindOf(err))
}

func TestSettleOverdueStaysPayable(t *testing.T) {
	env := newReceivableEnv()
	id := env.seed(t, "200", time.Now().AddDate(0, 0, -5))

	_, err := env.svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	stored, err := env.repo.FindByID(context.Background(), env.orgID, id)
	require.NoError(t, err)
	assert.Equal(t, model.ReceivableOverdue, stored.Status)

	resp, err := env.svc.Settle(context.Background(), env.orgID, id, dto.SettleReceivableRequest{
		Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReceivablePaid, resp.Status)
}

func TestMarkOverdueSkipsFutureAndSettled(t *testing.T) {
	env := newReceivableEnv()
	past := env.seed(t, "100", time.Now().AddDate(0, 0, -1))
	future := env.seed(t, "100", time.Now().AddDate(0, 0, 10))
	paid := env.seed(t, "100", time.Now().AddDate(0, 0, -1))
	_, err := env.svc.Settle(context.Background(), env.orgID, paid, dto.SettleReceivableRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	n, err := env.svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	for id, want := range map[uuid.UUID]string{
		past:   model.ReceivableOverdue,
		future: model.ReceivablePending,
		paid:   model.ReceivablePaid,
	} {
		stored, err := env.repo.FindByID(context.Background(), env.orgID, id)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status)
	}
}
