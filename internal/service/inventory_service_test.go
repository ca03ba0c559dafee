package service

import (
	"context"
	"sync"
	"testing"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryEnv struct {
	repo      *fakeInventoryRepo
	movements *fakeStockMovementRepo
	products  *fakeProductRepo
	svc       InventoryService

	orgID   string
	storeID uuid.UUID
	actorID uuid.UUID
	frame   *model.ProductFrame
	lens    *model.ProductLens
}

func newInventoryEnv(t *testing.T) *inventoryEnv {
	t.Helper()
	env := &inventoryEnv{
		repo:      newFakeInventoryRepo(),
		movements: &fakeStockMovementRepo{},
		products:  newFakeProductRepo(),
		orgID:     "org-1",
		storeID:   uuid.New(),
		actorID:   uuid.New(),
	}
	env.frame = &model.ProductFrame{OrganizationID: env.orgID, ReferenceCode: "AC-100", Name: "Aviator", SalePrice: decimal.NewFromInt(250), IsActive: true}
	require.NoError(t, env.products.CreateFrame(context.Background(), env.frame))
	env.lens = &model.ProductLens{OrganizationID: env.orgID, Name: "Polycarbonate SV", SalePrice: decimal.NewFromInt(120), IsActive: true}
	require.NoError(t, env.products.CreateLens(context.Background(), env.lens))
	env.svc = NewInventoryService(env.repo, env.movements, env.products)
	return env
}

func TestReserveReleaseCommitRoundTrip(t *testing.T) {
	env := newInventoryEnv(t)
	level := env.repo.seedLevel(env.orgID, env.storeID, env.frame.ID, 10)
	ctx := context.Background()
	orderID, saleID := uuid.New(), uuid.New()

	require.NoError(t, env.svc.ReserveFrameTx(ctx, nil, env.orgID, env.storeID, env.frame.ID, 4, orderID, env.actorID))
	assert.Equal(t, 4, level.ReservedQuantity)
	assert.Equal(t, 10, level.Quantity)

	require.NoError(t, env.svc.ReleaseFrameTx(ctx, nil, env.orgID, env.storeID, env.frame.ID, 1, orderID, env.actorID))
	assert.Equal(t, 3, level.ReservedQuantity)

	require.NoError(t, env.svc.CommitFrameTx(ctx, nil, env.orgID, env.storeID, env.frame.ID, 3, orderID, saleID, env.actorID))
	assert.Equal(t, 0, level.ReservedQuantity)
	assert.Equal(t, 7, level.Quantity)

	// Every mutation leaves a kardex entry.
	movs, _, err := env.movements.List(ctx, env.orgID, dto.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, model.StockReservation, movs[0].MovementType)
	assert.Equal(t, model.StockRelease, movs[1].MovementType)
	assert.Equal(t, model.StockExit, movs[2].MovementType)
	require.NotNil(t, movs[2].SaleID)
	assert.Equal(t, saleID, *movs[2].SaleID)
}

func TestReserveFrameNeverOversells(t *testing.T) {
	env := newInventoryEnv(t)
	level := env.repo.seedLevel(env.orgID, env.storeID, env.frame.ID, 3)
	ctx := context.Background()

	// Two buyers race for 2 units each with only 3 on hand: exactly one wins.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.svc.ReserveFrameTx(ctx, nil, env.orgID, env.storeID, env.frame.ID, 2, uuid.New(), env.actorID)
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, level.ReservedQuantity)
}

func TestOverReleaseIsConflict(t *testing.T) {
	env := newInventoryEnv(t)
	env.repo.seedLevel(env.orgID, env.storeID, env.frame.ID, 5)
	ctx := context.Background()
	orderID := uuid.New()

	require.NoError(t, env.svc.ReserveFrameTx(ctx, nil, env.orgID, env.storeID, env.frame.ID, 2, orderID, env.actorID))

	err := env.svc.ReleaseFrameTx(ctx, nil, env.orgID, env.storeID, env.frame.ID, 3, orderID, env.actorID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	err = env.svc.CommitFrameTx(ctx, nil, env.orgID, env.storeID, env.frame.ID, 3, orderID, uuid.New(), env.actorID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestReserveLensMissReportsPurchasing(t *testing.T) {
	env := newInventoryEnv(t)
	ctx := context.Background()
	params := model.LensParams{Spherical: decimal.RequireFromString("-1.00"), Cylindrical: decimal.Zero}

	// No grid cell at all.
	needs, err := env.svc.ReserveLensTx(ctx, nil, env.orgID, env.storeID, env.lens.ID, params, 1, uuid.New(), env.actorID)
	require.NoError(t, err)
	assert.True(t, needs)

	// Cell exists but holds too little.
	stock := env.repo.seedLensStock(env.orgID, env.storeID, env.lens.ID, params, 1)
	needs, err = env.svc.ReserveLensTx(ctx, nil, env.orgID, env.storeID, env.lens.ID, params, 2, uuid.New(), env.actorID)
	require.NoError(t, err)
	assert.True(t, needs)
	assert.Equal(t, 0, stock.ReservedQuantity)

	// Enough stock reserves normally.
	needs, err = env.svc.ReserveLensTx(ctx, nil, env.orgID, env.storeID, env.lens.ID, params, 1, uuid.New(), env.actorID)
	require.NoError(t, err)
	assert.False(t, needs)
	assert.Equal(t, 1, stock.ReservedQuantity)
}

func TestAdjustStockEntryAndExit(t *testing.T) {
	env := newInventoryEnv(t)
	ctx := context.Background()

	// Entry materializes the level lazily.
	err := env.svc.AdjustStock(ctx, env.orgID, env.actorID, dto.AdjustStockRequest{
		StoreID:      env.storeID.String(),
		FrameID:      env.frame.ID.String(),
		MovementType: model.StockEntry,
		Quantity:     6,
		Reason:       "initial load",
	})
	require.NoError(t, err)

	level, ferr := env.repo.FindLevel(ctx, nil, env.orgID, env.storeID, env.frame.ID)
	require.NoError(t, ferr)
	assert.Equal(t, 6, level.Quantity)

	err = env.svc.AdjustStock(ctx, env.orgID, env.actorID, dto.AdjustStockRequest{
		StoreID:      env.storeID.String(),
		FrameID:      env.frame.ID.String(),
		MovementType: model.StockExit,
		Quantity:     10,
		Reason:       "shrinkage audit",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
}

func TestExitCannotTouchReservedUnits(t *testing.T) {
	env := newInventoryEnv(t)
	level := env.repo.seedLevel(env.orgID, env.storeID, env.frame.ID, 5)
	ctx := context.Background()

	require.NoError(t, env.svc.ReserveFrameTx(ctx, nil, env.orgID, env.storeID, env.frame.ID, 4, uuid.New(), env.actorID))

	// 5 on hand, 4 held: a manual exit of 2 would eat into the holds.
	err := env.svc.AdjustStock(ctx, env.orgID, env.actorID, dto.AdjustStockRequest{
		StoreID:      env.storeID.String(),
		FrameID:      env.frame.ID.String(),
		MovementType: model.StockExit,
		Quantity:     2,
		Reason:       "damaged units",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(err))
	assert.Equal(t, 5, level.Quantity)
}

func TestAdjustLensStockRejectsLabOrderLens(t *testing.T) {
	env := newInventoryEnv(t)
	labLens := &model.ProductLens{OrganizationID: env.orgID, Name: "Surfaced Progressive", SalePrice: decimal.NewFromInt(800), IsLabOrder: true, IsActive: true}
	require.NoError(t, env.products.CreateLens(context.Background(), labLens))

	err := env.svc.AdjustLensStock(context.Background(), env.orgID, env.actorID, dto.AdjustLensStockRequest{
		StoreID:      env.storeID.String(),
		LensID:       labLens.ID.String(),
		MovementType: model.StockEntry,
		Quantity:     5,
		Reason:       "misdirected delivery",
		Spherical:    decimal.RequireFromString("1.00"),
		Cylindrical:  decimal.Zero,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}
