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

// InventoryService owns the reservation ledger. The Tx methods run inside
// the caller's transaction and pair every stock mutation with a kardex entry;
// the ledger and the levels never diverge.
type InventoryService interface {
	ReserveFrameTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID, qty int, orderID, actorID uuid.UUID) error
	ReleaseFrameTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID, qty int, orderID, actorID uuid.UUID) error
	CommitFrameTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID, qty int, orderID, saleID, actorID uuid.UUID) error

	// ReserveLensTx returns needsPurchasing=true (and no error) when the grid
	// has no cell, or not enough units, for the requested power.
	ReserveLensTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams, qty int, orderID, actorID uuid.UUID) (needsPurchasing bool, err error)
	ReleaseLensTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams, qty int, orderID, actorID uuid.UUID) error
	CommitLensTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams, qty int, orderID, saleID, actorID uuid.UUID) error

	AdjustStock(ctx context.Context, orgID string, actorID uuid.UUID, req dto.AdjustStockRequest) error
	AdjustLensStock(ctx context.Context, orgID string, actorID uuid.UUID, req dto.AdjustLensStockRequest) error

	ListLevels(ctx context.Context, orgID string, filter dto.LevelFilter) (*dto.LevelListResponse, error)
	ListMovements(ctx context.Context, orgID string, filter dto.MovementFilter) (*dto.StockMovementListResponse, error)
}

type inventoryService struct {
	repo        repository.InventoryRepository
	movements   repository.StockMovementRepository
	productRepo repository.ProductRepository
}

func NewInventoryService(
	repo repository.InventoryRepository,
	movements repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) InventoryService {
	return &inventoryService{repo: repo, movements: movements, productRepo: productRepo}
}

func (s *inventoryService) ReserveFrameTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID, qty int, orderID, actorID uuid.UUID) error {
	level, err := s.repo.EnsureLevel(ctx, tx, orgID, storeID, frameID)
	if err != nil {
		return err
	}
	ok, err := s.repo.ReserveFrame(ctx, tx, level.ID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.InsufficientStock("frame %s: requested %d, available %d", frameID, qty, level.Available())
	}
	return s.logFrame(ctx, tx, level, model.StockReservation, qty, level.Available(), level.Available()-qty, &orderID, nil, actorID, nil)
}

func (s *inventoryService) ReleaseFrameTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID, qty int, orderID, actorID uuid.UUID) error {
	level, err := s.repo.FindLevel(ctx, tx, orgID, storeID, frameID)
	if err != nil {
		return apierror.NotFound("stock level for frame %s not found", frameID)
	}
	ok, err := s.repo.ReleaseFrame(ctx, tx, level.ID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Conflict("cannot release %d units of frame %s: only %d held", qty, frameID, level.ReservedQuantity)
	}
	return s.logFrame(ctx, tx, level, model.StockRelease, qty, level.Available(), level.Available()+qty, &orderID, nil, actorID, nil)
}

func (s *inventoryService) CommitFrameTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID, qty int, orderID, saleID, actorID uuid.UUID) error {
	level, err := s.repo.FindLevel(ctx, tx, orgID, storeID, frameID)
	if err != nil {
		return apierror.NotFound("stock level for frame %s not found", frameID)
	}
	ok, err := s.repo.CommitFrame(ctx, tx, level.ID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Conflict("cannot commit %d units of frame %s: only %d held", qty, frameID, level.ReservedQuantity)
	}
	return s.logFrame(ctx, tx, level, model.StockExit, qty, level.Quantity, level.Quantity-qty, &orderID, &saleID, actorID, nil)
}

func (s *inventoryService) ReserveLensTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams, qty int, orderID, actorID uuid.UUID) (bool, error) {
	lens, err := s.productRepo.FindLensByID(ctx, orgID, lensID)
	if err != nil {
		return false, apierror.NotFound("lens %s not found", lensID)
	}
	// Surfaced lenses are always lab-ordered; the grid never holds them.
	if lens.IsLabOrder {
		return true, nil
	}
	stock, err := s.repo.FindLensStock(ctx, tx, orgID, storeID, lensID, p)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return true, nil
		}
		return false, err
	}
	ok, err := s.repo.ReserveLens(ctx, tx, stock.ID, qty)
	if err != nil {
		return false, err
	}
	if !ok {
		// Not enough in the grid: the lens goes on the purchasing list
		// instead of failing the order.
		return true, nil
	}
	err = s.logLens(ctx, tx, stock, model.StockReservation, qty, stock.Available(), stock.Available()-qty, &orderID, nil, actorID, nil)
	return false, err
}

func (s *inventoryService) ReleaseLensTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams, qty int, orderID, actorID uuid.UUID) error {
	stock, err := s.repo.FindLensStock(ctx, tx, orgID, storeID, lensID, p)
	if err != nil {
		return apierror.NotFound("lens stock for %s not found", lensID)
	}
	ok, err := s.repo.ReleaseLens(ctx, tx, stock.ID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Conflict("cannot release %d lens units: only %d held", qty, stock.ReservedQuantity)
	}
	return s.logLens(ctx, tx, stock, model.StockRelease, qty, stock.Available(), stock.Available()+qty, &orderID, nil, actorID, nil)
}

func (s *inventoryService) CommitLensTx(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams, qty int, orderID, saleID, actorID uuid.UUID) error {
	stock, err := s.repo.FindLensStock(ctx, tx, orgID, storeID, lensID, p)
	if err != nil {
		return apierror.NotFound("lens stock for %s not found", lensID)
	}
	ok, err := s.repo.CommitLens(ctx, tx, stock.ID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Conflict("cannot commit %d lens units: only %d held", qty, stock.ReservedQuantity)
	}
	return s.logLens(ctx, tx, stock, model.StockExit, qty, stock.Quantity, stock.Quantity-qty, &orderID, &saleID, actorID, nil)
}

func (s *inventoryService) AdjustStock(ctx context.Context, orgID string, actorID uuid.UUID, req dto.AdjustStockRequest) error {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return apierror.Validation("invalid store_id")
	}
	frameID, err := uuid.Parse(req.FrameID)
	if err != nil {
		return apierror.Validation("invalid frame_id")
	}
	if _, err := s.productRepo.FindFrameByID(ctx, orgID, frameID); err != nil {
		return apierror.NotFound("frame %s not found", req.FrameID)
	}

	delta := req.Quantity
	if req.MovementType == model.StockExit {
		delta = -delta
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		level, err := s.repo.EnsureLevel(ctx, tx, orgID, storeID, frameID)
		if err != nil {
			return err
		}
		ok, err := s.repo.AdjustFrame(ctx, tx, level.ID, delta)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.InsufficientStock("frame %s: cannot remove %d, available %d", req.FrameID, req.Quantity, level.Available())
		}
		return s.logFrame(ctx, tx, level, req.MovementType, req.Quantity, level.Quantity, level.Quantity+delta, nil, nil, actorID, &req.Reason)
	})
}

func (s *inventoryService) AdjustLensStock(ctx context.Context, orgID string, actorID uuid.UUID, req dto.AdjustLensStockRequest) error {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return apierror.Validation("invalid store_id")
	}
	lensID, err := uuid.Parse(req.LensID)
	if err != nil {
		return apierror.Validation("invalid lens_id")
	}
	lens, err := s.productRepo.FindLensByID(ctx, orgID, lensID)
	if err != nil {
		return apierror.NotFound("lens %s not found", req.LensID)
	}
	if lens.IsLabOrder {
		return apierror.Validation("lens %s is lab-ordered and carries no grid stock", req.LensID)
	}

	params := model.LensParams{Spherical: req.Spherical, Cylindrical: req.Cylindrical, Axis: req.Axis}
	delta := req.Quantity
	if req.MovementType == model.StockExit {
		delta = -delta
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		stock, err := s.repo.EnsureLensStock(ctx, tx, orgID, storeID, lensID, params)
		if err != nil {
			return err
		}
		ok, err := s.repo.AdjustLens(ctx, tx, stock.ID, delta)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.InsufficientStock("lens %s: cannot remove %d, available %d", req.LensID, req.Quantity, stock.Available())
		}
		return s.logLens(ctx, tx, stock, req.MovementType, req.Quantity, stock.Quantity, stock.Quantity+delta, nil, nil, actorID, &req.Reason)
	})
}

func (s *inventoryService) ListLevels(ctx context.Context, orgID string, filter dto.LevelFilter) (*dto.LevelListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	levels, total, err := s.repo.ListLevels(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LevelResponse, 0, len(levels))
	for _, l := range levels {
		ref := ""
		if f, err := s.productRepo.FindFrameByID(ctx, orgID, l.ProductFrameID); err == nil {
			ref = f.ReferenceCode
		}
		data = append(data, dto.LevelResponse{
			ID:               l.ID.String(),
			StoreID:          l.StoreID.String(),
			FrameID:          l.ProductFrameID.String(),
			FrameReference:   ref,
			Quantity:         l.Quantity,
			ReservedQuantity: l.ReservedQuantity,
			Available:        l.Available(),
		})
	}
	return &dto.LevelListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, orgID string, filter dto.MovementFilter) (*dto.StockMovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movs, total, err := s.movements.List(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		data = append(data, stockMovementToResponse(&m))
	}
	return &dto.StockMovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) logFrame(ctx context.Context, tx *gorm.DB, level *model.InventoryLevel, movType string, qty, before, after int, orderID, saleID *uuid.UUID, actorID uuid.UUID, notes *string) error {
	frameID := level.ProductFrameID
	return s.movements.Create(ctx, tx, &model.StockMovement{
		OrganizationID: level.OrganizationID,
		StoreID:        level.StoreID,
		ProductFrameID: &frameID,
		OrderID:        orderID,
		SaleID:         saleID,
		MovementType:   movType,
		Quantity:       qty,
		BalanceBefore:  before,
		BalanceAfter:   after,
		MovedBy:        actorID,
		MovementDate:   time.Now(),
		Notes:          notes,
	})
}

func (s *inventoryService) logLens(ctx context.Context, tx *gorm.DB, stock *model.LensStock, movType string, qty, before, after int, orderID, saleID *uuid.UUID, actorID uuid.UUID, notes *string) error {
	lensID := stock.ProductLensID
	return s.movements.Create(ctx, tx, &model.StockMovement{
		OrganizationID: stock.OrganizationID,
		StoreID:        stock.StoreID,
		ProductLensID:  &lensID,
		OrderID:        orderID,
		SaleID:         saleID,
		MovementType:   movType,
		Quantity:       qty,
		BalanceBefore:  before,
		BalanceAfter:   after,
		MovedBy:        actorID,
		MovementDate:   time.Now(),
		Notes:          notes,
	})
}

func stockMovementToResponse(m *model.StockMovement) dto.StockMovementResponse {
	resp := dto.StockMovementResponse{
		ID:            m.ID.String(),
		StoreID:       m.StoreID.String(),
		MovementType:  m.MovementType,
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		MovedBy:       m.MovedBy.String(),
		CreatedAt:     m.MovementDate.Format(time.RFC3339),
	}
	if m.Notes != nil {
		resp.Reason = *m.Notes
	}
	if m.ProductFrameID != nil {
		v := m.ProductFrameID.String()
		resp.FrameID = &v
	}
	if m.ProductLensID != nil {
		v := m.ProductLensID.String()
		resp.LensID = &v
	}
	if m.OrderID != nil {
		v := m.OrderID.String()
		resp.OrderID = &v
	}
	if m.SaleID != nil {
		v := m.SaleID.String()
		resp.SaleID = &v
	}
	return resp
}
