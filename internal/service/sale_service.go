package service

import (
	"context"
	"fmt"
	"time"

	"otica/internal/apierror"
	"otica/internal/dto"
	"otica/internal/model"
	"otica/internal/repository"
	"otica/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleService interface {
	Checkout(ctx context.Context, orgID string, sellerID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, orgID string, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo              repository.SaleRepository
	orderRepo         repository.OrderRepository
	inventory         InventoryService
	cashRepo          repository.CashRepository
	storeRepo         repository.StoreRepository
	receivableRepo    repository.ReceivableRepository
	dispatcher        *worker.Dispatcher
	receivableDueDays int
}

func NewSaleService(
	repo repository.SaleRepository,
	orderRepo repository.OrderRepository,
	inventory InventoryService,
	cashRepo repository.CashRepository,
	storeRepo repository.StoreRepository,
	receivableRepo repository.ReceivableRepository,
	dispatcher *worker.Dispatcher,
	receivableDueDays int,
) SaleService {
	return &saleService{
		repo:              repo,
		orderRepo:         orderRepo,
		inventory:         inventory,
		cashRepo:          cashRepo,
		storeRepo:         storeRepo,
		receivableRepo:    receivableRepo,
		dispatcher:        dispatcher,
		receivableDueDays: receivableDueDays,
	}
}

// Checkout settles a PENDING order in one transaction: the payment record,
// the method side effects (drawer deposit, card fee, receivable) and the
// conversion of every stock hold into a definitive exit either all land or
// none do.
func (s *saleService) Checkout(ctx context.Context, orgID string, sellerID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, apierror.Validation("invalid order_id")
	}
	order, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", req.OrderID)
	}
	if order.Status != model.OrderPending {
		return nil, apierror.InvalidTransition("order %s is %s, only PENDING orders can be checked out", order.OrderNumber, order.Status)
	}

	// Cash needs the acting seller's drawer; resolved before the transaction
	// so a missing session fails fast.
	var session *model.CashSession
	if req.PaymentMethod == model.PayCash {
		session, err = s.cashRepo.FindOpenByStaff(ctx, orgID, sellerID)
		if err != nil {
			return nil, apierror.Validation("cash payments require an open cash session")
		}
	}

	sale := model.Sale{
		OrganizationID: orgID,
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		StoreID:        order.StoreID,
		SellerID:       sellerID,
		TotalAmount:    order.Total,
		PaymentMethod:  req.PaymentMethod,
		SoldAt:         time.Now(),
		IsActive:       true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.OrderPending, model.OrderPaid)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("order %s was checked out concurrently", order.OrderNumber)
		}

		switch req.PaymentMethod {
		case model.PayCash:
			sale.CashSessionID = &session.ID
		case model.PayCard:
			store, err := s.storeRepo.FindByID(ctx, orgID, order.StoreID)
			if err != nil {
				return apierror.NotFound("store %s not found", order.StoreID)
			}
			fee := store.CardFeeRate
			gross := order.Total
			net := gross.Sub(gross.Mul(fee).Div(hundred)).Round(2)
			sale.CardFeeRate = &fee
			sale.CardGrossAmount = &gross
			sale.CardNetAmount = &net
		case model.PayPix, model.PayCredit:
			rcv := model.Receivable{
				OrganizationID:  orgID,
				CustomerID:      &order.CustomerID,
				Description:     fmt.Sprintf("Order %s (%s)", order.OrderNumber, req.PaymentMethod),
				TotalAmount:     order.Total,
				RemainingAmount: order.Total,
				Status:          model.ReceivablePending,
				DueDate:         time.Now().AddDate(0, 0, s.receivableDueDays),
				IsActive:        true,
			}
			if err := s.receivableRepo.Create(ctx, tx, &rcv); err != nil {
				return err
			}
			sale.ReceivableID = &rcv.ID
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		// Link the receivable back to its sale.
		if sale.ReceivableID != nil {
			rcv, err := s.receivableRepo.FindByID(ctx, orgID, *sale.ReceivableID)
			if err == nil {
				rcv.SaleID = &sale.ID
				if err := s.receivableRepo.Update(ctx, tx, rcv); err != nil {
					return err
				}
			}
		}

		// Stock holds become definitive exits.
		for i := range order.Items {
			item := &order.Items[i]
			if item.ReservedQuantity == 0 {
				continue
			}
			switch item.ItemType {
			case model.ItemFrame:
				if err := s.inventory.CommitFrameTx(ctx, tx, orgID, order.StoreID, *item.ProductID, item.ReservedQuantity, order.ID, sale.ID, sellerID); err != nil {
					return err
				}
			case model.ItemLens:
				if err := s.inventory.CommitLensTx(ctx, tx, orgID, order.StoreID, *item.ProductID, *item.Lens, item.ReservedQuantity, order.ID, sale.ID, sellerID); err != nil {
					return err
				}
			}
			item.ReservedQuantity = 0
			if err := s.orderRepo.UpdateItem(ctx, tx, item); err != nil {
				return err
			}
		}

		if session != nil {
			mov := model.CashMovement{
				OrganizationID: orgID,
				CashSessionID:  session.ID,
				StaffID:        sellerID,
				MovementType:   model.MovementDeposit,
				Amount:         order.Total,
				Description:    fmt.Sprintf("Order %s", order.OrderNumber),
				ReferenceID:    &sale.ID,
				MovementDate:   time.Now(),
				IsActive:       true,
			}
			if err := s.cashRepo.CreateMovement(ctx, tx, &mov); err != nil {
				return err
			}
		}

		now := time.Now()
		order.Status = model.OrderPaid
		order.PaidAt = &now
		return s.orderRepo.Update(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Receipt generation and customer email run off the request path.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, map[string]interface{}{
			"sale_id":  sale.ID.String(),
			"order_id": order.ID.String(),
		})
	}

	return saleToResponse(&sale, order.OrderNumber), nil
}

func (s *saleService) Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("sale %s not found", id)
	}
	orderNumber := ""
	if order, err := s.orderRepo.FindByID(ctx, orgID, sale.OrderID); err == nil {
		orderNumber = order.OrderNumber
	}
	return saleToResponse(sale, orderNumber), nil
}

func (s *saleService) List(ctx context.Context, orgID string, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i], ""))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToResponse(s *model.Sale, orderNumber string) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID.String(),
		OrderID:       s.OrderID.String(),
		OrderNumber:   orderNumber,
		PaymentMethod: s.PaymentMethod,
		Amount:        s.TotalAmount,
		CardFeeRate:   s.CardFeeRate,
		CardNetAmount: s.CardNetAmount,
		SellerID:      s.SellerID.String(),
		CreatedAt:     s.SoldAt.Format(time.RFC3339),
	}
	if s.CashSessionID != nil {
		v := s.CashSessionID.String()
		resp.CashSessionID = &v
	}
	if s.ReceivableID != nil {
		v := s.ReceivableID.String()
		resp.ReceivableID = &v
	}
	return resp
}
