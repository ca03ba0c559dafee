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

type OrderService interface {
	Create(ctx context.Context, orgID string, sellerID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, orgID string, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	AddItem(ctx context.Context, orgID string, actorID, orderID uuid.UUID, req dto.OrderItemRequest) (*dto.OrderResponse, error)
	UpdateItem(ctx context.Context, orgID string, actorID, orderID, itemID uuid.UUID, req dto.UpdateOrderItemRequest) (*dto.OrderResponse, error)
	RemoveItem(ctx context.Context, orgID string, actorID, orderID, itemID uuid.UUID) (*dto.OrderResponse, error)
	ApplyDiscount(ctx context.Context, orgID string, actorID uuid.UUID, actorRole string, orderID uuid.UUID, req dto.ApplyDiscountRequest) (*dto.OrderResponse, error)
	SendToPayment(ctx context.Context, orgID string, orderID uuid.UUID) (*dto.OrderResponse, error)
	AdvanceStatus(ctx context.Context, orgID string, orderID uuid.UUID, target string) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, orgID string, actorID, orderID uuid.UUID, reason *string) error
	LabQueue(ctx context.Context, orgID string) (*dto.LabQueueResponse, error)
}

type orderService struct {
	repo         repository.OrderRepository
	inventory    InventoryService
	customerRepo repository.CustomerRepository
	storeRepo    repository.StoreRepository
	productRepo  repository.ProductRepository
	numberPrefix string
}

func NewOrderService(
	repo repository.OrderRepository,
	inventory InventoryService,
	customerRepo repository.CustomerRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	numberPrefix string,
) OrderService {
	return &orderService{
		repo:         repo,
		inventory:    inventory,
		customerRepo: customerRepo,
		storeRepo:    storeRepo,
		productRepo:  productRepo,
		numberPrefix: numberPrefix,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *orderService) Create(ctx context.Context, orgID string, sellerID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("invalid customer_id")
	}
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apierror.Validation("invalid store_id")
	}
	customer, err := s.customerRepo.FindByID(ctx, orgID, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", req.CustomerID)
	}
	if !customer.IsActive {
		return nil, apierror.Validation("customer %s is inactive", customer.FullName)
	}
	store, err := s.storeRepo.FindByID(ctx, orgID, storeID)
	if err != nil {
		return nil, apierror.NotFound("store %s not found", req.StoreID)
	}
	if !store.IsActive {
		return nil, apierror.Validation("store %s is inactive", store.Name)
	}

	var order model.Order
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		year := time.Now().Year()
		num, err := s.repo.NextOrderNumber(ctx, tx, orgID, year)
		if err != nil {
			return err
		}
		order = model.Order{
			OrganizationID: orgID,
			CustomerID:     customerID,
			StoreID:        storeID,
			SellerID:       sellerID,
			OrderNumber:    fmt.Sprintf("%s-%d-%04d", s.numberPrefix, year, num),
			Status:         model.OrderDraft,
			Notes:          req.Notes,
			IsActive:       true,
		}
		return s.repo.Create(ctx, tx, &order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return orderToResponse(&order), nil
}

func (s *orderService) Get(ctx context.Context, orgID string, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", id)
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, orgID string, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// AddItem appends a line to a DRAFT order. FRAME items place a hard hold on
// store stock inside the same transaction; LENS items try to, falling back
// to the purchasing list when the grid comes up short.
func (s *orderService) AddItem(ctx context.Context, orgID string, actorID, orderID uuid.UUID, req dto.OrderItemRequest) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", orderID)
	}
	if order.Status != model.OrderDraft {
		return nil, apierror.InvalidTransition("items can only be modified while the order is in DRAFT, current status is %s", order.Status)
	}

	item := model.OrderItem{
		OrganizationID: orgID,
		OrderID:        order.ID,
		ItemType:       req.ItemType,
		Description:    req.Description,
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
		DiscountAmount: req.DiscountAmount,
		IsActive:       true,
	}

	switch req.ItemType {
	case model.ItemFrame:
		if req.ProductID == nil {
			return nil, apierror.Validation("frame items require product_id")
		}
		frameID, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid product_id")
		}
		frame, err := s.productRepo.FindFrameByID(ctx, orgID, frameID)
		if err != nil {
			return nil, apierror.NotFound("frame %s not found", *req.ProductID)
		}
		if !frame.IsActive {
			return nil, apierror.Validation("frame %s is inactive", frame.ReferenceCode)
		}
		item.ProductID = &frameID
		if item.UnitPrice.IsZero() {
			item.UnitPrice = frame.SalePrice
		}
	case model.ItemLens:
		if req.ProductID == nil || req.Lens == nil {
			return nil, apierror.Validation("lens items require product_id and lens parameters")
		}
		lensID, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid product_id")
		}
		lens, err := s.productRepo.FindLensByID(ctx, orgID, lensID)
		if err != nil {
			return nil, apierror.NotFound("lens %s not found", *req.ProductID)
		}
		if !lens.IsActive {
			return nil, apierror.Validation("lens %s is inactive", lens.Name)
		}
		item.ProductID = &lensID
		item.Lens = &model.LensParams{
			Spherical:   req.Lens.Spherical,
			Cylindrical: req.Lens.Cylindrical,
			Axis:        req.Lens.Axis,
		}
		item.LensAddition = req.Lens.Addition
		item.LensSide = req.Lens.Side
		if item.UnitPrice.IsZero() {
			item.UnitPrice = lens.SalePrice
		}
	case model.ItemService:
		if req.Description == nil || *req.Description == "" {
			return nil, apierror.Validation("service items require a description")
		}
		if req.ProductID != nil {
			return nil, apierror.Validation("service items do not reference a product")
		}
	default:
		return nil, apierror.Validation("unknown item type %s", req.ItemType)
	}

	item.TotalPrice = lineTotal(item.UnitPrice, item.Quantity, item.DiscountAmount)
	if item.TotalPrice.IsNegative() {
		return nil, apierror.Validation("item discount exceeds the line total")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		now := time.Now()
		switch item.ItemType {
		case model.ItemFrame:
			if err := s.inventory.ReserveFrameTx(ctx, tx, orgID, order.StoreID, *item.ProductID, item.Quantity, order.ID, actorID); err != nil {
				return err
			}
			item.ReservedQuantity = item.Quantity
			item.ReservedAt = &now
		case model.ItemLens:
			needsPurchasing, err := s.inventory.ReserveLensTx(ctx, tx, orgID, order.StoreID, *item.ProductID, *item.Lens, item.Quantity, order.ID, actorID)
			if err != nil {
				return err
			}
			if needsPurchasing {
				item.NeedsPurchasing = true
			} else {
				item.ReservedQuantity = item.Quantity
				item.ReservedAt = &now
			}
		}
		if err := s.repo.CreateItem(ctx, tx, &item); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
		recomputeTotals(order)
		return s.repo.Update(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return orderToResponse(order), nil
}

func (s *orderService) UpdateItem(ctx context.Context, orgID string, actorID, orderID, itemID uuid.UUID, req dto.UpdateOrderItemRequest) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", orderID)
	}
	if order.Status != model.OrderDraft {
		return nil, apierror.InvalidTransition("items can only be modified while the order is in DRAFT, current status is %s", order.Status)
	}

	var item *model.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, apierror.NotFound("item %s not found on order %s", itemID, order.OrderNumber)
	}

	newQty := item.Quantity
	if req.Quantity != nil {
		newQty = *req.Quantity
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.DiscountAmount != nil {
		item.DiscountAmount = *req.DiscountAmount
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		now := time.Now()
		if newQty != item.Quantity {
			switch item.ItemType {
			case model.ItemFrame:
				delta := newQty - item.Quantity
				if delta > 0 {
					if err := s.inventory.ReserveFrameTx(ctx, tx, orgID, order.StoreID, *item.ProductID, delta, order.ID, actorID); err != nil {
						return err
					}
				} else {
					if err := s.inventory.ReleaseFrameTx(ctx, tx, orgID, order.StoreID, *item.ProductID, -delta, order.ID, actorID); err != nil {
						return err
					}
				}
				item.ReservedQuantity = newQty
				item.ReservedAt = &now
			case model.ItemLens:
				if item.ReservedQuantity > 0 {
					if err := s.inventory.ReleaseLensTx(ctx, tx, orgID, order.StoreID, *item.ProductID, *item.Lens, item.ReservedQuantity, order.ID, actorID); err != nil {
						return err
					}
					item.ReservedQuantity = 0
				}
				needsPurchasing, err := s.inventory.ReserveLensTx(ctx, tx, orgID, order.StoreID, *item.ProductID, *item.Lens, newQty, order.ID, actorID)
				if err != nil {
					return err
				}
				item.NeedsPurchasing = needsPurchasing
				if !needsPurchasing {
					item.ReservedQuantity = newQty
					item.ReservedAt = &now
				}
			}
			item.Quantity = newQty
		}
		item.TotalPrice = lineTotal(item.UnitPrice, item.Quantity, item.DiscountAmount)
		if item.TotalPrice.IsNegative() {
			return apierror.Validation("item discount exceeds the line total")
		}
		if err := s.repo.UpdateItem(ctx, tx, item); err != nil {
			return err
		}
		recomputeTotals(order)
		return s.repo.Update(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return orderToResponse(order), nil
}

func (s *orderService) RemoveItem(ctx context.Context, orgID string, actorID, orderID, itemID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", orderID)
	}
	if order.Status != model.OrderDraft {
		return nil, apierror.InvalidTransition("items can only be modified while the order is in DRAFT, current status is %s", order.Status)
	}

	idx := -1
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apierror.NotFound("item %s not found on order %s", itemID, order.OrderNumber)
	}
	item := order.Items[idx]

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if item.ReservedQuantity > 0 {
			switch item.ItemType {
			case model.ItemFrame:
				if err := s.inventory.ReleaseFrameTx(ctx, tx, orgID, order.StoreID, *item.ProductID, item.ReservedQuantity, order.ID, actorID); err != nil {
					return err
				}
			case model.ItemLens:
				if err := s.inventory.ReleaseLensTx(ctx, tx, orgID, order.StoreID, *item.ProductID, *item.Lens, item.ReservedQuantity, order.ID, actorID); err != nil {
					return err
				}
			}
		}
		if err := s.repo.DeactivateItem(ctx, tx, item.ID); err != nil {
			return err
		}
		order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
		recomputeTotals(order)
		return s.repo.Update(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return orderToResponse(order), nil
}

func (s *orderService) ApplyDiscount(ctx context.Context, orgID string, actorID uuid.UUID, actorRole string, orderID uuid.UUID, req dto.ApplyDiscountRequest) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", orderID)
	}
	if order.Status != model.OrderDraft {
		return nil, apierror.InvalidTransition("discounts can only be applied while the order is in DRAFT, current status is %s", order.Status)
	}

	amt, pct, err := evaluateDiscount(order.Subtotal, req.Amount, req.Percentage, order.MaxDiscountAllowed, actorRole)
	if err != nil {
		return nil, err
	}

	order.DiscountAmount = amt
	order.DiscountPercentage = &pct
	if pct.GreaterThan(order.MaxDiscountAllowed) {
		order.DiscountApprovedBy = &actorID
	}
	recomputeTotals(order)

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, order)
	}); err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) SendToPayment(ctx context.Context, orgID string, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", orderID)
	}
	if order.Status != model.OrderDraft {
		return nil, apierror.InvalidTransition("order %s is %s, only DRAFT orders can be sent to payment", order.OrderNumber, order.Status)
	}
	if len(order.Items) == 0 {
		return nil, apierror.Validation("order %s has no items", order.OrderNumber)
	}
	if !order.Total.IsPositive() {
		return nil, apierror.Validation("order %s total must be positive", order.OrderNumber)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatus(ctx, tx, order.ID, model.OrderDraft, model.OrderPending)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("order %s was modified concurrently", order.OrderNumber)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	order.Status = model.OrderPending
	return orderToResponse(order), nil
}

func (s *orderService) AdvanceStatus(ctx context.Context, orgID string, orderID uuid.UUID, target string) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", orderID)
	}

	allowed := false
	for _, next := range model.OrderTransitions[order.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apierror.InvalidTransition("order %s cannot move from %s to %s", order.OrderNumber, order.Status, target)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatus(ctx, tx, order.ID, order.Status, target)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("order %s was modified concurrently", order.OrderNumber)
		}
		if target == model.OrderDelivered {
			now := time.Now()
			order.DeliveredAt = &now
			order.Status = target
			return s.repo.Update(ctx, tx, order)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	order.Status = target
	return orderToResponse(order), nil
}

// Cancel releases every hold the order placed and retires it. Allowed only
// before payment; a paid order is unwound through a separate refund flow.
func (s *orderService) Cancel(ctx context.Context, orgID string, actorID, orderID uuid.UUID, reason *string) error {
	order, err := s.repo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return apierror.NotFound("order %s not found", orderID)
	}
	if order.Status != model.OrderDraft && order.Status != model.OrderPending {
		return apierror.InvalidTransition("order %s is %s and can no longer be cancelled", order.OrderNumber, order.Status)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range order.Items {
			item := &order.Items[i]
			if item.ReservedQuantity == 0 {
				continue
			}
			switch item.ItemType {
			case model.ItemFrame:
				if err := s.inventory.ReleaseFrameTx(ctx, tx, orgID, order.StoreID, *item.ProductID, item.ReservedQuantity, order.ID, actorID); err != nil {
					return err
				}
			case model.ItemLens:
				if err := s.inventory.ReleaseLensTx(ctx, tx, orgID, order.StoreID, *item.ProductID, *item.Lens, item.ReservedQuantity, order.ID, actorID); err != nil {
					return err
				}
			}
			item.ReservedQuantity = 0
			if err := s.repo.UpdateItem(ctx, tx, item); err != nil {
				return err
			}
		}
		ok, err := s.repo.UpdateStatus(ctx, tx, order.ID, order.Status, model.OrderCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("order %s was modified concurrently", order.OrderNumber)
		}
		if reason != nil && *reason != "" {
			note := "cancelled: " + *reason
			if order.Notes != nil && *order.Notes != "" {
				note = *order.Notes + "\n" + note
			}
			order.Notes = &note
			order.Status = model.OrderCancelled
			return s.repo.Update(ctx, tx, order)
		}
		return nil
	})
}

func (s *orderService) LabQueue(ctx context.Context, orgID string) (*dto.LabQueueResponse, error) {
	orders, err := s.repo.ListByStatuses(ctx, orgID, []string{
		model.OrderPaid, model.OrderAwaitingLens, model.OrderInProduction, model.OrderReady,
	})
	if err != nil {
		return nil, err
	}
	queue := &dto.LabQueueResponse{
		AwaitingMount: []dto.OrderResponse{},
		AwaitingLens:  []dto.OrderResponse{},
		InProduction:  []dto.OrderResponse{},
		Ready:         []dto.OrderResponse{},
	}
	for i := range orders {
		resp := *orderToResponse(&orders[i])
		switch orders[i].Status {
		case model.OrderPaid:
			queue.AwaitingMount = append(queue.AwaitingMount, resp)
		case model.OrderAwaitingLens:
			queue.AwaitingLens = append(queue.AwaitingLens, resp)
		case model.OrderInProduction:
			queue.InProduction = append(queue.InProduction, resp)
		case model.OrderReady:
			queue.Ready = append(queue.Ready, resp)
		}
	}
	return queue, nil
}

func lineTotal(unit decimal.Decimal, qty int, discount decimal.Decimal) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty))).Sub(discount)
}

// recomputeTotals re-derives the order money fields from its active items.
// Total never goes below zero; the discount is clamped to the subtotal when
// item removals shrink the order underneath it.
func recomputeTotals(o *model.Order) {
	subtotal := decimal.Zero
	for i := range o.Items {
		if o.Items[i].IsActive {
			subtotal = subtotal.Add(o.Items[i].TotalPrice)
		}
	}
	o.Subtotal = subtotal
	if o.DiscountAmount.GreaterThan(subtotal) {
		o.DiscountAmount = subtotal
	}
	if subtotal.IsPositive() && o.DiscountAmount.IsPositive() {
		pct := o.DiscountAmount.Div(subtotal).Mul(hundred).Round(2)
		o.DiscountPercentage = &pct
	}
	o.Total = subtotal.Sub(o.DiscountAmount)
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		if !it.IsActive {
			continue
		}
		ir := dto.OrderItemResponse{
			ID:               it.ID.String(),
			ItemType:         it.ItemType,
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			DiscountAmount:   it.DiscountAmount,
			TotalPrice:       it.TotalPrice,
			ReservedQuantity: it.ReservedQuantity,
			NeedsPurchasing:  it.NeedsPurchasing,
		}
		if it.ProductID != nil {
			v := it.ProductID.String()
			ir.ProductID = &v
		}
		if it.Lens != nil {
			ir.Lens = &dto.LensSpec{
				Spherical:   it.Lens.Spherical,
				Cylindrical: it.Lens.Cylindrical,
				Axis:        it.Lens.Axis,
				Addition:    it.LensAddition,
				Side:        it.LensSide,
			}
		}
		items = append(items, ir)
	}

	resp := &dto.OrderResponse{
		ID:                 o.ID.String(),
		OrderNumber:        o.OrderNumber,
		Status:             o.Status,
		CustomerID:         o.CustomerID.String(),
		StoreID:            o.StoreID.String(),
		SellerID:           o.SellerID.String(),
		Subtotal:           o.Subtotal,
		DiscountAmount:     o.DiscountAmount,
		DiscountPercentage: o.DiscountPercentage,
		Total:              o.Total,
		MaxDiscountAllowed: o.MaxDiscountAllowed,
		Notes:              o.Notes,
		Items:              items,
		CreatedAt:          o.CreatedAt.Format(time.RFC3339),
	}
	if o.DiscountApprovedBy != nil {
		v := o.DiscountApprovedBy.String()
		resp.DiscountApprovedBy = &v
	}
	if o.PaidAt != nil {
		v := o.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	if o.DeliveredAt != nil {
		v := o.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &v
	}
	return resp
}
