package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"otica/internal/dto"
	"otica/internal/model"
	"otica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories backing the service tests. DB() returns nil so that
// runTx executes the transaction body directly.

// ── Orders ───────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*model.Order
	items    map[uuid.UUID][]*model.OrderItem
	counters map[string]int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[uuid.UUID]*model.Order),
		items:    make(map[uuid.UUID][]*model.OrderItem),
		counters: make(map[string]int),
	}
}

func (r *fakeOrderRepo) DB() *gorm.DB { return nil }

func (r *fakeOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	cp := *o
	cp.Items = nil
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, orgID string, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Items = nil
	for _, it := range r.items[id] {
		if it.IsActive {
			cp.Items = append(cp.Items, *it)
		}
	}
	return &cp, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, _ *gorm.DB, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	cp.Items = nil
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *fakeOrderRepo) NextOrderNumber(_ context.Context, _ *gorm.DB, orgID string, year int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s/%d", orgID, year)
	r.counters[key]++
	return r.counters[key], nil
}

func (r *fakeOrderRepo) CreateItem(_ context.Context, _ *gorm.DB, it *model.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	cp := *it
	r.items[it.OrderID] = append(r.items[it.OrderID], &cp)
	return nil
}

func (r *fakeOrderRepo) UpdateItem(_ context.Context, _ *gorm.DB, it *model.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items[it.OrderID] {
		if existing.ID == it.ID {
			*existing = *it
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) DeactivateItem(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, items := range r.items {
		for _, it := range items {
			if it.ID == id {
				it.IsActive = false
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) List(_ context.Context, orgID string, _ dto.OrderFilter) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if o.OrganizationID == orgID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListByStatuses(_ context.Context, orgID string, statuses []string) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if o.OrganizationID != orgID {
			continue
		}
		for _, st := range statuses {
			if o.Status == st {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

// ── Inventory ────────────────────────────────────────────────────────────────

type fakeInventoryRepo struct {
	mu     sync.Mutex
	levels map[uuid.UUID]*model.InventoryLevel
	lenses map[uuid.UUID]*model.LensStock
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		levels: make(map[uuid.UUID]*model.InventoryLevel),
		lenses: make(map[uuid.UUID]*model.LensStock),
	}
}

func (r *fakeInventoryRepo) DB() *gorm.DB { return nil }

func (r *fakeInventoryRepo) seedLevel(orgID string, storeID, frameID uuid.UUID, qty int) *model.InventoryLevel {
	l := &model.InventoryLevel{
		ID:             uuid.New(),
		OrganizationID: orgID,
		StoreID:        storeID,
		ProductFrameID: frameID,
		Quantity:       qty,
	}
	r.levels[l.ID] = l
	return l
}

func (r *fakeInventoryRepo) seedLensStock(orgID string, storeID, lensID uuid.UUID, p model.LensParams, qty int) *model.LensStock {
	s := &model.LensStock{
		ID:             uuid.New(),
		OrganizationID: orgID,
		StoreID:        storeID,
		ProductLensID:  lensID,
		LensParams:     p,
		Quantity:       qty,
	}
	r.lenses[s.ID] = s
	return s
}

func (r *fakeInventoryRepo) FindLevel(_ context.Context, _ *gorm.DB, orgID string, storeID, frameID uuid.UUID) (*model.InventoryLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.levels {
		if l.OrganizationID == orgID && l.StoreID == storeID && l.ProductFrameID == frameID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInventoryRepo) EnsureLevel(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID) (*model.InventoryLevel, error) {
	if l, err := r.FindLevel(ctx, tx, orgID, storeID, frameID); err == nil {
		return l, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.seedLevel(orgID, storeID, frameID, 0)
	return &cp, nil
}

func (r *fakeInventoryRepo) ReserveFrame(_ context.Context, _ *gorm.DB, levelID uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.levels[levelID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if l.Quantity-l.ReservedQuantity < qty {
		return false, nil
	}
	l.ReservedQuantity += qty
	return true, nil
}

func (r *fakeInventoryRepo) ReleaseFrame(_ context.Context, _ *gorm.DB, levelID uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.levels[levelID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if l.ReservedQuantity < qty {
		return false, nil
	}
	l.ReservedQuantity -= qty
	return true, nil
}

func (r *fakeInventoryRepo) CommitFrame(_ context.Context, _ *gorm.DB, levelID uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.levels[levelID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if l.ReservedQuantity < qty {
		return false, nil
	}
	l.ReservedQuantity -= qty
	l.Quantity -= qty
	return true, nil
}

func (r *fakeInventoryRepo) AdjustFrame(_ context.Context, _ *gorm.DB, levelID uuid.UUID, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.levels[levelID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if delta < 0 && l.Quantity-l.ReservedQuantity < -delta {
		return false, nil
	}
	l.Quantity += delta
	return true, nil
}

func sameParams(a, b model.LensParams) bool {
	if !a.Spherical.Equal(b.Spherical) || !a.Cylindrical.Equal(b.Cylindrical) {
		return false
	}
	if (a.Axis == nil) != (b.Axis == nil) {
		return false
	}
	return a.Axis == nil || *a.Axis == *b.Axis
}

func (r *fakeInventoryRepo) FindLensStock(_ context.Context, _ *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams) (*model.LensStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.lenses {
		if s.OrganizationID == orgID && s.StoreID == storeID && s.ProductLensID == lensID && sameParams(s.LensParams, p) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInventoryRepo) EnsureLensStock(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams) (*model.LensStock, error) {
	if s, err := r.FindLensStock(ctx, tx, orgID, storeID, lensID, p); err == nil {
		return s, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.seedLensStock(orgID, storeID, lensID, p, 0)
	return &cp, nil
}

func (r *fakeInventoryRepo) ReserveLens(_ context.Context, _ *gorm.DB, stockID uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.lenses[stockID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if s.Quantity-s.ReservedQuantity < qty {
		return false, nil
	}
	s.ReservedQuantity += qty
	return true, nil
}

func (r *fakeInventoryRepo) ReleaseLens(_ context.Context, _ *gorm.DB, stockID uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.lenses[stockID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if s.ReservedQuantity < qty {
		return false, nil
	}
	s.ReservedQuantity -= qty
	return true, nil
}

func (r *fakeInventoryRepo) CommitLens(_ context.Context, _ *gorm.DB, stockID uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.lenses[stockID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if s.ReservedQuantity < qty {
		return false, nil
	}
	s.ReservedQuantity -= qty
	s.Quantity -= qty
	return true, nil
}

func (r *fakeInventoryRepo) AdjustLens(_ context.Context, _ *gorm.DB, stockID uuid.UUID, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.lenses[stockID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if delta < 0 && s.Quantity-s.ReservedQuantity < -delta {
		return false, nil
	}
	s.Quantity += delta
	return true, nil
}

func (r *fakeInventoryRepo) ListLevels(_ context.Context, orgID string, _ dto.LevelFilter) ([]model.InventoryLevel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryLevel
	for _, l := range r.levels {
		if l.OrganizationID == orgID {
			out = append(out, *l)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.InventoryRepository = (*fakeInventoryRepo)(nil)

// ── Stock movements ──────────────────────────────────────────────────────────

type fakeStockMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *fakeStockMovementRepo) Create(_ context.Context, _ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeStockMovementRepo) List(_ context.Context, orgID string, _ dto.MovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.OrganizationID == orgID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*fakeStockMovementRepo)(nil)

// ── Products ─────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	frames map[uuid.UUID]*model.ProductFrame
	lenses map[uuid.UUID]*model.ProductLens
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		frames: make(map[uuid.UUID]*model.ProductFrame),
		lenses: make(map[uuid.UUID]*model.ProductLens),
	}
}

func (r *fakeProductRepo) CreateFrame(_ context.Context, f *model.ProductFrame) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.frames[f.ID] = f
	return nil
}

func (r *fakeProductRepo) FindFrameByID(_ context.Context, orgID string, id uuid.UUID) (*model.ProductFrame, error) {
	f, ok := r.frames[id]
	if !ok || f.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *fakeProductRepo) FindFrameByReference(_ context.Context, orgID, reference string) (*model.ProductFrame, error) {
	for _, f := range r.frames {
		if f.OrganizationID == orgID && f.ReferenceCode == reference {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) UpdateFrame(_ context.Context, f *model.ProductFrame) error {
	r.frames[f.ID] = f
	return nil
}

func (r *fakeProductRepo) ListFrames(_ context.Context, orgID string, _ dto.ProductFilter) ([]model.ProductFrame, int64, error) {
	var out []model.ProductFrame
	for _, f := range r.frames {
		if f.OrganizationID == orgID {
			out = append(out, *f)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) CreateLens(_ context.Context, l *model.ProductLens) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lenses[l.ID] = l
	return nil
}

func (r *fakeProductRepo) FindLensByID(_ context.Context, orgID string, id uuid.UUID) (*model.ProductLens, error) {
	l, ok := r.lenses[id]
	if !ok || l.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *fakeProductRepo) UpdateLens(_ context.Context, l *model.ProductLens) error {
	r.lenses[l.ID] = l
	return nil
}

func (r *fakeProductRepo) ListLenses(_ context.Context, orgID string, _ dto.ProductFilter) ([]model.ProductLens, int64, error) {
	var out []model.ProductLens
	for _, l := range r.lenses {
		if l.OrganizationID == orgID {
			out = append(out, *l)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

// ── Customers / Stores ───────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, orgID string, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) FindByDocument(_ context.Context, orgID, document string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.OrganizationID == orgID && c.Document == document {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, orgID string, _ dto.CustomerFilter) ([]model.Customer, int64, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.OrganizationID == orgID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.CustomerRepository = (*fakeCustomerRepo)(nil)

type fakeStoreRepo struct {
	stores map[uuid.UUID]*model.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[uuid.UUID]*model.Store)}
}

func (r *fakeStoreRepo) FindByID(_ context.Context, orgID string, id uuid.UUID) (*model.Store, error) {
	s, ok := r.stores[id]
	if !ok || s.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeStoreRepo) List(_ context.Context, orgID string) ([]model.Store, error) {
	var out []model.Store
	for _, s := range r.stores {
		if s.OrganizationID == orgID {
			out = append(out, *s)
		}
	}
	return out, nil
}

var _ repository.StoreRepository = (*fakeStoreRepo)(nil)

// ── Cash ─────────────────────────────────────────────────────────────────────

type fakeCashRepo struct {
	sessions  map[uuid.UUID]*model.CashSession
	movements []model.CashMovement
}

func newFakeCashRepo() *fakeCashRepo {
	return &fakeCashRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *fakeCashRepo) DB() *gorm.DB { return nil }

func (r *fakeCashRepo) CreateSession(_ context.Context, s *model.CashSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	cp.Movements = nil
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeCashRepo) FindOpenByStaff(_ context.Context, orgID string, staffID uuid.UUID) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.OrganizationID == orgID && s.StaffID == staffID && s.Status == model.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCashRepo) FindSessionByID(_ context.Context, orgID string, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok || s.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Movements = nil
	for _, m := range r.movements {
		if m.CashSessionID == id {
			cp.Movements = append(cp.Movements, m)
		}
	}
	return &cp, nil
}

func (r *fakeCashRepo) UpdateSession(_ context.Context, _ *gorm.DB, s *model.CashSession) error {
	cp := *s
	cp.Movements = nil
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeCashRepo) CreateMovement(_ context.Context, _ *gorm.DB, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeCashRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.CashSessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCashRepo) SumMovements(_ context.Context, _ *gorm.DB, sessionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	deposits, withdrawals := decimal.Zero, decimal.Zero
	for _, m := range r.movements {
		if m.CashSessionID != sessionID {
			continue
		}
		switch m.MovementType {
		case model.MovementDeposit:
			deposits = deposits.Add(m.Amount)
		case model.MovementWithdrawal:
			withdrawals = withdrawals.Add(m.Amount)
		}
	}
	return deposits, withdrawals, nil
}

func (r *fakeCashRepo) ListSessions(_ context.Context, orgID string, _ dto.SessionFilter) ([]model.CashSession, int64, error) {
	var out []model.CashSession
	for _, s := range r.sessions {
		if s.OrganizationID == orgID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.CashRepository = (*fakeCashRepo)(nil)

// ── Sales / Receivables ──────────────────────────────────────────────────────

type fakeSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *fakeSaleRepo) DB() *gorm.DB { return nil }

func (r *fakeSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, orgID string, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) FindAny(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) FindByOrderID(_ context.Context, orgID string, orderID uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.OrganizationID == orgID && s.OrderID == orderID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSaleRepo) List(_ context.Context, orgID string, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.OrganizationID == orgID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

type fakeReceivableRepo struct {
	receivables map[uuid.UUID]*model.Receivable
}

func newFakeReceivableRepo() *fakeReceivableRepo {
	return &fakeReceivableRepo{receivables: make(map[uuid.UUID]*model.Receivable)}
}

func (r *fakeReceivableRepo) DB() *gorm.DB { return nil }

func (r *fakeReceivableRepo) Create(_ context.Context, _ *gorm.DB, rcv *model.Receivable) error {
	if rcv.ID == uuid.Nil {
		rcv.ID = uuid.New()
	}
	cp := *rcv
	r.receivables[rcv.ID] = &cp
	return nil
}

func (r *fakeReceivableRepo) FindByID(_ context.Context, orgID string, id uuid.UUID) (*model.Receivable, error) {
	rcv, ok := r.receivables[id]
	if !ok || rcv.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rcv
	return &cp, nil
}

func (r *fakeReceivableRepo) Update(_ context.Context, _ *gorm.DB, rcv *model.Receivable) error {
	cp := *rcv
	r.receivables[rcv.ID] = &cp
	return nil
}

func (r *fakeReceivableRepo) List(_ context.Context, orgID string, _ dto.ReceivableFilter) ([]model.Receivable, int64, error) {
	var out []model.Receivable
	for _, rcv := range r.receivables {
		if rcv.OrganizationID == orgID {
			out = append(out, *rcv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReceivableRepo) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, rcv := range r.receivables {
		if (rcv.Status == model.ReceivablePending || rcv.Status == model.ReceivablePartial) && rcv.DueDate.Before(asOf) {
			rcv.Status = model.ReceivableOverdue
			n++
		}
	}
	return n, nil
}

var _ repository.ReceivableRepository = (*fakeReceivableRepo)(nil)
