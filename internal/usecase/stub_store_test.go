package usecase_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/labsys/labstock/internal/domain"
)

// ── In-memory Store stub ─────────────────────────────────────────────────────
//
// Atomic works on a copy of the state and swaps it in only when fn succeeds,
// so rollback behavior is observable in tests.

type memState struct {
	products map[uuid.UUID]*domain.Product
	specs    map[uuid.UUID]*domain.Specification
	stocks   map[uuid.UUID]*domain.Stock
	lots     map[uuid.UUID]*domain.StockProduct
	orders   []domain.Order
	txs      []domain.Transaction

	recordErr error
}

func newMemState() *memState {
	return &memState{
		products: make(map[uuid.UUID]*domain.Product),
		specs:    make(map[uuid.UUID]*domain.Specification),
		stocks:   make(map[uuid.UUID]*domain.Stock),
		lots:     make(map[uuid.UUID]*domain.StockProduct),
	}
}

func (s *memState) clone() *memState {
	out := newMemState()
	for k, v := range s.products {
		p := *v
		out.products[k] = &p
	}
	for k, v := range s.specs {
		sp := *v
		out.specs[k] = &sp
	}
	for k, v := range s.stocks {
		st := *v
		out.stocks[k] = &st
	}
	for k, v := range s.lots {
		l := *v
		out.lots[k] = &l
	}
	out.orders = append(out.orders, s.orders...)
	out.txs = append(out.txs, s.txs...)
	out.recordErr = s.recordErr
	return out
}

type memStore struct{ state *memState }

func newMemStore() *memStore { return &memStore{state: newMemState()} }

func (s *memStore) Catalog() domain.CatalogRepo          { return &memCatalog{s.state} }
func (s *memStore) Ledger() domain.LedgerRepo            { return &memLedger{s.state} }
func (s *memStore) Orders() domain.OrderRepo             { return &memOrders{s.state} }
func (s *memStore) Transactions() domain.TransactionRepo { return &memTxs{s.state} }

func (s *memStore) Atomic(_ context.Context, fn func(tx domain.RepoSet) error) error {
	work := &memStore{state: s.state.clone()}
	if err := fn(work); err != nil {
		return err
	}
	s.state = work.state
	return nil
}

// Seeding helpers.

func (s *memStore) seedStock(name string) uuid.UUID {
	id := uuid.New()
	s.state.stocks[id] = &domain.Stock{ID: id, Name: name}
	return id
}

func (s *memStore) seedProduct(name string, minimum int) *domain.Product {
	p := &domain.Product{ID: uuid.New(), Name: name, StockMinimum: minimum}
	s.state.products[p.ID] = p
	return p
}

func (s *memStore) seedSpecification(productID uuid.UUID, units int) *domain.Specification {
	sp := &domain.Specification{ID: uuid.New(), ProductID: productID, Units: units}
	s.state.specs[sp.ID] = sp
	return sp
}

func (s *memStore) seedLot(stockID, productID uuid.UUID, lot string, amount int) *domain.StockProduct {
	l := &domain.StockProduct{
		ID: uuid.New(), StockID: stockID, ProductID: productID,
		LotNumber: lot, Amount: amount,
	}
	s.state.lots[l.ID] = l
	return l
}

// ── CatalogRepo ──────────────────────────────────────────────────────────────

type memCatalog struct{ state *memState }

func (r *memCatalog) CreateProduct(_ context.Context, p *domain.Product) error {
	for _, existing := range r.state.products {
		if existing.Name == p.Name {
			return domain.ErrDuplicateName
		}
	}
	cp := *p
	r.state.products[p.ID] = &cp
	return nil
}

func (r *memCatalog) FindProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.state.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memCatalog) FindProductByName(_ context.Context, name string) (*domain.Product, error) {
	for _, p := range r.state.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	list := []domain.Product{}
	for _, p := range r.state.products {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *memCatalog) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.state.products, id)
	for sid, sp := range r.state.specs {
		if sp.ProductID == id {
			delete(r.state.specs, sid)
		}
	}
	for lid, l := range r.state.lots {
		if l.ProductID == id {
			delete(r.state.lots, lid)
		}
	}
	for i := range r.state.txs {
		if r.state.txs[i].ProductID != nil && *r.state.txs[i].ProductID == id {
			r.state.txs[i].ProductID = nil
		}
	}
	return nil
}

func (r *memCatalog) CreateSpecification(_ context.Context, s *domain.Specification) error {
	for _, existing := range r.state.specs {
		if existing.ProductID == s.ProductID &&
			existing.Manufacturer == s.Manufacturer &&
			existing.CatalogNumber == s.CatalogNumber {
			return domain.ErrDuplicateSpecification
		}
	}
	cp := *s
	r.state.specs[s.ID] = &cp
	return nil
}

func (r *memCatalog) FindSpecification(_ context.Context, id uuid.UUID) (*domain.Specification, error) {
	s, ok := r.state.specs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memCatalog) ListSpecifications(_ context.Context) ([]domain.Specification, error) {
	list := []domain.Specification{}
	for _, s := range r.state.specs {
		list = append(list, *s)
	}
	return list, nil
}

// ── LedgerRepo ───────────────────────────────────────────────────────────────

type memLedger struct{ state *memState }

func (r *memLedger) FindStock(_ context.Context, id uuid.UUID) (*domain.Stock, error) {
	s, ok := r.state.stocks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memLedger) FindStockByName(_ context.Context, name string) (*domain.Stock, error) {
	for _, s := range r.state.stocks {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memLedger) ListStocks(_ context.Context) ([]domain.Stock, error) {
	list := []domain.Stock{}
	for _, s := range r.state.stocks {
		list = append(list, *s)
	}
	return list, nil
}

func (r *memLedger) lot(stockID, productID uuid.UUID, lotNumber string) *domain.StockProduct {
	for _, l := range r.state.lots {
		if l.StockID == stockID && l.ProductID == productID && l.LotNumber == lotNumber {
			return l
		}
	}
	return nil
}

func (r *memLedger) Total(_ context.Context, stockID, productID uuid.UUID) (int, error) {
	total := 0
	for _, l := range r.state.lots {
		if l.StockID == stockID && l.ProductID == productID {
			total += l.Amount
		}
	}
	return total, nil
}

func (r *memLedger) GetInStock(_ context.Context, stockID, productID uuid.UUID, lotNumber string) (*domain.StockProduct, error) {
	if l := r.lot(stockID, productID, lotNumber); l != nil {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memLedger) FindStockProduct(_ context.Context, id uuid.UUID) (*domain.StockProduct, error) {
	l, ok := r.state.lots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	if p, ok := r.state.products[l.ProductID]; ok {
		pp := *p
		cp.Product = &pp
	}
	return &cp, nil
}

func (r *memLedger) ListInStock(_ context.Context, stockID uuid.UUID) ([]domain.StockProduct, error) {
	list := []domain.StockProduct{}
	for _, l := range r.state.lots {
		if l.StockID != stockID || l.Amount <= 0 {
			continue
		}
		cp := *l
		if p, ok := r.state.products[l.ProductID]; ok {
			pp := *p
			cp.Product = &pp
		}
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Product.Name < list[j].Product.Name
	})
	return list, nil
}

func (r *memLedger) HasEnough(_ context.Context, stockID, productID uuid.UUID, lotNumber string, amount int) (bool, error) {
	if amount < 1 {
		return false, domain.ErrInvalidAmount
	}
	l := r.lot(stockID, productID, lotNumber)
	if l == nil {
		return false, nil
	}
	return l.HasEnough(amount)
}

func (r *memLedger) Add(_ context.Context, stockID, productID uuid.UUID, lotNumber string, expirationDate *time.Time, amount int) error {
	if amount < 1 {
		return domain.ErrInvalidAmount
	}
	l := r.lot(stockID, productID, lotNumber)
	if l == nil {
		l = &domain.StockProduct{
			ID: uuid.New(), StockID: stockID, ProductID: productID,
			LotNumber: lotNumber, ExpirationDate: expirationDate,
		}
		r.state.lots[l.ID] = l
	} else {
		// Last write wins on a divergent expiration date, as the real
		// ledger does.
		l.ExpirationDate = expirationDate
	}
	return l.Increase(amount)
}

func (r *memLedger) Subtract(_ context.Context, stockID, productID uuid.UUID, lotNumber string, amount int) error {
	if amount < 1 {
		return domain.ErrInvalidAmount
	}
	l := r.lot(stockID, productID, lotNumber)
	if l == nil {
		return domain.ErrInsufficientStock
	}
	return l.Decrease(amount)
}

// ── OrderRepo / TransactionRepo ──────────────────────────────────────────────

type memOrders struct{ state *memState }

func (r *memOrders) Create(_ context.Context, o *domain.Order) error {
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	// Same unique index as the order_items table.
	seen := make(map[string]struct{})
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if o.Items[i].SpecificationID == nil {
			continue
		}
		key := o.Items[i].SpecificationID.String() + "|" + o.Items[i].LotNumber
		if _, dup := seen[key]; dup {
			return errors.New("duplicate key value violates unique constraint \"unique_order_item\"")
		}
		seen[key] = struct{}{}
	}
	r.state.orders = append(r.state.orders, *o)
	return nil
}

func (r *memOrders) List(_ context.Context) ([]domain.Order, error) {
	list := make([]domain.Order, len(r.state.orders))
	copy(list, r.state.orders)
	sort.Slice(list, func(i, j int) bool { return list[i].OrderDate.After(list[j].OrderDate) })
	return list, nil
}

func (r *memOrders) ListItems(_ context.Context) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	for _, o := range r.state.orders {
		items = append(items, o.Items...)
	}
	return items, nil
}

type memTxs struct{ state *memState }

func (r *memTxs) Record(_ context.Context, t *domain.Transaction) error {
	if r.state.recordErr != nil {
		return r.state.recordErr
	}
	if t.Amount < 1 {
		return domain.ErrInvalidAmount
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.state.txs = append(r.state.txs, *t)
	return nil
}

func (r *memTxs) List(_ context.Context) ([]domain.Transaction, error) {
	list := make([]domain.Transaction, len(r.state.txs))
	copy(list, r.state.txs)
	return list, nil
}

// ── Cart store stub ──────────────────────────────────────────────────────────

type stubCartStore struct {
	carts map[uuid.UUID]domain.Cart
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[uuid.UUID]domain.Cart)}
}

func (s *stubCartStore) Get(_ context.Context, userID uuid.UUID) (domain.Cart, error) {
	return s.carts[userID], nil
}

func (s *stubCartStore) Append(_ context.Context, userID uuid.UUID, line domain.CartLine) error {
	cart := s.carts[userID]
	if err := cart.Add(line); err != nil {
		return err
	}
	s.carts[userID] = cart
	return nil
}

func (s *stubCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	delete(s.carts, userID)
	return nil
}
