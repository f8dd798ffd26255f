package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/labsys/labstock/internal/domain"
)

// OrderUC drives the purchase workflow: lines accumulate in a per-user
// transient cart, and checkout reconciles them into a persisted order plus
// stock additions plus audit transactions.
type OrderUC struct {
	Store domain.Store
	Carts domain.CartStore
}

// OrderMeta is the free-text invoice information entered at checkout.
type OrderMeta struct {
	InvoiceType  string
	Invoice      string
	InvoiceValue float64
	Financier    string
	Notes        string
}

// AddLine validates a requested line and appends it to the user's cart.
// Nothing is persisted yet.
func (uc *OrderUC) AddLine(ctx context.Context, userID uuid.UUID, line domain.CartLine) error {
	if line.Amount < 1 {
		return domain.ErrInvalidAmount
	}
	if _, err := uc.Store.Catalog().FindSpecification(ctx, line.SpecificationID); err != nil {
		return err
	}
	return uc.Carts.Append(ctx, userID, line)
}

func (uc *OrderUC) Cart(ctx context.Context, userID uuid.UUID) (domain.Cart, error) {
	return uc.Carts.Get(ctx, userID)
}

// Cancel discards the cart without touching persisted stock.
func (uc *OrderUC) Cancel(ctx context.Context, userID uuid.UUID) error {
	return uc.Carts.Clear(ctx, userID)
}

// Checkout turns the cart into an order. The order row, its items, every
// stock addition and one ADD transaction per cart line commit as a single
// transaction; a failure on any line undoes all of it and discards the cart.
// Repeated lines for the same specification and lot collapse into one order
// item, while each original line still gets its own ADD transaction.
func (uc *OrderUC) Checkout(ctx context.Context, userID, stockID uuid.UUID, meta OrderMeta) (*domain.Order, error) {
	cart, err := uc.Carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, domain.ErrEmptyCart
	}

	order := &domain.Order{
		ID:           uuid.New(),
		UserID:       &userID,
		InvoiceType:  meta.InvoiceType,
		Invoice:      meta.Invoice,
		InvoiceValue: meta.InvoiceValue,
		Financier:    meta.Financier,
		Notes:        meta.Notes,
		OrderDate:    time.Now(),
	}
	err = uc.Store.Atomic(ctx, func(tx domain.RepoSet) error {
		type itemKey struct {
			specID uuid.UUID
			lot    string
		}
		merged := make(map[itemKey]int)
		audit := make([]domain.Transaction, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			spec, err := tx.Catalog().FindSpecification(ctx, line.SpecificationID)
			if err != nil {
				return err
			}
			totalUnits := line.Amount * spec.Units
			if err := tx.Ledger().Add(ctx, stockID, spec.ProductID, line.LotNumber, line.ExpirationDate, totalUnits); err != nil {
				return err
			}
			// One row per (specification, lot): order_items carries a unique
			// index on that pair, so repeated lines accumulate on the first.
			key := itemKey{spec.ID, line.LotNumber}
			if i, ok := merged[key]; ok {
				order.Items[i].Amount += line.Amount
			} else {
				specID := spec.ID
				merged[key] = len(order.Items)
				order.Items = append(order.Items, domain.OrderItem{
					ID:              uuid.New(),
					SpecificationID: &specID,
					LotNumber:       line.LotNumber,
					Amount:          line.Amount,
					ExpirationDate:  line.ExpirationDate,
					AddedToStock:    true,
				})
			}
			productID := spec.ProductID
			audit = append(audit, domain.Transaction{
				UserID:    &userID,
				ProductID: &productID,
				StockID:   &stockID,
				LotNumber: line.LotNumber,
				Amount:    totalUnits,
				Category:  domain.TransactionAdd,
			})
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		for i := range audit {
			if err := tx.Transactions().Record(ctx, &audit[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Rolled back: no order, items, stock deltas or transactions remain.
		// The cart is discarded so a broken line cannot be resubmitted
		// blindly.
		if clearErr := uc.Carts.Clear(ctx, userID); clearErr != nil {
			log.Error().Err(clearErr).Msg("could not clear cart after failed checkout")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("checkout rolled back")
		return nil, err
	}

	if err := uc.Carts.Clear(ctx, userID); err != nil {
		log.Error().Err(err).Msg("could not clear cart after checkout")
	}
	return order, nil
}

func (uc *OrderUC) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return uc.Store.Orders().List(ctx)
}

func (uc *OrderUC) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return uc.Store.Transactions().List(ctx)
}

// Retryable reports whether the operator can fix the failure with different
// input (smaller amount, valid line) as opposed to an unexpected error that
// needs an administrator.
func Retryable(err error) bool {
	return errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrEmptyCart)
}
