package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/labsys/labstock/internal/domain"
)

// StockUC exposes the stock view and the consumption workflow.
type StockUC struct {
	Store    domain.Store
	Notifier domain.LowStockNotifier
}

// ProductTotal is one line of the stock overview.
type ProductTotal struct {
	Product domain.Product `json:"product"`
	Total   int            `json:"total"`
}

// ProductsInStock lists the products present in a stock with their summed
// totals across lots, ordered by name.
func (uc *StockUC) ProductsInStock(ctx context.Context, stockID uuid.UUID) ([]ProductTotal, error) {
	rows, err := uc.Store.Ledger().ListInStock(ctx, stockID)
	if err != nil {
		return nil, err
	}
	totals := []ProductTotal{}
	seen := map[uuid.UUID]int{}
	for _, sp := range rows {
		if idx, ok := seen[sp.ProductID]; ok {
			totals[idx].Total += sp.Amount
			continue
		}
		if sp.Product == nil {
			continue
		}
		seen[sp.ProductID] = len(totals)
		totals = append(totals, ProductTotal{Product: *sp.Product, Total: sp.Amount})
	}
	return totals, nil
}

// LotsInStock returns the individual lots with units on hand, for the
// consumption picker.
func (uc *StockUC) LotsInStock(ctx context.Context, stockID uuid.UUID) ([]domain.StockProduct, error) {
	return uc.Store.Ledger().ListInStock(ctx, stockID)
}

// Consume withdraws amount units from the selected lot and records the SUB
// transaction, both inside one database transaction: neither takes effect
// without the other. ErrInsufficientStock surfaces with nothing mutated.
func (uc *StockUC) Consume(ctx context.Context, userID, stockProductID uuid.UUID, amount int) error {
	sp, err := uc.Store.Ledger().FindStockProduct(ctx, stockProductID)
	if err != nil {
		return err
	}
	productID := sp.ProductID
	stockID := sp.StockID

	err = uc.Store.Atomic(ctx, func(tx domain.RepoSet) error {
		if err := tx.Ledger().Subtract(ctx, stockID, productID, sp.LotNumber, amount); err != nil {
			return err
		}
		return tx.Transactions().Record(ctx, &domain.Transaction{
			UserID:    &userID,
			ProductID: &productID,
			StockID:   &stockID,
			LotNumber: sp.LotNumber,
			Amount:    amount,
			Category:  domain.TransactionSub,
		})
	})
	if err != nil {
		return err
	}

	uc.checkMinimum(ctx, stockID, productID)
	return nil
}

// checkMinimum emits the low-stock event when the product's total falls
// below its configured minimum. Purely a hook: failures are logged, never
// surfaced.
func (uc *StockUC) checkMinimum(ctx context.Context, stockID, productID uuid.UUID) {
	if uc.Notifier == nil {
		return
	}
	total, err := uc.Store.Ledger().Total(ctx, stockID, productID)
	if err != nil {
		log.Error().Err(err).Msg("could not total product after consumption")
		return
	}
	product, err := uc.Store.Catalog().FindProduct(ctx, productID)
	if err != nil {
		log.Error().Err(err).Msg("could not load product after consumption")
		return
	}
	if total < product.StockMinimum {
		uc.Notifier.NotifyLowStock(*product, total)
	}
}
