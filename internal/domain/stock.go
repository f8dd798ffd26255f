package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stock is a named location holding product quantities partitioned by lot
// number, so expiration tracking stays possible per batch.
type Stock struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name          string         `gorm:"size:255;not null;uniqueIndex"`
	StockProducts []StockProduct `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StockProduct is the quantity-on-hand row for one (stock, product, lot)
// combination. It is created lazily on the first addition and never drops
// below zero.
type StockProduct struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StockID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:unique_stock_product"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:unique_stock_product"`
	LotNumber      string    `gorm:"size:255;not null;uniqueIndex:unique_stock_product"`
	ExpirationDate *time.Time `gorm:"type:date"`
	Amount         int        `gorm:"not null;default:0"`
	Product        *Product   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Increase adds n units. n below one is rejected and the row is untouched.
func (sp *StockProduct) Increase(n int) error {
	if n < 1 {
		return ErrInvalidAmount
	}
	sp.Amount += n
	return nil
}

// Decrease removes n units, refusing to take the amount negative.
func (sp *StockProduct) Decrease(n int) error {
	if n < 1 {
		return ErrInvalidAmount
	}
	if sp.Amount < n {
		return ErrInsufficientStock
	}
	sp.Amount -= n
	return nil
}

// HasEnough reports whether n units can be withdrawn from this lot.
func (sp *StockProduct) HasEnough(n int) (bool, error) {
	if n < 1 {
		return false, ErrInvalidAmount
	}
	return sp.Amount >= n, nil
}

// LedgerRepo is the stock ledger. Add and Subtract are check-then-act
// sequences: implementations must lock the row for the duration of the
// operation, and callers that combine them with other writes wrap the whole
// thing in Store.Atomic.
type LedgerRepo interface {
	FindStock(ctx context.Context, id uuid.UUID) (*Stock, error)
	FindStockByName(ctx context.Context, name string) (*Stock, error)
	ListStocks(ctx context.Context) ([]Stock, error)

	// Total sums the amounts of every lot of a product in a stock.
	Total(ctx context.Context, stockID, productID uuid.UUID) (int, error)
	// GetInStock is the exact (stock, product, lot) lookup. ErrNotFound
	// when the row was never created.
	GetInStock(ctx context.Context, stockID, productID uuid.UUID, lotNumber string) (*StockProduct, error)
	FindStockProduct(ctx context.Context, id uuid.UUID) (*StockProduct, error)
	// ListInStock returns the rows with units on hand, ordered by product
	// name, for the stock view and the consumption picker.
	ListInStock(ctx context.Context, stockID uuid.UUID) ([]StockProduct, error)

	HasEnough(ctx context.Context, stockID, productID uuid.UUID, lotNumber string, amount int) (bool, error)
	// Add increments a lot, creating the row at zero first if needed. A
	// divergent expiration date is overwritten last-write-wins with a
	// logged warning.
	Add(ctx context.Context, stockID, productID uuid.UUID, lotNumber string, expirationDate *time.Time, amount int) error
	// Subtract decrements a lot or fails with ErrInsufficientStock, never
	// leaving a negative amount behind.
	Subtract(ctx context.Context, stockID, productID uuid.UUID, lotNumber string, amount int) error
}
