package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labsys/labstock/internal/domain"
)

// LedgerRepo implements the stock ledger over the stock_products table. Add
// and Subtract lock the row (SELECT ... FOR UPDATE) so concurrent movements
// against the same lot serialize instead of racing the amount check.
type LedgerRepo struct{ db *gorm.DB }

func NewLedgerRepo(db *gorm.DB) *LedgerRepo { return &LedgerRepo{db: db} }

func (r *LedgerRepo) FindStock(ctx context.Context, id uuid.UUID) (*domain.Stock, error) {
	var s domain.Stock
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *LedgerRepo) FindStockByName(ctx context.Context, name string) (*domain.Stock, error) {
	var s domain.Stock
	if err := r.db.WithContext(ctx).First(&s, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *LedgerRepo) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	var list []domain.Stock
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *LedgerRepo) Total(ctx context.Context, stockID, productID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.StockProduct{}).
		Where("stock_id = ? AND product_id = ?", stockID, productID).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *LedgerRepo) GetInStock(ctx context.Context, stockID, productID uuid.UUID, lotNumber string) (*domain.StockProduct, error) {
	var sp domain.StockProduct
	err := r.db.WithContext(ctx).
		Where("stock_id = ? AND product_id = ? AND lot_number = ?", stockID, productID, lotNumber).
		First(&sp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sp, nil
}

func (r *LedgerRepo) FindStockProduct(ctx context.Context, id uuid.UUID) (*domain.StockProduct, error) {
	var sp domain.StockProduct
	if err := r.db.WithContext(ctx).Preload("Product").First(&sp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sp, nil
}

func (r *LedgerRepo) ListInStock(ctx context.Context, stockID uuid.UUID) ([]domain.StockProduct, error) {
	var list []domain.StockProduct
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = stock_products.product_id").
		Where("stock_products.stock_id = ? AND stock_products.amount > 0", stockID).
		Order("products.name asc").
		Preload("Product").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *LedgerRepo) HasEnough(ctx context.Context, stockID, productID uuid.UUID, lotNumber string, amount int) (bool, error) {
	if amount < 1 {
		return false, domain.ErrInvalidAmount
	}
	sp, err := r.GetInStock(ctx, stockID, productID, lotNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return sp.HasEnough(amount)
}

func (r *LedgerRepo) Add(ctx context.Context, stockID, productID uuid.UUID, lotNumber string, expirationDate *time.Time, amount int) error {
	if amount < 1 {
		return domain.ErrInvalidAmount
	}
	tx := r.db.WithContext(ctx)
	var sp domain.StockProduct
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("stock_id = ? AND product_id = ? AND lot_number = ?", stockID, productID, lotNumber).
		First(&sp).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sp = domain.StockProduct{
			ID:             uuid.New(),
			StockID:        stockID,
			ProductID:      productID,
			LotNumber:      lotNumber,
			ExpirationDate: expirationDate,
		}
		if err := tx.Create(&sp).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if !sameDate(sp.ExpirationDate, expirationDate) {
			// Last write wins, per the receiving flow: a corrected lot
			// label must be storable without admin intervention.
			log.Warn().
				Str("lot_number", lotNumber).
				Str("product_id", productID.String()).
				Msg("expiration date differs from the stored one, overwriting")
			sp.ExpirationDate = expirationDate
		}
	}
	if err := sp.Increase(amount); err != nil {
		return err
	}
	return tx.Save(&sp).Error
}

func (r *LedgerRepo) Subtract(ctx context.Context, stockID, productID uuid.UUID, lotNumber string, amount int) error {
	if amount < 1 {
		return domain.ErrInvalidAmount
	}
	tx := r.db.WithContext(ctx)
	var sp domain.StockProduct
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("stock_id = ? AND product_id = ? AND lot_number = ?", stockID, productID, lotNumber).
		First(&sp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInsufficientStock
		}
		return err
	}
	if err := sp.Decrease(amount); err != nil {
		return err
	}
	return tx.Save(&sp).Error
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
