package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labsys/labstock/internal/domain"
)

// TransactionRepo appends to the audit trail. There is deliberately no
// update or delete: rows are immutable once committed.
type TransactionRepo struct{ db *gorm.DB }

func NewTransactionRepo(db *gorm.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Record(ctx context.Context, t *domain.Transaction) error {
	if t.Amount < 1 {
		return domain.ErrInvalidAmount
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	var list []domain.Transaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		Preload("Stock").
		Order("updated_at desc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
