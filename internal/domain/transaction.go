package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TransactionCategory string

const (
	TransactionAdd TransactionCategory = "ADD"
	TransactionSub TransactionCategory = "SUB"
)

// Transaction is one immutable row of the audit trail: who moved how many
// units of which lot, in or out. References are cleared, never cascaded, so
// history outlives the entities it mentions. Amount is always positive, the
// direction lives in Category.
type Transaction struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	User      *User      `gorm:"constraint:OnDelete:SET NULL"`
	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	Product   *Product   `gorm:"constraint:OnDelete:SET NULL"`
	StockID   *uuid.UUID `gorm:"type:uuid;index"`
	Stock     *Stock     `gorm:"constraint:OnDelete:SET NULL"`
	LotNumber string     `gorm:"size:255"`
	Amount    int        `gorm:"not null;check:amount > 0"`
	Category  TransactionCategory `gorm:"size:3;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransactionRepo is append-only. There is no update or delete.
type TransactionRepo interface {
	Record(ctx context.Context, t *Transaction) error
	// List returns the trail ordered by last modification, newest first.
	List(ctx context.Context) ([]Transaction, error)
}
