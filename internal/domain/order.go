package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order is a completed purchase event. The user reference survives user
// deletion as null to keep the purchase history.
type Order struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	User         *User      `gorm:"constraint:OnDelete:SET NULL"`
	InvoiceType  string     `gorm:"size:255"`
	Invoice      string     `gorm:"size:255"`
	InvoiceValue float64    `gorm:"type:decimal(12,2);default:0"`
	Financier    string     `gorm:"size:255"`
	Notes        string     `gorm:"type:text"`
	OrderDate    time.Time  `gorm:"not null"`
	Items        []OrderItem `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem is one cart line materialized. AddedToStock marks that the
// reconciliation step ran for this line. A deleted specification orphans the
// line instead of deleting it.
type OrderItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:unique_order_item"`
	SpecificationID *uuid.UUID     `gorm:"type:uuid;uniqueIndex:unique_order_item"`
	Specification   *Specification `gorm:"constraint:OnDelete:SET NULL"`
	LotNumber       string         `gorm:"size:255;not null;uniqueIndex:unique_order_item"`
	Amount          int            `gorm:"not null"`
	ExpirationDate  *time.Time     `gorm:"type:date"`
	AddedToStock    bool           `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderRepo interface {
	// Create persists the order together with its items.
	Create(ctx context.Context, o *Order) error
	// List returns orders newest first by order date, items included.
	List(ctx context.Context) ([]Order, error)
	ListItems(ctx context.Context) ([]OrderItem, error)
}
