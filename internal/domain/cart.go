package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CartLine is one requested purchase: a specification, how many items of it,
// and the lot the supplier announced.
type CartLine struct {
	SpecificationID uuid.UUID  `json:"specification_id"`
	Amount          int        `json:"amount"`
	LotNumber       string     `json:"lot_number"`
	ExpirationDate  *time.Time `json:"expiration_date"`
}

// Cart is the transient, per-user list of lines for an order being built.
// Nothing in it is persisted until checkout succeeds.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) Add(line CartLine) error {
	if line.Amount < 1 {
		return ErrInvalidAmount
	}
	if line.SpecificationID == uuid.Nil || line.LotNumber == "" {
		return ErrNotFound
	}
	c.Lines = append(c.Lines, line)
	return nil
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// CartStore keeps one cart per user in whatever transient store the web
// layer provides. Only get/append/clear semantics are required.
type CartStore interface {
	Get(ctx context.Context, userID uuid.UUID) (Cart, error)
	Append(ctx context.Context, userID uuid.UUID, line CartLine) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
