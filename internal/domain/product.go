package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry for a reagent. StockMinimum is only an alert
// threshold, the ledger never enforces it.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name           string          `gorm:"size:255;not null;uniqueIndex"`
	StockMinimum   int             `gorm:"not null;default:1"`
	Specifications []Specification `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Specification is a purchasable variant of a product: one manufacturer's
// catalog item. Units is how many base product units one purchased item
// contains.
type Specification struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:unique_specification"`
	Manufacturer  string    `gorm:"size:255;uniqueIndex:unique_specification"`
	CatalogNumber string    `gorm:"size:255;uniqueIndex:unique_specification"`
	Units         int       `gorm:"not null;default:1"`
	Product       *Product
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CatalogRepo interface {
	CreateProduct(ctx context.Context, p *Product) error
	FindProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	FindProductByName(ctx context.Context, name string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	// DeleteProduct removes the product together with its specifications
	// and stock rows. Transactions referencing it keep their history with
	// the product reference cleared.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateSpecification(ctx context.Context, s *Specification) error
	FindSpecification(ctx context.Context, id uuid.UUID) (*Specification, error)
	// ListSpecifications returns every specification with its product
	// preloaded, ordered by product name for display.
	ListSpecifications(ctx context.Context) ([]Specification, error)
}
