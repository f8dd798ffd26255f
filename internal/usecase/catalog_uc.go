package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/labsys/labstock/internal/domain"
)

type CatalogUC struct {
	Store domain.Store
}

// CreateProduct registers a new reagent in the catalog. The name must be
// unique; the minimum defaults to one unit.
func (uc *CatalogUC) CreateProduct(ctx context.Context, name string, stockMinimum int) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("product name is required")
	}
	if _, err := uc.Store.Catalog().FindProductByName(ctx, name); err == nil {
		return nil, domain.ErrDuplicateName
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	p := &domain.Product{ID: uuid.New(), Name: name, StockMinimum: stockMinimum}
	if err := uc.Store.Catalog().CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddSpecification attaches a purchasable variant to a product.
func (uc *CatalogUC) AddSpecification(ctx context.Context, productID uuid.UUID, manufacturer, catalogNumber string, units int) (*domain.Specification, error) {
	if units < 1 {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := uc.Store.Catalog().FindProduct(ctx, productID); err != nil {
		return nil, err
	}
	s := &domain.Specification{
		ID:            uuid.New(),
		ProductID:     productID,
		Manufacturer:  strings.TrimSpace(manufacturer),
		CatalogNumber: strings.TrimSpace(catalogNumber),
		Units:         units,
	}
	if err := uc.Store.Catalog().CreateSpecification(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *CatalogUC) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return uc.Store.Catalog().ListProducts(ctx)
}

func (uc *CatalogUC) ListSpecifications(ctx context.Context) ([]domain.Specification, error) {
	return uc.Store.Catalog().ListSpecifications(ctx)
}

// ProductDetail returns the product with its specifications sorted by unit
// count, the way the ordering screen lists them.
func (uc *CatalogUC) ProductDetail(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	p, err := uc.Store.Catalog().FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	sort.Slice(p.Specifications, func(i, j int) bool {
		return p.Specifications[i].Units < p.Specifications[j].Units
	})
	return p, nil
}

func (uc *CatalogUC) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return uc.Store.Catalog().DeleteProduct(ctx, productID)
}
