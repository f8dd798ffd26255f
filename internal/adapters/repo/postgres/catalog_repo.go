package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labsys/labstock/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.StockMinimum < 1 {
		p.StockMinimum = 1
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateName
		}
		return err
	}
	return nil
}

func (r *CatalogRepo) FindProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Preload("Specifications").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepo) FindProductByName(ctx context.Context, name string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var list []domain.Product
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteProduct removes the product and everything owned by it in one
// transaction. Transactions pointing at it are detached, not deleted.
func (r *CatalogRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.First(&domain.Product{}, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return res.Error
		}
		if err := tx.Model(&domain.Transaction{}).Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.StockProduct{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.Specification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, "id = ?", id).Error
	})
}

func (r *CatalogRepo) CreateSpecification(ctx context.Context, s *domain.Specification) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Units < 1 {
		s.Units = 1
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateSpecification
		}
		return err
	}
	return nil
}

func (r *CatalogRepo) FindSpecification(ctx context.Context, id uuid.UUID) (*domain.Specification, error) {
	var s domain.Specification
	if err := r.db.WithContext(ctx).Preload("Product").First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepo) ListSpecifications(ctx context.Context) ([]domain.Specification, error) {
	var list []domain.Specification
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = specifications.product_id").
		Order("products.name asc").
		Preload("Product").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
