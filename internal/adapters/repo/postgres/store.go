package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/labsys/labstock/internal/domain"
)

// Store hands out repositories bound to one *gorm.DB. Atomic rebinds them to
// a transaction so a whole workflow commits or rolls back as a unit.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Catalog() domain.CatalogRepo          { return NewCatalogRepo(s.db) }
func (s *Store) Ledger() domain.LedgerRepo            { return NewLedgerRepo(s.db) }
func (s *Store) Orders() domain.OrderRepo             { return NewOrderRepo(s.db) }
func (s *Store) Transactions() domain.TransactionRepo { return NewTransactionRepo(s.db) }

func (s *Store) Atomic(ctx context.Context, fn func(tx domain.RepoSet) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
