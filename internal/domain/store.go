package domain

import "context"

// RepoSet groups the repositories that take part in the ledger workflows.
type RepoSet interface {
	Catalog() CatalogRepo
	Ledger() LedgerRepo
	Orders() OrderRepo
	Transactions() TransactionRepo
}

// Store is the persistence boundary handed to the workflows. Atomic runs fn
// inside a single database transaction: repositories obtained from the
// passed RepoSet see uncommitted state and everything rolls back together
// when fn returns an error. Partial application is never observable outside
// the transaction.
type Store interface {
	RepoSet
	Atomic(ctx context.Context, fn func(tx RepoSet) error) error
}

// LowStockNotifier is told, fire and forget, when a product's total drops
// below its configured minimum. Delivery is best effort and never blocks or
// fails a workflow.
type LowStockNotifier interface {
	NotifyLowStock(product Product, remaining int)
}
