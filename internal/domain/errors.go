package domain

import "errors"

// Sentinel errors of the domain. Adapters map storage-level failures
// (gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey) onto these at the repo
// boundary; callers branch with errors.Is.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateName          = errors.New("a product with that name already exists")
	ErrDuplicateSpecification = errors.New("that specification already exists for the product")
	ErrInvalidAmount          = errors.New("amount must be a positive number")
	ErrInsufficientStock      = errors.New("not enough stock for the requested amount")
	ErrEmptyCart              = errors.New("the cart is empty")
)
