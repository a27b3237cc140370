package models

import (
	"context"

	"gorm.io/gorm"
)

// CheckoutTx is the set of operations order materialization performs inside
// one transaction.
type CheckoutTx interface {
	GetCartItems(ctx context.Context, userID string) ([]CartItem, error)
	CreateOrder(ctx context.Context, order *Order) error
	ClearCart(ctx context.Context, userID string) error
}

// CheckoutStore runs checkout work as a unit: either every statement commits
// or none does.
type CheckoutStore struct {
	db *gorm.DB
}

func NewCheckoutStore(db *gorm.DB) *CheckoutStore {
	return &CheckoutStore{db: db}
}

type checkoutTx struct {
	*CartRepository
	*OrdersRepository
}

func (s *CheckoutStore) InTx(ctx context.Context, fn func(tx CheckoutTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(checkoutTx{
			CartRepository:   NewCartRepository(tx),
			OrdersRepository: NewOrdersRepository(tx),
		})
	})
}
