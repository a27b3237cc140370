package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

func withOrderItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC").Order("id ASC")
	}).Preload("Items.Product")
}

// GetUserOrders returns the user's orders newest first, each with its items
// and their products.
func (r *OrdersRepository) GetUserOrders(ctx context.Context, userID string) ([]Order, error) {
	var orders []Order
	if err := r.db.WithContext(ctx).
		Scopes(withOrderItems).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("get user orders: %w", err)
	}
	return orders, nil
}

// GetOrderByID loads one order owned by userID.
func (r *OrdersRepository) GetOrderByID(ctx context.Context, userID string, orderID uuid.UUID) (*Order, error) {
	var order Order
	if err := r.db.WithContext(ctx).
		Scopes(withOrderItems).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts the order row and then its items. Associations are
// never upserted from here.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *Order) error {
	items := order.Items
	order.Items = nil
	defer func() { order.Items = items }()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("insert order: %w", translateError(err))
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error; err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// UpdateOrderStatus moves an order owned by userID to next, enforcing the
// status machine, and returns the updated order with its items.
func (r *OrdersRepository) UpdateOrderStatus(ctx context.Context, userID string, orderID uuid.UUID, next OrderStatus) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, next)
		}
		paymentStatus := order.PaymentStatus
		if next == OrderStatusCancelled && paymentStatus == PaymentStatusCompleted {
			paymentStatus = PaymentStatusRefunded
		}
		return tx.Model(&order).Updates(map[string]any{
			"status":         next,
			"payment_status": paymentStatus,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrderByID(ctx, userID, orderID)
}
