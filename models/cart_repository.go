package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetCartItems returns the user's cart, most recently added first, with each
// product hydrated at its current catalog state.
func (r *CartRepository) GetCartItems(ctx context.Context, userID string) ([]CartItem, error) {
	var items []CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Preload("Product.Images", orderedImages).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	return items, nil
}

// AddToCart inserts the line or, when the user already has the product in the
// cart, increments its quantity in the same statement.
func (r *CartRepository) AddToCart(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*CartItem, error) {
	item := CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}, clause.Returning{}).
		Omit("Product").
		Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return &item, nil
}

// UpdateCartItem sets the quantity of an existing line.
func (r *CartRepository) UpdateCartItem(ctx context.Context, userID string, productID uuid.UUID, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// RemoveFromCart deletes one line. Removing a missing line is not an error.
func (r *CartRepository) RemoveFromCart(ctx context.Context, userID string, productID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (r *CartRepository) ClearCart(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
