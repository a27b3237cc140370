package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) GetWishlistItems(ctx context.Context, userID string) ([]WishlistItem, error) {
	var items []WishlistItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Preload("Product.Images", orderedImages).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("get wishlist items: %w", err)
	}
	return items, nil
}

// AddToWishlist is idempotent: adding a product twice returns the existing row.
func (r *WishlistRepository) AddToWishlist(ctx context.Context, userID string, productID uuid.UUID) (*WishlistItem, error) {
	item := WishlistItem{UserID: userID, ProductID: productID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Omit("Product").
		Create(&item).Error; err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}

	var stored WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&stored).Error; err != nil {
		return nil, fmt.Errorf("load wishlist item: %w", err)
	}
	return &stored, nil
}

func (r *WishlistRepository) RemoveFromWishlist(ctx context.Context, userID string, productID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&WishlistItem{}).Error; err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}
