package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewsRepository struct {
	db *gorm.DB
}

func NewReviewsRepository(db *gorm.DB) *ReviewsRepository {
	return &ReviewsRepository{db: db}
}

func (r *ReviewsRepository) GetProductReviews(ctx context.Context, productID uuid.UUID) ([]Review, error) {
	var reviews []Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview stores the review and refreshes the product's rating and
// review count in one transaction. The review is marked as a verified
// purchase when the author has ordered the product.
func (r *ReviewsRepository) CreateReview(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var purchased int64
		if err := tx.Model(&OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.user_id = ? AND order_items.product_id = ?", review.UserID, review.ProductID).
			Count(&purchased).Error; err != nil {
			return fmt.Errorf("check purchase: %w", err)
		}
		review.IsVerifiedPurchase = purchased > 0

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("insert review: %w", translateError(err))
		}

		if err := tx.Model(&Product{}).
			Where("id = ?", review.ProductID).
			Updates(map[string]any{
				"rating":       gorm.Expr("(SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0) FROM reviews WHERE product_id = ?)", review.ProductID),
				"review_count": gorm.Expr("(SELECT COUNT(*) FROM reviews WHERE product_id = ?)", review.ProductID),
			}).Error; err != nil {
			return fmt.Errorf("refresh product rating: %w", err)
		}
		return nil
	})
}
