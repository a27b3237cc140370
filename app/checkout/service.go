package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sareeghar/storefront/app/cart"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/logger"
	"github.com/sareeghar/storefront/models"
	"github.com/sareeghar/storefront/pricing"
	"go.uber.org/zap"
)

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx models.CheckoutTx) error) error
}

type OrderInput struct {
	PaymentIntentID string
	ShippingAddress models.Address
	// BillingAddress defaults to ShippingAddress when nil.
	BillingAddress *models.Address
	Notes          *string
}

// Service turns a user's cart into an order.
type Service struct {
	store TxRunner
	now   func() time.Time
}

func NewService(store TxRunner) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateOrder reads the cart, prices it, writes the order with its items and
// empties the cart. All of it commits together or not at all.
func (s *Service) CreateOrder(ctx context.Context, userID string, in OrderInput) (*models.Order, error) {
	var order *models.Order
	err := s.store.InTx(ctx, func(tx models.CheckoutTx) error {
		items, err := tx.GetCartItems(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperrors.Validation("Cart is empty", nil)
		}

		order = s.buildOrder(userID, items, in)
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		return tx.ClearCart(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

func (s *Service) buildOrder(userID string, items []models.CartItem, in OrderInput) *models.Order {
	summary := pricing.Calculate(cart.Lines(items))

	shipping := in.ShippingAddress
	billing := shipping
	if in.BillingAddress != nil {
		billing = *in.BillingAddress
	}

	order := &models.Order{
		UserID:          userID,
		OrderNumber:     s.orderNumber(),
		Status:          models.OrderStatusConfirmed,
		Subtotal:        summary.Subtotal,
		Tax:             summary.Tax,
		Shipping:        summary.Shipping,
		Total:           summary.Total,
		ShippingAddress: &shipping,
		BillingAddress:  &billing,
		PaymentMethod:   "card",
		PaymentStatus:   models.PaymentStatusCompleted,
		Notes:           in.Notes,
	}
	if in.PaymentIntentID != "" {
		id := in.PaymentIntentID
		order.PaymentIntentID = &id
	}

	for _, item := range items {
		if item.Product == nil {
			continue
		}
		line := pricing.Line{UnitPrice: item.Product.Price, Quantity: item.Quantity}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     line.UnitPrice,
			Total:     line.Total(),
		})
	}
	return order
}

// orderNumber is ORD-<unix millis>-<6 hex chars>.
func (s *Service) orderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", s.now().UnixMilli(), uuid.NewString()[:6])
}
