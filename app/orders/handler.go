package orders

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sareeghar/storefront/app/request"
	"github.com/sareeghar/storefront/app/views"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/logger"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
	"go.uber.org/zap"
)

type OrderProvider interface {
	GetUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrderByID(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, userID string, orderID uuid.UUID, next models.OrderStatus) (*models.Order, error)
}

type OrderHandler struct {
	repo OrderProvider
}

func NewOrderHandler(r OrderProvider) *OrderHandler {
	return &OrderHandler{repo: r}
}

func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.GetUserOrders(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		apperrors.Write(w, r, err, "Failed to fetch orders")
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, views.NewOrders(orders))
}

// HandleGet answers 404 for orders that belong to someone else.
func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orderID, err := request.PathUUID(r, "id")
	if err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	order, err := h.repo.GetOrderByID(r.Context(), middleware.UserID(r.Context()), orderID)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to fetch order")
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, views.NewOrder(*order))
}

func (h *OrderHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := request.PathUUID(r, "id")
	if err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	order, err := h.repo.UpdateOrderStatus(r.Context(), middleware.UserID(r.Context()), orderID, models.OrderStatusCancelled)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to cancel order")
		return
	}
	logger.Info(r.Context(), "order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_status", order.PaymentStatus),
	)
	apperrors.WriteJSON(w, http.StatusOK, views.NewOrder(*order))
}
