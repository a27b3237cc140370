package cart

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sareeghar/storefront/app/request"
	"github.com/sareeghar/storefront/app/views"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
	"github.com/sareeghar/storefront/pricing"
)

type Response struct {
	Items   []views.CartItem `json:"items"`
	Summary views.Summary    `json:"summary"`
}

type CartProvider interface {
	GetCartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	AddToCart(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, userID string, productID uuid.UUID, quantity int) error
	RemoveFromCart(ctx context.Context, userID string, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID string) error
}

// ProductChecker reports whether a product can be put in a cart.
type ProductChecker interface {
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

type CartHandler struct {
	repo     CartProvider
	products ProductChecker
}

func NewCartHandler(r CartProvider, p ProductChecker) *CartHandler {
	return &CartHandler{repo: r, products: p}
}

// Lines prices cart items at their products' current prices. Items whose
// product was not loaded are skipped.
func Lines(items []models.CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lines = append(lines, pricing.Line{UnitPrice: item.Product.Price, Quantity: item.Quantity})
	}
	return lines
}

func (h *CartHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.GetCartItems(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		apperrors.Write(w, r, err, "Failed to fetch cart")
		return
	}

	resp := Response{
		Items:   make([]views.CartItem, len(items)),
		Summary: views.NewSummary(pricing.Calculate(Lines(items))),
	}
	for i, item := range items {
		resp.Items[i] = views.NewCartItem(item)
	}
	apperrors.WriteJSON(w, http.StatusOK, resp)
}

type addRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1"`
}

func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var input addRequest
	if err := request.DecodeJSON(w, r, &input); err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	productID := uuid.MustParse(input.ProductID)
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	active, err := h.products.IsActive(r.Context(), productID)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to add to cart")
		return
	}
	if !active {
		apperrors.Write(w, r, models.ErrProductNotFound, "")
		return
	}

	item, err := h.repo.AddToCart(r.Context(), middleware.UserID(r.Context()), productID, quantity)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to add to cart")
		return
	}
	apperrors.WriteJSON(w, http.StatusCreated, views.NewCartItem(*item))
}

type updateRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

func (h *CartHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	productID, err := request.PathUUID(r, "productId")
	if err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	var input updateRequest
	if err := request.DecodeJSON(w, r, &input); err != nil {
		apperrors.Write(w, r, err, "")
		return
	}

	if err := h.repo.UpdateCartItem(r.Context(), middleware.UserID(r.Context()), productID, input.Quantity); err != nil {
		apperrors.Write(w, r, err, "Failed to update cart item")
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, map[string]any{
		"productId": productID,
		"quantity":  input.Quantity,
	})
}

// HandleRemove is idempotent: removing a product not in the cart succeeds.
func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	productID, err := request.PathUUID(r, "productId")
	if err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	if err := h.repo.RemoveFromCart(r.Context(), middleware.UserID(r.Context()), productID); err != nil {
		apperrors.Write(w, r, err, "Failed to remove cart item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.ClearCart(r.Context(), middleware.UserID(r.Context())); err != nil {
		apperrors.Write(w, r, err, "Failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
