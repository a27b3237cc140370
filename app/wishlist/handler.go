package wishlist

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sareeghar/storefront/app/request"
	"github.com/sareeghar/storefront/app/views"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
)

type WishlistProvider interface {
	GetWishlistItems(ctx context.Context, userID string) ([]models.WishlistItem, error)
	AddToWishlist(ctx context.Context, userID string, productID uuid.UUID) (*models.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, userID string, productID uuid.UUID) error
}

type ProductChecker interface {
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

type WishlistHandler struct {
	repo     WishlistProvider
	products ProductChecker
}

func NewWishlistHandler(r WishlistProvider, p ProductChecker) *WishlistHandler {
	return &WishlistHandler{repo: r, products: p}
}

func (h *WishlistHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.GetWishlistItems(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		apperrors.Write(w, r, err, "Failed to fetch wishlist")
		return
	}
	resp := make([]views.WishlistItem, len(items))
	for i, item := range items {
		resp[i] = views.NewWishlistItem(item)
	}
	apperrors.WriteJSON(w, http.StatusOK, resp)
}

type addRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

// HandleAdd returns the existing entry when the product is already listed.
func (h *WishlistHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var input addRequest
	if err := request.DecodeJSON(w, r, &input); err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	productID := uuid.MustParse(input.ProductID)

	active, err := h.products.IsActive(r.Context(), productID)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to add to wishlist")
		return
	}
	if !active {
		apperrors.Write(w, r, models.ErrProductNotFound, "")
		return
	}

	item, err := h.repo.AddToWishlist(r.Context(), middleware.UserID(r.Context()), productID)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to add to wishlist")
		return
	}
	apperrors.WriteJSON(w, http.StatusCreated, views.NewWishlistItem(*item))
}

func (h *WishlistHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	productID, err := request.PathUUID(r, "productId")
	if err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	if err := h.repo.RemoveFromWishlist(r.Context(), middleware.UserID(r.Context()), productID); err != nil {
		apperrors.Write(w, r, err, "Failed to remove wishlist item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
