// Package app wires the HTTP handlers onto a ServeMux.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/sareeghar/storefront/app/cart"
	"github.com/sareeghar/storefront/app/catalog"
	"github.com/sareeghar/storefront/app/categories"
	"github.com/sareeghar/storefront/app/checkout"
	"github.com/sareeghar/storefront/app/orders"
	"github.com/sareeghar/storefront/app/users"
	"github.com/sareeghar/storefront/app/wishlist"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/middleware"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Catalog    *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	Cart       *cart.CartHandler
	Wishlist   *wishlist.WishlistHandler
	Checkout   *checkout.CheckoutHandler
	Orders     *orders.OrderHandler
	Users      *users.UserHandler
}

// NewRouter registers every route. Handlers in the user group require a
// valid bearer token.
func NewRouter(h Handlers, jwtSecret []byte, db Pinger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.Authenticate(jwtSecret)
	user := func(f http.HandlerFunc) http.Handler { return auth(f) }

	mux.HandleFunc("GET /api/categories", h.Categories.HandleGetAll)
	mux.HandleFunc("GET /api/categories/{slug}", h.Categories.HandleGetBySlug)

	mux.HandleFunc("GET /api/products", h.Catalog.HandleGet)
	mux.HandleFunc("GET /api/products/featured", h.Catalog.HandleGetFeatured)
	mux.HandleFunc("GET /api/products/new", h.Catalog.HandleGetNew)
	mux.HandleFunc("GET /api/products/sale", h.Catalog.HandleGetSale)
	mux.HandleFunc("GET /api/products/{slug}", h.Catalog.HandleGetProduct)
	mux.HandleFunc("GET /api/products/{id}/reviews", h.Catalog.HandleGetReviews)
	mux.Handle("POST /api/products/{id}/reviews", user(h.Catalog.HandleCreateReview))

	mux.Handle("GET /api/cart", user(h.Cart.HandleGet))
	mux.Handle("POST /api/cart", user(h.Cart.HandleAdd))
	mux.Handle("DELETE /api/cart", user(h.Cart.HandleClear))
	mux.Handle("PUT /api/cart/{productId}", user(h.Cart.HandleUpdate))
	mux.Handle("DELETE /api/cart/{productId}", user(h.Cart.HandleRemove))

	mux.Handle("GET /api/wishlist", user(h.Wishlist.HandleGet))
	mux.Handle("POST /api/wishlist", user(h.Wishlist.HandleAdd))
	mux.Handle("DELETE /api/wishlist/{productId}", user(h.Wishlist.HandleRemove))

	mux.HandleFunc("POST /api/checkout/quote", h.Checkout.HandleQuote)
	mux.Handle("POST /api/checkout/create-payment-intent", user(h.Checkout.HandleCreatePaymentIntent))
	mux.Handle("POST /api/checkout/create-order", user(h.Checkout.HandleCreateOrder))

	mux.Handle("GET /api/orders", user(h.Orders.HandleList))
	mux.Handle("GET /api/orders/{id}", user(h.Orders.HandleGet))
	mux.Handle("POST /api/orders/{id}/cancel", user(h.Orders.HandleCancel))

	mux.Handle("GET /api/auth/user", user(h.Users.HandleGetCurrent))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			apperrors.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		apperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
