package checkout

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sareeghar/storefront/app/cart"
	"github.com/sareeghar/storefront/app/request"
	"github.com/sareeghar/storefront/app/views"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
	"github.com/sareeghar/storefront/payment"
	"github.com/sareeghar/storefront/pricing"
)

type CartReader interface {
	GetCartItems(ctx context.Context, userID string) ([]models.CartItem, error)
}

type ProductLookup interface {
	GetActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, userID string, in OrderInput) (*models.Order, error)
}

type CheckoutHandler struct {
	orders   OrderCreator
	carts    CartReader
	products ProductLookup
	gateway  payment.Gateway
	currency string
}

func NewCheckoutHandler(orders OrderCreator, carts CartReader, products ProductLookup,
	gateway payment.Gateway, currency string) *CheckoutHandler {
	return &CheckoutHandler{
		orders:   orders,
		carts:    carts,
		products: products,
		gateway:  gateway,
		currency: payment.NormalizeCurrency(currency),
	}
}

type addressInput struct {
	FullName   string `json:"fullName" validate:"required,max=255"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
	Email      string `json:"email" validate:"omitempty,email"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2" validate:"omitempty,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

func (a addressInput) model() models.Address {
	return models.Address{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Email:      a.Email,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type createOrderRequest struct {
	PaymentIntentID string        `json:"paymentIntentId" validate:"omitempty,max=255"`
	ShippingAddress *addressInput `json:"shippingAddress" validate:"required"`
	BillingAddress  *addressInput `json:"billingAddress"`
	Notes           *string       `json:"notes" validate:"omitempty,max=1000"`
}

func (h *CheckoutHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var input createOrderRequest
	if err := request.DecodeJSON(w, r, &input); err != nil {
		apperrors.Write(w, r, err, "")
		return
	}

	in := OrderInput{
		PaymentIntentID: input.PaymentIntentID,
		ShippingAddress: input.ShippingAddress.model(),
		Notes:           input.Notes,
	}
	if input.BillingAddress != nil {
		billing := input.BillingAddress.model()
		in.BillingAddress = &billing
	}

	order, err := h.orders.CreateOrder(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to create order")
		return
	}
	apperrors.WriteJSON(w, http.StatusCreated, views.NewOrder(*order))
}

type paymentIntentRequest struct {
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`
}

type PaymentIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

// HandleCreatePaymentIntent authorizes the cart total. The amount is always
// computed here from the stored cart.
func (h *CheckoutHandler) HandleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var input paymentIntentRequest
	if err := request.DecodeOptionalJSON(w, r, &input); err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	currency := h.currency
	if input.Currency != "" {
		currency = payment.NormalizeCurrency(input.Currency)
	}

	items, err := h.carts.GetCartItems(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		apperrors.Write(w, r, err, "Failed to create payment intent")
		return
	}
	if len(items) == 0 {
		apperrors.Write(w, r, apperrors.Validation("Cart is empty", nil), "")
		return
	}

	summary := pricing.Calculate(cart.Lines(items))
	res, err := h.gateway.Authorize(r.Context(), summary.Total, currency)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to create payment intent")
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, PaymentIntentResponse{
		PaymentIntentID: res.ID,
		ClientSecret:    res.ClientSecret,
		Amount:          views.Money(res.Amount),
		Currency:        res.Currency,
		Status:          res.Status,
	})
}

type quoteItem struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"min=1,max=100"`
}

type quoteRequest struct {
	Items []quoteItem `json:"items" validate:"required,min=1,max=100,dive"`
}

// HandleQuote prices an anonymous basket at live prices.
func (h *CheckoutHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var input quoteRequest
	if err := request.DecodeJSON(w, r, &input); err != nil {
		apperrors.Write(w, r, err, "")
		return
	}

	quantities := make(map[uuid.UUID]int, len(input.Items))
	var ids []uuid.UUID
	for _, item := range input.Items {
		id := uuid.MustParse(item.ProductID)
		if _, seen := quantities[id]; !seen {
			ids = append(ids, id)
		}
		quantities[id] += item.Quantity
	}

	products, err := h.products.GetActiveByIDs(r.Context(), ids)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to price items")
		return
	}

	lines := make([]pricing.Line, 0, len(ids))
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			apperrors.Write(w, r, models.ErrProductNotFound, "")
			return
		}
		lines = append(lines, pricing.Line{UnitPrice: p.Price, Quantity: quantities[id]})
	}
	apperrors.WriteJSON(w, http.StatusOK, views.NewSummary(pricing.Calculate(lines)))
}
