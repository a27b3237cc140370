package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Repos ---

// MockCartRepo keeps rows keyed by user and product, like the unique index.
type MockCartRepo struct {
	Products map[uuid.UUID]*models.Product
	Rows     map[string]map[uuid.UUID]*models.CartItem
	Err      error

	lastUserID string
}

func newMockCartRepo(products ...models.Product) *MockCartRepo {
	m := &MockCartRepo{
		Products: map[uuid.UUID]*models.Product{},
		Rows:     map[string]map[uuid.UUID]*models.CartItem{},
	}
	for i := range products {
		m.Products[products[i].ID] = &products[i]
	}
	return m
}

func (m *MockCartRepo) GetCartItems(_ context.Context, userID string) ([]models.CartItem, error) {
	m.lastUserID = userID
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.CartItem
	for _, row := range m.Rows[userID] {
		item := *row
		item.Product = m.Products[item.ProductID]
		out = append(out, item)
	}
	return out, nil
}

func (m *MockCartRepo) AddToCart(_ context.Context, userID string, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	m.lastUserID = userID
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Rows[userID] == nil {
		m.Rows[userID] = map[uuid.UUID]*models.CartItem{}
	}
	row, ok := m.Rows[userID][productID]
	if !ok {
		row = &models.CartItem{ID: uuid.New(), UserID: userID, ProductID: productID}
		m.Rows[userID][productID] = row
	}
	row.Quantity += quantity
	item := *row
	return &item, nil
}

func (m *MockCartRepo) UpdateCartItem(_ context.Context, userID string, productID uuid.UUID, quantity int) error {
	m.lastUserID = userID
	if m.Err != nil {
		return m.Err
	}
	row, ok := m.Rows[userID][productID]
	if !ok {
		return models.ErrCartItemNotFound
	}
	row.Quantity = quantity
	return nil
}

func (m *MockCartRepo) RemoveFromCart(_ context.Context, userID string, productID uuid.UUID) error {
	m.lastUserID = userID
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows[userID], productID)
	return nil
}

func (m *MockCartRepo) ClearCart(_ context.Context, userID string) error {
	m.lastUserID = userID
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, userID)
	return nil
}

func (m *MockCartRepo) IsActive(_ context.Context, id uuid.UUID) (bool, error) {
	p, ok := m.Products[id]
	return ok && p.IsActive, nil
}

// --- Helpers ---

func newProduct(price string, active bool) models.Product {
	return models.Product{ID: uuid.New(), Name: "Saree", Slug: uuid.NewString(), Price: decimal.RequireFromString(price), IsActive: active}
}

func withUser(r *http.Request, userID string) *http.Request {
	claims := &middleware.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

func serve(h http.HandlerFunc, method, url, body string, pathValues ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	rec := httptest.NewRecorder()
	h(rec, withUser(req, "user-1"))
	return rec
}

// --- Tests ---

func TestHandleAdd(t *testing.T) {
	active := newProduct("1000", true)
	retired := newProduct("500", false)

	testCases := []struct {
		name               string
		payload            string
		expectedStatusCode int
		expectedQuantity   int
	}{
		{name: "Default quantity", payload: `{"productId":"` + active.ID.String() + `"}`, expectedStatusCode: http.StatusCreated, expectedQuantity: 1},
		{name: "Explicit quantity", payload: `{"productId":"` + active.ID.String() + `","quantity":3}`, expectedStatusCode: http.StatusCreated, expectedQuantity: 3},
		{name: "Zero quantity", payload: `{"productId":"` + active.ID.String() + `","quantity":0}`, expectedStatusCode: http.StatusBadRequest},
		{name: "Malformed product id", payload: `{"productId":"abc"}`, expectedStatusCode: http.StatusBadRequest},
		{name: "Inactive product", payload: `{"productId":"` + retired.ID.String() + `"}`, expectedStatusCode: http.StatusNotFound},
		{name: "Unknown product", payload: `{"productId":"` + uuid.NewString() + `"}`, expectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := newMockCartRepo(active, retired)
			handler := NewCartHandler(repo, repo)

			// Act
			rec := serve(handler.HandleAdd, "POST", "/api/cart", tc.payload)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedStatusCode == http.StatusCreated {
				var resp map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, float64(tc.expectedQuantity), resp["quantity"])
				assert.Equal(t, "user-1", repo.lastUserID)
			} else {
				assert.Empty(t, repo.Rows["user-1"])
			}
		})
	}
}

func TestAddTwiceIncrements(t *testing.T) {
	p := newProduct("1000", true)
	repo := newMockCartRepo(p)
	handler := NewCartHandler(repo, repo)
	body := `{"productId":"` + p.ID.String() + `","quantity":2}`

	serve(handler.HandleAdd, "POST", "/api/cart", body)
	rec := serve(handler.HandleAdd, "POST", "/api/cart", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.Rows["user-1"], 1)
	assert.Equal(t, 4, repo.Rows["user-1"][p.ID].Quantity)
}

func TestHandleGet(t *testing.T) {
	p := newProduct("1000", true)
	repo := newMockCartRepo(p)
	handler := NewCartHandler(repo, repo)
	serve(handler.HandleAdd, "POST", "/api/cart", `{"productId":"`+p.ID.String()+`","quantity":2}`)

	rec := serve(handler.HandleGet, "GET", "/api/cart", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2000.00", resp.Items[0].LineTotal)
	assert.Equal(t, "2000.00", resp.Summary.Subtotal)
	assert.Equal(t, "99.00", resp.Summary.Shipping)
	assert.Equal(t, "360.00", resp.Summary.Tax)
	assert.Equal(t, "2459.00", resp.Summary.Total)
	assert.Equal(t, 2, resp.Summary.ItemCount)
}

func TestHandleGetEmptyCart(t *testing.T) {
	repo := newMockCartRepo()
	handler := NewCartHandler(repo, repo)

	rec := serve(handler.HandleGet, "GET", "/api/cart", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, "0.00", resp.Summary.Subtotal)
}

func TestHandleUpdate(t *testing.T) {
	p := newProduct("1000", true)

	testCases := []struct {
		name               string
		productID          string
		payload            string
		expectedStatusCode int
	}{
		{name: "Success", productID: p.ID.String(), payload: `{"quantity":5}`, expectedStatusCode: http.StatusOK},
		{name: "Quantity below one", productID: p.ID.String(), payload: `{"quantity":0}`, expectedStatusCode: http.StatusBadRequest},
		{name: "Not in cart", productID: uuid.NewString(), payload: `{"quantity":2}`, expectedStatusCode: http.StatusNotFound},
		{name: "Malformed id", productID: "abc", payload: `{"quantity":2}`, expectedStatusCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := newMockCartRepo(p)
			handler := NewCartHandler(repo, repo)
			serve(handler.HandleAdd, "POST", "/api/cart", `{"productId":"`+p.ID.String()+`"}`)

			// Act
			rec := serve(handler.HandleUpdate, "PUT", "/api/cart/"+tc.productID, tc.payload, "productId", tc.productID)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedStatusCode == http.StatusOK {
				assert.Equal(t, 5, repo.Rows["user-1"][p.ID].Quantity)
			}
		})
	}
}

func TestHandleRemoveIsIdempotent(t *testing.T) {
	p := newProduct("1000", true)
	repo := newMockCartRepo(p)
	handler := NewCartHandler(repo, repo)
	serve(handler.HandleAdd, "POST", "/api/cart", `{"productId":"`+p.ID.String()+`"}`)

	first := serve(handler.HandleRemove, "DELETE", "/api/cart/"+p.ID.String(), "", "productId", p.ID.String())
	second := serve(handler.HandleRemove, "DELETE", "/api/cart/"+p.ID.String(), "", "productId", p.ID.String())

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusNoContent, second.Code)
	assert.Empty(t, repo.Rows["user-1"])
}

func TestHandleClear(t *testing.T) {
	repo := newMockCartRepo()
	handler := NewCartHandler(repo, repo)

	assert.Equal(t, http.StatusNoContent, serve(handler.HandleClear, "DELETE", "/api/cart", "").Code)

	repo.Err = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, serve(handler.HandleClear, "DELETE", "/api/cart", "").Code)
}
