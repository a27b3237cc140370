package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sareeghar/storefront/app/views"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Review Repo ---

type MockReviewRepo struct {
	Reviews   []models.Review
	Err       error
	Verified  bool
	LastSaved *models.Review
}

func (m *MockReviewRepo) GetProductReviews(_ context.Context, productID uuid.UUID) ([]models.Review, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Review
	for _, r := range m.Reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockReviewRepo) CreateReview(_ context.Context, review *models.Review) error {
	m.LastSaved = review
	if m.Err != nil {
		return m.Err
	}
	review.ID = uuid.New()
	review.IsVerifiedPurchase = m.Verified
	review.CreatedAt = time.Now()
	return nil
}

func withUser(r *http.Request, userID string) *http.Request {
	claims := &middleware.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

// --- Tests ---

func TestHandleGetProduct(t *testing.T) {
	withReviews := newTestProduct("kanjivaram-maroon", "8999", func(p *models.Product) {
		p.Reviews = []models.Review{
			{ID: uuid.New(), Rating: 5, UserID: "u1"},
			{ID: uuid.New(), Rating: 4, UserID: "u2"},
		}
		p.Images = []models.ProductImage{{ImageURL: "/img/maroon.jpg", IsPrimary: true}}
	})
	allMockProducts := []models.Product{
		withReviews,
		newTestProduct("hidden", "999", inactive),
	}

	testCases := []struct {
		name               string
		slug               string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name: "Success with reviews and images",
			slug: "kanjivaram-maroon",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp views.ProductDetail
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "kanjivaram-maroon", resp.Slug)
				assert.Equal(t, "8999.00", resp.Price)
				assert.Equal(t, "silk", resp.Category.Slug)
				assert.Len(t, resp.Reviews, 2)
				assert.Equal(t, "/img/maroon.jpg", *resp.PrimaryImage)
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, "kanjivaram-maroon", repo.lastCalledSlug)
			},
		},
		{
			name: "Lookup by id",
			slug: withReviews.ID.String(),
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp views.ProductDetail
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "kanjivaram-maroon", resp.Slug)
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, withReviews.ID, repo.lastCalledID)
				assert.Empty(t, repo.lastCalledSlug)
			},
		},
		{
			name: "Unknown id is not found",
			slug: "8f14e45f-ceea-467a-9af0-2c3b1d5e6f70",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name: "Inactive product is not found",
			slug: "hidden",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Product not found", errResp["error"])
			},
		},
		{
			name: "Repository internal error",
			slug: "kanjivaram-maroon",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{Err: errors.New("db connection lost")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Failed to retrieve product", errResp["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCatalogHandler(mockRepo, &MockReviewRepo{})
			req := httptest.NewRequest("GET", "/api/products/"+tc.slug, nil)
			req.SetPathValue("slug", tc.slug)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetProduct(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleGetReviews(t *testing.T) {
	product := newTestProduct("banarasi-red", "4599")
	reviewRepo := &MockReviewRepo{Reviews: []models.Review{
		{ID: uuid.New(), ProductID: product.ID, Rating: 5},
		{ID: uuid.New(), ProductID: uuid.New(), Rating: 1},
	}}
	handler := NewCatalogHandler(&MockProductRepo{}, reviewRepo)

	req := httptest.NewRequest("GET", "/api/products/"+product.ID.String()+"/reviews", nil)
	req.SetPathValue("id", product.ID.String())
	rec := httptest.NewRecorder()
	handler.HandleGetReviews(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []views.Review
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, 5, resp[0].Rating)

	bad := httptest.NewRequest("GET", "/api/products/x/reviews", nil)
	bad.SetPathValue("id", "x")
	badRec := httptest.NewRecorder()
	handler.HandleGetReviews(badRec, bad)
	assert.Equal(t, http.StatusBadRequest, badRec.Code)
}

func TestHandleCreateReview(t *testing.T) {
	active := newTestProduct("banarasi-red", "4599")
	retired := newTestProduct("retired", "999", inactive)

	testCases := []struct {
		name               string
		productID          string
		payload            string
		reviewRepo         *MockReviewRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockReviewRepo)
	}{
		{
			name:               "Success",
			productID:          active.ID.String(),
			payload:            `{"rating":4,"title":"Lovely drape","comment":"Colour as pictured"}`,
			reviewRepo:         &MockReviewRepo{Verified: true},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockReviewRepo) {
				var resp views.Review
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, 4, resp.Rating)
				assert.True(t, resp.IsVerifiedPurchase)
				assert.Equal(t, "user-7", repo.LastSaved.UserID)
				assert.Equal(t, active.ID, repo.LastSaved.ProductID)
				assert.Equal(t, "Lovely drape", *repo.LastSaved.Title)
			},
		},
		{
			name:               "Rating out of range",
			productID:          active.ID.String(),
			payload:            `{"rating":6}`,
			reviewRepo:         &MockReviewRepo{},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockReviewRepo) {
				assert.Nil(t, repo.LastSaved)
			},
		},
		{
			name:               "Title too long",
			productID:          active.ID.String(),
			payload:            `{"rating":3,"title":"` + strings.Repeat("a", 256) + `"}`,
			reviewRepo:         &MockReviewRepo{},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Inactive product",
			productID:          retired.ID.String(),
			payload:            `{"rating":5}`,
			reviewRepo:         &MockReviewRepo{},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockReviewRepo) {
				assert.Nil(t, repo.LastSaved)
			},
		},
		{
			name:               "Repository error",
			productID:          active.ID.String(),
			payload:            `{"rating":5}`,
			reviewRepo:         &MockReviewRepo{Err: errors.New("tx aborted")},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			handler := NewCatalogHandler(&MockProductRepo{SourceProducts: []models.Product{active, retired}}, tc.reviewRepo)
			req := httptest.NewRequest("POST", "/api/products/"+tc.productID+"/reviews", strings.NewReader(tc.payload))
			req.SetPathValue("id", tc.productID)
			req = withUser(req, "user-7")
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreateReview(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec, tc.reviewRepo)
			}
		})
	}
}

// --- Cache ---

type memoryCache struct {
	data    map[string][]byte
	failGet bool
}

func (c *memoryCache) Get(_ context.Context, name string, dst any) (bool, error) {
	if c.failGet {
		return false, errors.New("redis down")
	}
	raw, ok := c.data[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(_ context.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[name] = raw
	return nil
}

func TestCachedProducts(t *testing.T) {
	repo := &MockProductRepo{SourceProducts: []models.Product{
		newTestProduct("banarasi-red", "4599", featured),
	}}
	cache := &memoryCache{data: map[string][]byte{}}
	cached := NewCachedProducts(repo, cache)
	ctx := context.Background()

	first, err := cached.GetFeaturedProducts(ctx, 8)
	require.NoError(t, err)
	second, err := cached.GetFeaturedProducts(ctx, 8)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.curatedCalls, "Second call should be served from cache")
	assert.Contains(t, cache.data, "products:featured:8")
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Slug, second[0].Slug)
	assert.True(t, first[0].Price.Equal(second[0].Price))

	cache.failGet = true
	_, err = cached.GetFeaturedProducts(ctx, 8)
	assert.NoError(t, err, "Cache failures fall back to the repository")
	assert.Equal(t, 2, repo.curatedCalls)

	_, _, err = cached.GetFilteredProducts(ctx, models.ProductFilters{})
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.filteredCalls, "Listing is not cached")
}
