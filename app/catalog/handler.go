package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sareeghar/storefront/app/request"
	"github.com/sareeghar/storefront/app/views"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
	"github.com/shopspring/decimal"
)

type Response struct {
	Total    int64           `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
	Products []views.Product `json:"products"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, filters models.ProductFilters) ([]models.Product, int64, error)
	GetFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetNewProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetSaleProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

type ReviewProvider interface {
	GetProductReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
}

type CatalogHandler struct {
	repo    ProductProvider
	reviews ReviewProvider
}

func NewCatalogHandler(r ProductProvider, reviews ReviewProvider) *CatalogHandler {
	return &CatalogHandler{
		repo:    r,
		reviews: reviews,
	}
}

// HandleGet lists active products matching the query string filters.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		apperrors.Write(w, r, err, "")
		return
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), filters)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to fetch products")
		return
	}

	limit, offset := filters.Page()
	apperrors.WriteJSON(w, http.StatusOK, Response{
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		Products: views.NewProducts(res),
	})
}

func (h *CatalogHandler) HandleGetFeatured(w http.ResponseWriter, r *http.Request) {
	h.handleCurated(w, r, h.repo.GetFeaturedProducts, "Failed to fetch featured products")
}

func (h *CatalogHandler) HandleGetNew(w http.ResponseWriter, r *http.Request) {
	h.handleCurated(w, r, h.repo.GetNewProducts, "Failed to fetch new products")
}

func (h *CatalogHandler) HandleGetSale(w http.ResponseWriter, r *http.Request) {
	h.handleCurated(w, r, h.repo.GetSaleProducts, "Failed to fetch sale products")
}

func (h *CatalogHandler) handleCurated(w http.ResponseWriter, r *http.Request,
	fetch func(context.Context, int) ([]models.Product, error), failure string) {
	limit := models.DefaultCuratedLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		l, err := strconv.Atoi(s)
		if err != nil {
			apperrors.Write(w, r, apperrors.Validation("Invalid query parameters",
				map[string]string{"limit": "must be an integer"}), "")
			return
		}
		limit = clampLimit(l)
	}

	res, err := fetch(r.Context(), limit)
	if err != nil {
		apperrors.Write(w, r, err, failure)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, views.NewProducts(res))
}

// HandleGetProduct resolves the path segment as a product id when it parses
// as a UUID and as a slug otherwise.
func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("slug")

	var product *models.Product
	var err error
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		product, err = h.repo.GetByID(r.Context(), id)
	} else {
		product, err = h.repo.GetBySlug(r.Context(), key)
	}
	if err != nil {
		apperrors.Write(w, r, err, "Failed to retrieve product")
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, views.NewProductDetail(*product))
}

func (h *CatalogHandler) HandleGetReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := request.PathUUID(r, "id")
	if err != nil {
		apperrors.Write(w, r, err, "")
		return
	}

	reviews, err := h.reviews.GetProductReviews(r.Context(), productID)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to fetch reviews")
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, views.NewReviews(reviews))
}

type createReviewRequest struct {
	Rating  int     `json:"rating" validate:"min=1,max=5"`
	Title   *string `json:"title" validate:"omitempty,max=255"`
	Comment *string `json:"comment" validate:"omitempty,max=5000"`
}

func (h *CatalogHandler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	productID, err := request.PathUUID(r, "id")
	if err != nil {
		apperrors.Write(w, r, err, "")
		return
	}
	var input createReviewRequest
	if err := request.DecodeJSON(w, r, &input); err != nil {
		apperrors.Write(w, r, err, "")
		return
	}

	active, err := h.repo.IsActive(r.Context(), productID)
	if err != nil {
		apperrors.Write(w, r, err, "Failed to create review")
		return
	}
	if !active {
		apperrors.Write(w, r, models.ErrProductNotFound, "")
		return
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    middleware.UserID(r.Context()),
		Rating:    input.Rating,
		Title:     input.Title,
		Comment:   input.Comment,
	}
	if err := h.reviews.CreateReview(r.Context(), review); err != nil {
		apperrors.Write(w, r, err, "Failed to create review")
		return
	}
	apperrors.WriteJSON(w, http.StatusCreated, views.NewReview(*review))
}

// ParseFilters reads product filters from a query string. Every malformed
// parameter is reported in the returned validation error.
func ParseFilters(q url.Values) (models.ProductFilters, error) {
	var f models.ProductFilters
	fields := map[string]string{}

	if s := q.Get("categoryId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			fields["categoryId"] = "must be a valid UUID"
		} else {
			f.CategoryID = &id
		}
	}

	f.Search = strings.TrimSpace(q.Get("search"))
	f.Fabric = q.Get("fabric")
	f.Occasion = q.Get("occasion")
	f.Color = q.Get("color")
	f.SortBy = models.ParseSortOrder(q.Get("sortBy"))

	f.MinPrice = parseDecimal(q, "minPrice", fields)
	f.MaxPrice = parseDecimal(q, "maxPrice", fields)
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		fields["minPrice"] = "must not exceed maxPrice"
	}

	f.IsNew = parseBool(q, "isNew", fields)
	f.IsFeatured = parseBool(q, "isFeatured", fields)
	f.IsSale = parseBool(q, "isSale", fields)

	f.Limit = models.DefaultProductLimit
	if s := q.Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err != nil {
			fields["limit"] = "must be an integer"
		} else {
			f.Limit = clampLimit(l)
		}
	}
	if s := q.Get("offset"); s != "" {
		o, err := strconv.Atoi(s)
		switch {
		case err != nil:
			fields["offset"] = "must be an integer"
		case o < 0:
			fields["offset"] = "must not be negative"
		default:
			f.Offset = o
		}
	}

	if len(fields) > 0 {
		return models.ProductFilters{}, apperrors.Validation("Invalid query parameters", fields)
	}
	return f, nil
}

func parseDecimal(q url.Values, key string, fields map[string]string) *decimal.Decimal {
	s := q.Get(key)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		fields[key] = "must be a number"
		return nil
	}
	if d.IsNegative() {
		fields[key] = "must not be negative"
		return nil
	}
	return &d
}

func parseBool(q url.Values, key string, fields map[string]string) *bool {
	s := q.Get(key)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		fields[key] = "must be true or false"
		return nil
	}
	return &b
}

func clampLimit(l int) int {
	if l < 1 {
		return 1
	}
	if l > models.MaxProductLimit {
		return models.MaxProductLimit
	}
	return l
}
