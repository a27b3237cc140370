package categories

import (
	"context"
	"net/http"

	"github.com/sareeghar/storefront/app/views"
	"github.com/sareeghar/storefront/apperrors"
	"github.com/sareeghar/storefront/logger"
	"github.com/sareeghar/storefront/models"
	"go.uber.org/zap"
)

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		apperrors.Write(w, r, err, "Failed to fetch categories")
		return
	}

	response := make([]views.Category, len(categories))
	for i, c := range categories {
		response[i] = views.NewCategory(c)
	}
	apperrors.WriteJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.repo.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		apperrors.Write(w, r, err, "Failed to fetch category")
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, views.NewCategory(*category))
}

// Cache stores JSON-encodable values by name.
type Cache interface {
	Get(ctx context.Context, name string, dst any) (bool, error)
	Set(ctx context.Context, name string, v any) error
}

// CachedCategories caches the full category list. Lookups by slug pass
// through.
type CachedCategories struct {
	CategoryProvider
	cache Cache
}

func NewCachedCategories(p CategoryProvider, c Cache) *CachedCategories {
	return &CachedCategories{CategoryProvider: p, cache: c}
}

func (c *CachedCategories) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	const key = "categories"

	var categories []models.Category
	hit, err := c.cache.Get(ctx, key, &categories)
	if err != nil {
		logger.Warn(ctx, "category cache read failed", zap.Error(err))
	}
	if hit {
		return categories, nil
	}

	categories, err = c.CategoryProvider.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, categories); err != nil {
		logger.Warn(ctx, "category cache write failed", zap.Error(err))
	}
	return categories, nil
}
