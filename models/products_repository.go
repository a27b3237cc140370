package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// orderedImages sorts a product's gallery primary first, then by sort order.
func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC").Order("sort_order ASC").Order("id ASC")
}

// withListing preloads what a listing needs. Each preload is one query keyed
// by the page's product ids, so the query count does not grow with page size.
func withListing(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("Images", orderedImages)
}

// GetFilteredProducts returns one page of active products matching filters
// and the total number of matches ignoring pagination.
func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	where := filters.Where()
	limit, offset := filters.Page()

	if err := r.db.WithContext(ctx).
		Model(&Product{}).
		Clauses(where).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Scopes(withListing).
		Clauses(where, filters.SortBy.orderBy()).
		Limit(limit).
		Offset(offset).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}

	return products, total, nil
}

func (r *ProductsRepository) curated(ctx context.Context, flag string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = DefaultCuratedLimit
	}
	var products []Product
	if err := r.db.WithContext(ctx).
		Scopes(withListing).
		Clauses(NewFilterBuilder().Where(Eq{Column: flag, Value: true}).Build(), SortNewest.orderBy()).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("find %s products: %w", flag, err)
	}
	return products, nil
}

func (r *ProductsRepository) GetFeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	return r.curated(ctx, "is_featured", limit)
}

func (r *ProductsRepository) GetNewProducts(ctx context.Context, limit int) ([]Product, error) {
	return r.curated(ctx, "is_new", limit)
}

func (r *ProductsRepository) GetSaleProducts(ctx context.Context, limit int) ([]Product, error) {
	return r.curated(ctx, "is_sale", limit)
}

func (r *ProductsRepository) getOne(ctx context.Context, column string, value any) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Scopes(withListing).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Clauses(NewFilterBuilder().Where(Eq{Column: column, Value: value}).Build()).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

// GetBySlug loads an active product with images, category and all reviews.
func (r *ProductsRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.getOne(ctx, "slug", slug)
}

// GetByID loads an active product by id with the same details as GetBySlug.
func (r *ProductsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return r.getOne(ctx, "id", id)
}

// GetActiveByIDs returns the active products among ids, keyed by id.
func (r *ProductsRepository) GetActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]Product{}, nil
	}
	var products []Product
	if err := r.db.WithContext(ctx).
		Clauses(NewFilterBuilder().Where(In{Column: "id", Values: uuidValues(ids)}).Build()).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("find products by id: %w", err)
	}
	byID := make(map[uuid.UUID]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// IsActive reports whether the product exists and is visible.
func (r *ProductsRepository) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&Product{}).
		Clauses(NewFilterBuilder().Where(Eq{Column: "id", Value: id}).Build()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check product: %w", err)
	}
	return count > 0, nil
}

// CreateProduct inserts a product together with its images.
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Reviews").Create(product).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Count returns the number of products regardless of status.
func (r *ProductsRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Product{}).Count(&n).Error
	return n, err
}

func uuidValues(ids []uuid.UUID) []any {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}
