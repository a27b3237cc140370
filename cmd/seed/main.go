// Command seed loads a starter saree catalog into an empty database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sareeghar/storefront/cache"
	"github.com/sareeghar/storefront/config"
	"github.com/sareeghar/storefront/database"
	"github.com/sareeghar/storefront/logger"
	"github.com/sareeghar/storefront/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedProduct struct {
	name          string
	slug          string
	category      string
	description   string
	price         string
	originalPrice string
	fabric        string
	occasion      string
	color         string
	stock         int
	featured      bool
	isNew         bool
	tags          []string
	images        []string
}

var seedCategories = []models.Category{
	{Name: "Banarasi", Slug: "banarasi", Description: ptr("Handwoven silk from Varanasi with zari brocade."), IsActive: true},
	{Name: "Kanjivaram", Slug: "kanjivaram", Description: ptr("Temple-bordered mulberry silk from Kanchipuram."), IsActive: true},
	{Name: "Chanderi", Slug: "chanderi", Description: ptr("Sheer cotton-silk blends with fine motifs."), IsActive: true},
	{Name: "Georgette", Slug: "georgette", Description: ptr("Light drapes for everyday and party wear."), IsActive: true},
}

var seedProducts = []seedProduct{
	{
		name: "Crimson Banarasi Silk Saree", slug: "crimson-banarasi-silk-saree", category: "banarasi",
		description: "Pure katan silk with gold zari buttis and a heavy pallu.",
		price:       "12499.00", originalPrice: "14999.00",
		fabric: "Silk", occasion: "Wedding", color: "Red", stock: 12, featured: true,
		tags:   []string{"zari", "bridal"},
		images: []string{"/images/crimson-banarasi-1.jpg", "/images/crimson-banarasi-2.jpg"},
	},
	{
		name: "Emerald Kanjivaram Saree", slug: "emerald-kanjivaram-saree", category: "kanjivaram",
		description: "Korvai border with contrast mustard pallu.",
		price:       "18999.00",
		fabric:      "Silk", occasion: "Festive", color: "Green", stock: 6, featured: true, isNew: true,
		tags:   []string{"temple-border"},
		images: []string{"/images/emerald-kanjivaram-1.jpg"},
	},
	{
		name: "Ivory Chanderi Saree", slug: "ivory-chanderi-saree", category: "chanderi",
		description: "Featherweight chanderi with silver coin motifs.",
		price:       "3499.00", originalPrice: "3999.00",
		fabric: "Cotton Silk", occasion: "Office", color: "White", stock: 20, isNew: true,
		images: []string{"/images/ivory-chanderi-1.jpg"},
	},
	{
		name: "Blush Georgette Party Saree", slug: "blush-georgette-party-saree", category: "georgette",
		description: "Sequinned border on a soft georgette drape.",
		price:       "2499.00",
		fabric:      "Georgette", occasion: "Party", color: "Pink", stock: 30, featured: true,
		tags:   []string{"sequin"},
		images: []string{"/images/blush-georgette-1.jpg", "/images/blush-georgette-2.jpg"},
	},
	{
		name: "Indigo Chanderi Block Print", slug: "indigo-chanderi-block-print", category: "chanderi",
		description: "Hand block printed chanderi in natural indigo.",
		price:       "2999.00",
		fabric:      "Cotton Silk", occasion: "Casual", color: "Blue", stock: 15,
		images: []string{"/images/indigo-chanderi-1.jpg"},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.Env)
	defer logger.Log.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	products := models.NewProductsRepository(db)
	n, err := products.Count(ctx)
	if err != nil {
		logger.Log.Fatal("Failed to count products", zap.Error(err))
	}
	if n > 0 {
		logger.Log.Info("Catalog already seeded", zap.Int64("products", n))
		return
	}

	if err := seed(ctx, models.NewCategoriesRepository(db), products); err != nil {
		logger.Log.Fatal("Failed to seed catalog", zap.Error(err))
	}

	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.Warn("Redis unavailable, catalog cache not flushed", zap.Error(err))
			return
		}
		defer client.Close() //nolint:errcheck
		if err := cache.NewCatalog(client, cfg.CacheTTL).Flush(ctx); err != nil {
			logger.Log.Warn("Failed to flush catalog cache", zap.Error(err))
		}
	}
}

func seed(ctx context.Context, categories *models.CategoriesRepository, products *models.ProductsRepository) error {
	bySlug := make(map[string]*models.Category, len(seedCategories))
	for i := range seedCategories {
		c := seedCategories[i]
		if err := categories.CreateCategory(ctx, &c); err != nil {
			return fmt.Errorf("category %s: %w", c.Slug, err)
		}
		bySlug[c.Slug] = &c
	}

	for _, sp := range seedProducts {
		category, ok := bySlug[sp.category]
		if !ok {
			return fmt.Errorf("product %s: unknown category %s", sp.slug, sp.category)
		}
		p := &models.Product{
			Name:        sp.name,
			Slug:        sp.slug,
			Description: ptr(sp.description),
			Price:       decimal.RequireFromString(sp.price),
			CategoryID:  &category.ID,
			Fabric:      ptr(sp.fabric),
			Occasion:    ptr(sp.occasion),
			Color:       ptr(sp.color),
			Stock:       sp.stock,
			IsActive:    true,
			IsFeatured:  sp.featured,
			IsNew:       sp.isNew,
			Tags:        sp.tags,
		}
		if sp.originalPrice != "" {
			original := decimal.RequireFromString(sp.originalPrice)
			p.OriginalPrice = &original
			p.IsSale = original.GreaterThan(p.Price)
		}
		for i, url := range sp.images {
			p.Images = append(p.Images, models.ProductImage{
				ImageURL:  url,
				AltText:   ptr(sp.name),
				IsPrimary: i == 0,
				SortOrder: i,
			})
		}
		if err := products.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("product %s: %w", sp.slug, err)
		}
		logger.Log.Info("Seeded product", zap.String("slug", p.Slug), zap.String("price", p.Price.StringFixed(2)))
	}
	return nil
}

func ptr(s string) *string {
	return &s
}
