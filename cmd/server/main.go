package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sareeghar/storefront/app"
	"github.com/sareeghar/storefront/app/cart"
	"github.com/sareeghar/storefront/app/catalog"
	"github.com/sareeghar/storefront/app/categories"
	"github.com/sareeghar/storefront/app/checkout"
	"github.com/sareeghar/storefront/app/orders"
	"github.com/sareeghar/storefront/app/users"
	"github.com/sareeghar/storefront/app/wishlist"
	"github.com/sareeghar/storefront/cache"
	"github.com/sareeghar/storefront/config"
	"github.com/sareeghar/storefront/database"
	"github.com/sareeghar/storefront/logger"
	"github.com/sareeghar/storefront/middleware"
	"github.com/sareeghar/storefront/models"
	"github.com/sareeghar/storefront/payment"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.Env)
	defer logger.Log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Fatal("Failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close() //nolint:errcheck

	if err := database.Migrate(ctx, db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	productsRepo := models.NewProductsRepository(db)
	categoriesRepo := models.NewCategoriesRepository(db)
	cartRepo := models.NewCartRepository(db)

	var products catalog.ProductProvider = productsRepo
	var categoryProvider categories.CategoryProvider = categoriesRepo
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			catalogCache := cache.NewCatalog(client, cfg.CacheTTL)
			products = catalog.NewCachedProducts(productsRepo, catalogCache)
			categoryProvider = categories.NewCachedCategories(categoriesRepo, catalogCache)
			logger.Log.Info("Catalog cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	var gateway payment.Gateway
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey)
	} else {
		logger.Log.Warn("STRIPE_SECRET_KEY not set, using mock payment gateway")
		gateway = payment.NewMockGateway()
	}

	handlers := app.Handlers{
		Catalog:    catalog.NewCatalogHandler(products, models.NewReviewsRepository(db)),
		Categories: categories.NewCategoryHandler(categoryProvider),
		Cart:       cart.NewCartHandler(cartRepo, productsRepo),
		Wishlist:   wishlist.NewWishlistHandler(models.NewWishlistRepository(db), productsRepo),
		Checkout: checkout.NewCheckoutHandler(
			checkout.NewService(models.NewCheckoutStore(db)),
			cartRepo,
			productsRepo,
			gateway,
			cfg.Currency,
		),
		Orders: orders.NewOrderHandler(models.NewOrdersRepository(db)),
		Users:  users.NewUserHandler(models.NewUsersRepository(db)),
	}
	mux := app.NewRouter(handlers, []byte(cfg.JWTSecret), sqlDB)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go limiter.Run(ctx, time.Minute)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: middleware.Chain(mux,
			middleware.RequestID,
			middleware.RequestLogger(logger.Log),
			middleware.Recover,
			limiter.Middleware,
		),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()
	logger.Log.Info("Storefront API started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	<-ctx.Done()
	logger.Log.Info("Shutting down storefront API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Log.Info("Server exited cleanly")
}
