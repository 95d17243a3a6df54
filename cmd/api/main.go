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

	"github.com/oklog/ulid/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/vibe-commerce/api/internal/catalog"
	"github.com/vibe-commerce/api/internal/handlers"
	"github.com/vibe-commerce/api/internal/platform/config"
	"github.com/vibe-commerce/api/internal/platform/kv"
	"github.com/vibe-commerce/api/internal/platform/observability"
	"github.com/vibe-commerce/api/internal/platform/requestctx"
	"github.com/vibe-commerce/api/internal/platform/schedule"
	"github.com/vibe-commerce/api/internal/platform/session"
	kvrepo "github.com/vibe-commerce/api/internal/repositories/kv"
	"github.com/vibe-commerce/api/internal/services"
)

const shutdownGrace = 10 * time.Second

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store, storeKind, err := newStore(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("failed to initialise kv store", zap.Error(err), zap.String("store", storeKind))
	}
	logger.Info("kv store ready", zap.String("store", storeKind))

	registry, err := kvrepo.NewRegistry(store)
	if err != nil {
		logger.Fatal("failed to build repositories", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := registry.Close(closeCtx); err != nil {
			logger.Warn("failed to close kv store", zap.Error(err))
		}
	}()

	catalogClient, err := catalog.NewClient(catalog.ClientDeps{
		BaseURL:    cfg.Catalog.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Catalog.Timeout},
		CacheTTL:   cfg.Catalog.CacheTTL,
		Clock:      time.Now,
	})
	if err != nil {
		logger.Fatal("failed to build catalog client", zap.Error(err))
	}

	newID := func() string { return ulid.Make().String() }
	serviceLog := serviceLogger(logger)

	cartService, err := services.NewCartService(services.CartServiceDeps{
		Repository: registry.Carts(),
		Catalog:    catalogClient,
		CouponCode: cfg.Promo.CouponCode,
		CouponRate: cfg.Promo.CouponRate,
		Clock:      time.Now,
		Logger:     serviceLog,
	})
	if err != nil {
		logger.Fatal("failed to build cart service", zap.Error(err))
	}

	wishlistService, err := services.NewWishlistService(services.WishlistServiceDeps{
		Repository: registry.Wishlists(),
		Catalog:    catalogClient,
		Cart:       cartService,
		Logger:     serviceLog,
	})
	if err != nil {
		logger.Fatal("failed to build wishlist service", zap.Error(err))
	}

	walletService, err := services.NewWalletService(services.WalletServiceDeps{
		Repository:     registry.Wallets(),
		InitialBalance: cfg.Wallet.InitialBalance,
		Clock:          time.Now,
		Logger:         serviceLog,
	})
	if err != nil {
		logger.Fatal("failed to build wallet service", zap.Error(err))
	}

	checkoutService, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Carts:       registry.Carts(),
		Orders:      registry.Orders(),
		Catalog:     catalogClient,
		Wallet:      walletService,
		Clock:       time.Now,
		IDGenerator: newID,
		Logger:      serviceLog,
	})
	if err != nil {
		logger.Fatal("failed to build checkout service", zap.Error(err))
	}

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:        registry.Orders(),
		Runner:        schedule.NewRunner(),
		ShipmentDelay: cfg.Orders.ShipmentDelay,
		Clock:         time.Now,
		Logger:        serviceLog,
	})
	if err != nil {
		logger.Fatal("failed to build order service", zap.Error(err))
	}
	defer orderService.Shutdown()

	storefrontService, err := services.NewStorefrontService(services.StorefrontServiceDeps{
		Catalog: catalogClient,
		Recent:  registry.RecentlyViewed(),
		Logger:  serviceLog,
	})
	if err != nil {
		logger.Fatal("failed to build storefront service", zap.Error(err))
	}

	chatService, err := services.NewChatService(services.ChatServiceDeps{
		Repository:  registry.Chats(),
		Clock:       time.Now,
		IDGenerator: newID,
		Logger:      serviceLog,
	})
	if err != nil {
		logger.Fatal("failed to build chat service", zap.Error(err))
	}

	profileService, err := services.NewProfileService(services.ProfileServiceDeps{
		Repository: registry.Profiles(),
		Clock:      time.Now,
		Logger:     serviceLog,
	})
	if err != nil {
		logger.Fatal("failed to build profile service", zap.Error(err))
	}

	catalogHandlers := handlers.NewCatalogHandlers(storefrontService)
	cartHandlers := handlers.NewCartHandlers(cartService)
	wishlistHandlers := handlers.NewWishlistHandlers(wishlistService)
	walletHandlers := handlers.NewWalletHandlers(walletService)
	checkoutHandlers := handlers.NewCheckoutHandlers(checkoutService)
	orderHandlers := handlers.NewOrderHandlers(orderService)
	chatHandlers := handlers.NewChatHandlers(chatService)
	profileHandlers := handlers.NewProfileHandlers(profileService)

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithReadinessCheck(registry.Health().Ping),
	)

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", session.HeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(corsOptions.AllowedOrigins) == 0 {
		corsOptions.AllowedOrigins = []string{"*"}
		corsOptions.AllowCredentials = false
	}

	middlewares := []func(http.Handler) http.Handler{
		cors.New(corsOptions).Handler,
		observability.InjectLoggerMiddleware(logger),
		observability.RequestLoggerMiddleware(),
		observability.RecoveryMiddleware(logger),
		session.Middleware(newID),
		handlers.NewRateLimitMiddleware(cfg.RateLimits.DefaultPerMinute, time.Minute),
	}

	var opts []handlers.Option
	opts = append(opts, handlers.WithBasePath(cfg.Server.BasePath))
	opts = append(opts, handlers.WithMiddlewares(middlewares...))
	opts = append(opts, handlers.WithHealthHandlers(healthHandlers))
	opts = append(opts, handlers.WithProductRoutes(catalogHandlers.Routes))
	opts = append(opts, handlers.WithRecentRoutes(catalogHandlers.RecentRoute))
	opts = append(opts, handlers.WithCartRoutes(cartHandlers.Routes))
	opts = append(opts, handlers.WithWishlistRoutes(wishlistHandlers.Routes))
	opts = append(opts, handlers.WithWalletRoutes(walletHandlers.Routes))
	opts = append(opts, handlers.WithCheckoutRoutes(checkoutHandlers.Routes))
	opts = append(opts, handlers.WithOrderRoutes(orderHandlers.Routes))
	opts = append(opts, handlers.WithChatRoutes(chatHandlers.Routes))
	opts = append(opts, handlers.WithProfileRoutes(profileHandlers.Routes))
	opts = append(opts, handlers.WithMutatingMiddlewares(
		handlers.NewRateLimitMiddleware(cfg.RateLimits.MutatingPerMinute, time.Minute),
	))

	router := handlers.NewRouter(opts...)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("api server listening",
			zap.String("addr", server.Addr),
			zap.String("base_path", cfg.Server.BasePath),
			zap.Time("started_at", startedAt),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server terminated unexpectedly", zap.Error(err))
		}
	}()

	sig := <-shutdown
	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("api server stopped")
}

// newStore selects Redis when an address is configured and otherwise falls
// back to the in-process memory store, which is enough for local demos.
func newStore(ctx context.Context, cfg config.RedisConfig) (kv.Store, string, error) {
	if cfg.Addr == "" {
		return kv.NewMemory(), "memory", nil
	}
	store, err := kv.NewRedis(ctx, kv.RedisOptions{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, "redis", err
	}
	return store, "redis", nil
}

// serviceLogger adapts the request-scoped zap logger to the plain callback
// the services accept.
func serviceLogger(fallback *zap.Logger) func(context.Context, string, map[string]any) {
	return func(ctx context.Context, event string, fields map[string]any) {
		logger := observability.FromContext(ctx)
		if logger == requestctx.NoopLogger() {
			logger = fallback
		}
		zapFields := make([]zap.Field, 0, len(fields))
		for key, value := range fields {
			zapFields = append(zapFields, zap.Any(key, value))
		}
		logger.Info(event, zapFields...)
	}
}
