package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shopease/storefront/internal/config"
	"github.com/shopease/storefront/internal/handlers"
	"github.com/shopease/storefront/internal/middleware"
	"github.com/shopease/storefront/internal/repository"
	"github.com/shopease/storefront/internal/service"
	"github.com/shopease/storefront/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Initialize the catalog repository, from an external snapshot when
	// configured, otherwise from the seed catalog
	var productRepo *repository.InMemoryProductRepository
	if cfg.Catalog.Source != "" {
		log.Info("loading catalog...", "source", cfg.Catalog.Source)
		products, err := repository.LoadCatalog(context.Background(), cfg.Catalog.Source)
		if err != nil {
			log.Error("failed to load catalog", "error", err)
			os.Exit(1)
		}
		productRepo = repository.NewProductRepositoryFrom(products)
		log.Info("catalog loaded", "products", len(products))
	} else {
		productRepo = repository.NewInMemoryProductRepository()
	}

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	cartService := service.NewCartService(productRepo, cfg.Pricing.ShippingCost, cfg.Pricing.TaxRate, log)
	orderService := service.NewOrderService(cartService, log)

	// Keep session carts aligned with stock between user actions
	if err := cartService.StartReconcileSweep(cfg.Catalog.ReconcileCron); err != nil {
		log.Error("failed to start reconcile sweep", "error", err)
		os.Exit(1)
	}
	defer cartService.StopReconcileSweep()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(catalogService, log)
	cartHandler := handlers.NewCartHandler(cartService, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public catalog endpoints
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)
		r.Get("/category", productHandler.ListCategories)

		// Cart and order endpoints require an authenticated user
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(cfg.Auth))

			r.Get("/cart", cartHandler.ViewCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productId}", cartHandler.UpdateItem)
			r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)

			r.Post("/order", orderHandler.Checkout)
			r.Get("/order", orderHandler.ListOrders)
			r.Get("/order/{orderId}", orderHandler.GetOrder)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
