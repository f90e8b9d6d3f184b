package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/app/controller"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/app/router"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/checkout"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/db"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/pricing"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/repository"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/service"
)

const defaultWhatsAppPhone = "5491164399974"

// Initialize initializes the application
func Initialize() error {
	ctx := context.Background()

	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize session repository and its schema
	sessionRepo := repository.NewSessionRepository()
	if err := sessionRepo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure session schema: %w", err)
	}

	// Initialize pricing engine (PRICING_CONFIG is optional; empty
	// means the built-in zone table)
	engine, err := pricing.NewEngine(os.Getenv("PRICING_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load pricing config: %w", err)
	}
	log.Printf("💰 Pricing engine ready - %d zones, policy=%s", len(engine.Zones()), engine.Policy())

	// Initialize product feed and catalog
	feedService, err := service.NewFeedService(ctx, service.FeedConfig{
		CSVURL:     os.Getenv("SHEET_CSV_URL"),
		SheetID:    os.Getenv("SHEET_ID"),
		SheetRange: os.Getenv("SHEET_RANGE"),
		APIKey:     os.Getenv("GOOGLE_API_KEY"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize feed service: %w", err)
	}

	catalogService := service.NewCatalogService(feedService)
	stats := catalogService.Refresh(ctx)
	log.Printf("📦 Catalog ready - %d products from %s", stats.ProductCount, stats.Source)

	// Initialize auxiliary services
	recommendationService := service.NewRecommendationService(catalogService, os.Getenv("GEMINI_API_KEY"))
	analyticsService := service.NewAnalyticsService(os.Getenv("PIXEL_ENDPOINT"))
	imageService := service.NewImageService()

	// Initialize order formatter
	phone := os.Getenv("WHATSAPP_PHONE")
	if phone == "" {
		phone = defaultWhatsAppPhone
	}
	formatter := checkout.NewFormatter(phone)

	// Create controllers
	controllers := &router.Controllers{
		Catalog:        controller.NewCatalogController(catalogService, imageService),
		Cart:           controller.NewCartController(sessionRepo, catalogService, analyticsService, engine),
		Checkout:       controller.NewCheckoutController(sessionRepo, engine, formatter, analyticsService),
		Zone:           controller.NewZoneController(engine),
		Recommendation: controller.NewRecommendationController(recommendationService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}
