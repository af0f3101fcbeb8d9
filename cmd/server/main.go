package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pantrylens/backend/config"
	httpDelivery "github.com/pantrylens/backend/internal/delivery/http"
	"github.com/pantrylens/backend/internal/session"
	"github.com/pantrylens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PantryLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Enable debug extraction logging in development environment
	debug := cfg.Extraction.EnableDebugLogging || cfg.Server.Environment == "development"

	// Initialize extraction services
	dateService := usecase.NewDateService(usecase.DateServiceConfig{
		PrefixBoost:        cfg.Extraction.PrefixBoost,
		EnableDebugLogging: debug,
	})
	nutritionService := usecase.NewNutritionService(usecase.NutritionServiceConfig{
		EnableDebugLogging: debug,
	})
	shoppingService := usecase.NewShoppingService(usecase.ShoppingServiceConfig{
		EnableDebugLogging: debug,
	})

	// Initialize the live scanning session manager
	sessionManager := session.NewManager(dateService, session.Config{
		DebounceDelay:      cfg.Session.DebounceDelay,
		LedgerStep:         cfg.Session.LedgerStep,
		SelectThreshold:    cfg.Session.SelectThreshold,
		HistoryCapacity:    cfg.Session.HistoryCapacity,
		EnableDebugLogging: debug,
	}, cfg.Session.IdleTTL)

	log.Printf("Sessions: debounce=%s, step=%.2f, threshold=%.2f, idle TTL=%s",
		cfg.Session.DebounceDelay,
		cfg.Session.LedgerStep,
		cfg.Session.SelectThreshold,
		cfg.Session.IdleTTL)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(dateService, nutritionService, shoppingService, sessionManager)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
