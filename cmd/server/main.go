package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"fleet-backend/internal/auth"
	"fleet-backend/internal/billfile"
	"fleet-backend/internal/cache"
	"fleet-backend/internal/config"
	"fleet-backend/internal/database"
	"fleet-backend/internal/db"
	"fleet-backend/internal/handlers"
	"fleet-backend/internal/health"
	h "fleet-backend/internal/http"
	"fleet-backend/internal/middleware"
	"fleet-backend/internal/monitoring"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/services"
	"fleet-backend/internal/storage"
	"fleet-backend/migrations"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; a failed init degrades all cache reads to misses
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	} else {
		log.Printf("[Cache] Redis connected")
	}

	// Run embedded schema migrations before serving
	migrator := database.NewMigratorWithFS(pool, migrations.FS)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Start monitoring dashboard server in background
	go monitoring.NewMonitoringServer(pool, 9090).Start()

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	vendorRepo := repositories.NewVendorRepository(pool)
	receiptBookRepo := repositories.NewReceiptBookRepository(pool)
	allotmentRepo := repositories.NewAllotmentRepository(pool)
	packageRepo := repositories.NewVehiclePackageRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	vendorService := services.NewVendorService(vendorRepo)
	receiptBookService := services.NewReceiptBookService(receiptBookRepo)
	allotmentService := services.NewAllotmentService(allotmentRepo, packageRepo)
	reconciliationService := services.NewReconciliationService(allotmentRepo)

	billArchive := storage.NewBillArchive(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	vendorHandler := handlers.NewVendorHandler(vendorService)
	receiptBookHandler := handlers.NewReceiptBookHandler(receiptBookService)
	allotmentHandler := handlers.NewAllotmentHandler(allotmentService)
	reconciliationHandler := handlers.NewReconciliationHandler(
		reconciliationService, billfile.NewPDFExtractor(), billArchive)
	packageHandler := handlers.NewVehiclePackageHandler(packageRepo)

	healthChecker := health.NewHealthChecker(pool)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := h.NewRouter(
		authHandler,
		userHandler,
		vendorHandler,
		receiptBookHandler,
		allotmentHandler,
		reconciliationHandler,
		packageHandler,
		healthHandler,
		authMiddleware,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
