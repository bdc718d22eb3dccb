package router

import (
	"database/sql"

	"tiffin_khata_backend/internal/handlers"
	"tiffin_khata_backend/internal/middleware"
	"tiffin_khata_backend/internal/queue"
	"tiffin_khata_backend/internal/repositories"
	"tiffin_khata_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Config carries the wiring inputs that come from the environment.
type Config struct {
	// AdminIDs is the role-routing table for admin-addressed notifications.
	AdminIDs []string
	// Clock holds the meal window policy hours.
	Clock services.ClockConfig
	// Broker may be nil; notifications then only land in the in-app feed.
	Broker queue.Broker
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, cfg Config) {
	// Initialize Repositories
	txRunner := repositories.NewTxRunner(db)
	authRepo := repositories.NewAuthRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	statsRepo := repositories.NewStatsRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	kitchenRepo := repositories.NewKitchenRepository(db)

	// Initialize Services
	clock := services.NewMealClock(cfg.Clock, nil)

	notificationService := services.NewNotificationService(notificationRepo, cfg.Broker, cfg.AdminIDs)
	authService := services.NewAuthService(authRepo, txRunner)
	menuService := services.NewMenuService(menuRepo, txRunner, clock)
	kitchenService := services.NewKitchenService(kitchenRepo, txRunner)
	statsService := services.NewStatsService(statsRepo, paymentRepo, clock)
	orderService := services.NewOrderService(orderRepo, ledgerRepo, menuService, kitchenService, statsService, clock, txRunner, notificationService)
	paymentService := services.NewPaymentService(paymentRepo, ledgerRepo, txRunner, notificationService)
	ledgerService := services.NewLedgerService(ledgerRepo)
	studentService := services.NewStudentService(authRepo, ledgerRepo)
	summaryService := services.NewSummaryService(orderRepo, clock)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	menuHandler := handlers.NewMenuHandler(menuService, clock)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	khataHandler := handlers.NewKhataHandler(ledgerService)
	statsHandler := handlers.NewStatsHandler(statsService, clock)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	kitchenHandler := handlers.NewKitchenHandler(kitchenService)
	studentHandler := handlers.NewStudentHandler(studentService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated, authHandler)
		SetupMenuRoutes(authenticated, menuHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupPaymentRoutes(authenticated, paymentHandler)
		SetupKhataRoutes(authenticated, khataHandler)
		SetupNotificationRoutes(authenticated, notificationHandler)
		SetupKitchenRoutes(authenticated, kitchenHandler)
		SetupAdminRoutes(authenticated, orderHandler, paymentHandler, khataHandler, statsHandler, studentHandler, summaryHandler)
	}
}
