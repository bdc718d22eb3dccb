package router

import (
	"tiffin_khata_backend/internal/handlers"
	"tiffin_khata_backend/internal/middleware"
	"tiffin_khata_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes sets up the unauthenticated auth routes.
func SetupPublicAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh-token", authHandler.Refresh)
	}
}

// SetupAuthenticatedAuthRoutes sets up the auth routes behind the middleware.
func SetupAuthenticatedAuthRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := authenticatedGroup.Group("/auth")
	{
		authRoutes.GET("/me", authHandler.GetProfile)
	}
}

// SetupMenuRoutes sets up the menu routes. Reads are open to every
// authenticated user; writes are admin only.
func SetupMenuRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuRoutes := authenticatedGroup.Group("/menu")
	{
		menuRoutes.GET("/today", menuHandler.GetTodayMenu)
		menuRoutes.GET("/:date", menuHandler.GetMenuByDate)

		adminMenuRoutes := menuRoutes.Group("")
		adminMenuRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminMenuRoutes.PUT("", menuHandler.SetMenu)
		}
	}
}

// SetupOrderRoutes sets up the student-facing order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.PlaceOrder)
		orderRoutes.GET("/mine", orderHandler.GetMyOrders)
	}
}

// SetupPaymentRoutes sets up the student-facing payment routes.
func SetupPaymentRoutes(authenticatedGroup *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	paymentRoutes := authenticatedGroup.Group("/payments")
	{
		paymentRoutes.POST("", paymentHandler.SubmitPayment)
		paymentRoutes.GET("/mine", paymentHandler.GetMyPayments)
	}
}

// SetupKhataRoutes sets up the student-facing ledger routes.
func SetupKhataRoutes(authenticatedGroup *gin.RouterGroup, khataHandler *handlers.KhataHandler) {
	khataRoutes := authenticatedGroup.Group("/khata")
	{
		khataRoutes.GET("/balance", khataHandler.GetMyBalance)
		khataRoutes.GET("/ledger", khataHandler.GetMyLedger)
		khataRoutes.GET("/statement", khataHandler.GetMyStatement)
	}
}

// SetupNotificationRoutes sets up the in-app notification feed routes.
func SetupNotificationRoutes(authenticatedGroup *gin.RouterGroup, notificationHandler *handlers.NotificationHandler) {
	notificationRoutes := authenticatedGroup.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.GetFeed)
		notificationRoutes.GET("/unread-count", notificationHandler.GetUnreadCount)
		notificationRoutes.PATCH("/:id/read", notificationHandler.MarkRead)
		notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)
	}
}

// SetupKitchenRoutes sets up the kitchen settings routes.
func SetupKitchenRoutes(authenticatedGroup *gin.RouterGroup, kitchenHandler *handlers.KitchenHandler) {
	kitchenRoutes := authenticatedGroup.Group("/kitchen")
	{
		kitchenRoutes.GET("", kitchenHandler.GetConfig)

		adminKitchenRoutes := kitchenRoutes.Group("")
		adminKitchenRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminKitchenRoutes.PUT("", kitchenHandler.UpdateConfig)
		}
	}
}

// SetupAdminRoutes sets up the admin-only surface: order review, payment
// review, student directory, per-student khata, dashboard and cooking summary.
func SetupAdminRoutes(
	authenticatedGroup *gin.RouterGroup,
	orderHandler *handlers.OrderHandler,
	paymentHandler *handlers.PaymentHandler,
	khataHandler *handlers.KhataHandler,
	statsHandler *handlers.StatsHandler,
	studentHandler *handlers.StudentHandler,
	summaryHandler *handlers.SummaryHandler,
) {
	adminRoutes := authenticatedGroup.Group("/admin")
	adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		adminRoutes.GET("/orders", orderHandler.GetOrders)
		adminRoutes.GET("/orders/:id", orderHandler.GetOrderByID)
		adminRoutes.POST("/orders/:id/confirm", orderHandler.ConfirmOrder)

		adminRoutes.GET("/payments", paymentHandler.GetPayments)
		adminRoutes.GET("/payments/:id", paymentHandler.GetPaymentByID)
		adminRoutes.POST("/payments/:id/accept", paymentHandler.AcceptPayment)
		adminRoutes.POST("/payments/:id/reject", paymentHandler.RejectPayment)

		adminRoutes.GET("/students", studentHandler.ListStudents)
		adminRoutes.GET("/students/:id", studentHandler.GetStudentProfile)
		adminRoutes.GET("/students/:id/balance", khataHandler.GetStudentBalance)
		adminRoutes.GET("/students/:id/ledger", khataHandler.GetStudentLedger)
		adminRoutes.GET("/students/:id/statement", khataHandler.GetStudentStatement)

		adminRoutes.GET("/stats/daily", statsHandler.GetDailyStats)
		adminRoutes.GET("/dashboard", statsHandler.GetDashboard)
		adminRoutes.GET("/cooking-summary", summaryHandler.GetCookingSummary)
	}
}
