package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tiffin_khata_backend/internal/middleware"
	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// PlaceOrder handles a student's order submission for the active meal.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	req.StudentID = middleware.UserIDFromContext(c)
	if req.StudentID == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}

	order, err := h.orderService.PlaceOrder(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrKitchenClosed),
			errors.Is(err, services.ErrKitchenOnHoliday),
			errors.Is(err, services.ErrOrderCutoffPassed):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Ordering is closed for this meal.", err.Error()))
		case errors.Is(err, services.ErrMenuNotAvailable):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Menu is not set yet.", err.Error()))
		case errors.Is(err, services.ErrWrongMealSlot),
			errors.Is(err, services.ErrInvalidMealSlot),
			errors.Is(err, services.ErrInvalidQuantity),
			errors.Is(err, services.ErrUnknownVariant),
			errors.Is(err, services.ErrUnknownExtra):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order request.", err.Error()))
		default:
			utils.LogError(err, "PlaceOrder: Error from orderService.PlaceOrder")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to place order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetMyOrders returns the authenticated student's recent order history.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	studentID := middleware.UserIDFromContext(c)
	orders, err := h.orderService.GetStudentOrders(studentID)
	if err != nil {
		utils.LogError(err, "GetMyOrders: Error from orderService.GetStudentOrders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch orders.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrders handles fetching all orders with filters (admin only).
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters

	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	if date := c.Query("date"); date != "" {
		filters.Date = &date
	}
	if mealType := c.Query("meal_type"); mealType != "" {
		filters.MealType = &mealType
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	filters.Page = 1
	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			utils.RespondValidationFailed(c, "page must be a positive integer")
			return
		}
		filters.Page = page
	}
	filters.PageSize = 20
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize < 1 {
			utils.RespondValidationFailed(c, "page_size must be a positive integer")
			return
		}
		filters.PageSize = pageSize
	}

	orders, totalCount, err := h.orderService.GetOrders(filters)
	if err != nil {
		utils.LogError(err, "GetOrders: Error from orderService.GetOrders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch orders.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":      orders,
		"total_count": totalCount,
		"page":        filters.Page,
		"page_size":   filters.PageSize,
	})
}

// GetOrderByID returns a single order (admin only).
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	order, err := h.orderService.GetOrderByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", ""))
			return
		}
		utils.LogError(err, "GetOrderByID: Error from orderService.GetOrderByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch order.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, order)
}

// ConfirmOrder transitions a pending order to confirmed and debits the
// student's khata (admin only).
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	order, err := h.orderService.ConfirmOrder(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", ""))
		case errors.Is(err, services.ErrOrderNotPending):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Order is not pending.", err.Error()))
		default:
			utils.LogError(err, "ConfirmOrder: Error from orderService.ConfirmOrder")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to confirm order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}
