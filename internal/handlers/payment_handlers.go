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

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// SubmitPayment records a student's payment claim for admin review.
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req services.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	req.StudentID = middleware.UserIDFromContext(c)
	if req.StudentID == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}

	payment, err := h.paymentService.SubmitPayment(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInvalidPaymentMode) || errors.Is(err, services.ErrSlipRequired) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid payment request.", err.Error()))
			return
		}
		utils.LogError(err, "SubmitPayment: Error from paymentService.SubmitPayment")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to submit payment.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// GetMyPayments returns the authenticated student's payment history.
func (h *PaymentHandler) GetMyPayments(c *gin.Context) {
	studentID := middleware.UserIDFromContext(c)
	payments, err := h.paymentService.GetStudentPayments(studentID)
	if err != nil {
		utils.LogError(err, "GetMyPayments: Error from paymentService.GetStudentPayments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch payments.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetPayments handles fetching all payments with filters (admin only).
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	var filters models.PaymentFilters

	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
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

	payments, totalCount, err := h.paymentService.GetPayments(filters)
	if err != nil {
		utils.LogError(err, "GetPayments: Error from paymentService.GetPayments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch payments.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payments":    payments,
		"total_count": totalCount,
		"page":        filters.Page,
		"page_size":   filters.PageSize,
	})
}

// GetPaymentByID returns a single payment (admin only).
func (h *PaymentHandler) GetPaymentByID(c *gin.Context) {
	payment, err := h.paymentService.GetPaymentByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Payment not found.", ""))
			return
		}
		utils.LogError(err, "GetPaymentByID: Error from paymentService.GetPaymentByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch payment.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, payment)
}

// AcceptPayment accepts a pending payment and credits the student's khata
// (admin only).
func (h *PaymentHandler) AcceptPayment(c *gin.Context) {
	h.review(c, h.paymentService.AcceptPayment)
}

// RejectPayment rejects a pending payment without any ledger effect
// (admin only).
func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	h.review(c, h.paymentService.RejectPayment)
}

func (h *PaymentHandler) review(c *gin.Context, transition func(string, services.ReviewPaymentRequest) (*models.Payment, error)) {
	req := services.ReviewPaymentRequest{ReviewedBy: middleware.UserIDFromContext(c)}

	payment, err := transition(c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Payment not found.", ""))
		case errors.Is(err, services.ErrPaymentAlreadyReviewed):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Payment has already been reviewed.", err.Error()))
		default:
			utils.LogError(err, "ReviewPayment: Error from payment review transition")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to review payment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, payment)
}
