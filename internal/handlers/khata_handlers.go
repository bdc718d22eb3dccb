package handlers

import (
	"errors"
	"net/http"

	"tiffin_khata_backend/internal/middleware"
	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// KhataHandler exposes the read side of the ledger: balances, journals and
// monthly statements.
type KhataHandler struct {
	ledgerService services.LedgerService
}

// NewKhataHandler creates a new KhataHandler.
func NewKhataHandler(ls services.LedgerService) *KhataHandler {
	return &KhataHandler{ledgerService: ls}
}

// GetMyBalance returns the authenticated student's derived balance.
func (h *KhataHandler) GetMyBalance(c *gin.Context) {
	h.respondBalance(c, middleware.UserIDFromContext(c))
}

// GetMyLedger returns the authenticated student's journal, newest first.
func (h *KhataHandler) GetMyLedger(c *gin.Context) {
	h.respondLedger(c, middleware.UserIDFromContext(c))
}

// GetMyStatement returns the authenticated student's monthly statement.
// The month query parameter is YYYY-MM.
func (h *KhataHandler) GetMyStatement(c *gin.Context) {
	h.respondStatement(c, middleware.UserIDFromContext(c))
}

// GetStudentBalance returns a student's balance (admin only).
func (h *KhataHandler) GetStudentBalance(c *gin.Context) {
	h.respondBalance(c, c.Param("id"))
}

// GetStudentLedger returns a student's journal (admin only).
func (h *KhataHandler) GetStudentLedger(c *gin.Context) {
	h.respondLedger(c, c.Param("id"))
}

// GetStudentStatement returns a student's monthly statement (admin only).
func (h *KhataHandler) GetStudentStatement(c *gin.Context) {
	h.respondStatement(c, c.Param("id"))
}

func (h *KhataHandler) respondBalance(c *gin.Context, studentID string) {
	if utils.IsEmpty(studentID) {
		utils.RespondValidationFailed(c, "student id is required")
		return
	}
	balance, err := h.ledgerService.GetBalance(studentID)
	if err != nil {
		utils.LogError(err, "GetBalance: Error from ledgerService.GetBalance")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute balance.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *KhataHandler) respondLedger(c *gin.Context, studentID string) {
	if utils.IsEmpty(studentID) {
		utils.RespondValidationFailed(c, "student id is required")
		return
	}
	entries, err := h.ledgerService.GetLedger(studentID)
	if err != nil {
		utils.LogError(err, "GetLedger: Error from ledgerService.GetLedger")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch ledger.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *KhataHandler) respondStatement(c *gin.Context, studentID string) {
	if utils.IsEmpty(studentID) {
		utils.RespondValidationFailed(c, "student id is required")
		return
	}
	monthKey := c.Query("month")
	if utils.IsEmpty(monthKey) {
		utils.RespondValidationFailed(c, "month query parameter is required (YYYY-MM)")
		return
	}

	statement, err := h.ledgerService.GetMonthlyStatement(studentID, monthKey)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonthKey) {
			utils.RespondValidationFailed(c, "month must be formatted YYYY-MM")
			return
		}
		utils.LogError(err, "GetStatement: Error from ledgerService.GetMonthlyStatement")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build statement.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, statement)
}
