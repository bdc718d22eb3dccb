package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tiffin_khata_backend/internal/middleware"
	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the in-app notification feed.
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// GetFeed returns the authenticated user's notifications, newest first.
func (h *NotificationHandler) GetFeed(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 0 // repository default
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			utils.RespondValidationFailed(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	notifications, err := h.notificationService.GetFeed(userID, limit)
	if err != nil {
		utils.LogError(err, "GetFeed: Error from notificationService.GetFeed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch notifications.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// GetUnreadCount returns the user's unread badge count.
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(middleware.UserIDFromContext(c))
	if err != nil {
		utils.LogError(err, "GetUnreadCount: Error from notificationService.UnreadCount")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to count notifications.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead marks one of the user's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.notificationService.MarkRead(c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Notification not found.", ""))
			return
		}
		utils.LogError(err, "MarkRead: Error from notificationService.MarkRead")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update notification.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkAllRead clears the user's unread badge.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(middleware.UserIDFromContext(c)); err != nil {
		utils.LogError(err, "MarkAllRead: Error from notificationService.MarkAllRead")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update notifications.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
