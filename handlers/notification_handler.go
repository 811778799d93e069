package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"facility-monitoring/be/middleware"
	"facility-monitoring/be/models"
	"facility-monitoring/be/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db            *gorm.DB
	notifications *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB, notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{db: db, notifications: notifications}
}

// GetNotifications returns the caller's recent notifications, newest
// first. Limit defaults to 5, capped at 50.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	notifications, err := h.notifications.RecentForUser(principal.UserID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead stamps read_at on one of the caller's notifications.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")

	var notification models.Notification
	err := h.db.Where("user_id = ?", principal.UserID).First(&notification, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification"})
		return
	}

	if notification.ReadAt == nil {
		now := time.Now()
		if err := h.db.Model(&notification).Update("read_at", now).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
			return
		}
		notification.ReadAt = &now
	}

	c.JSON(http.StatusOK, notification)
}

// MarkAllRead stamps read_at on every unread notification the caller
// has.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", principal.UserID).
		Update("read_at", time.Now())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": result.RowsAffected})
}
