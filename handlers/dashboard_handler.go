package handlers

import (
	"net/http"

	"facility-monitoring/be/middleware"
	"facility-monitoring/be/models"
	"facility-monitoring/be/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	stats         *services.StatsService
	notifications *services.NotificationService
}

func NewDashboardHandler(stats *services.StatsService, notifications *services.NotificationService) *DashboardHandler {
	return &DashboardHandler{stats: stats, notifications: notifications}
}

// The dashboard payload is a tagged variant decided once from the
// principal's role: admins get user stats on top of the facility stats,
// everyone else gets the facility stats alone.

type FacilityStats struct {
	Buildings services.ActivityRollup `json:"buildings"`
	Rooms     services.ActivityRollup `json:"rooms"`
	Cameras   services.CameraRollup   `json:"cameras"`
}

type AdminStats struct {
	FacilityStats
	Users services.UserRollup `json:"users"`
}

type UserDashboard struct {
	Stats         FacilityStats         `json:"stats"`
	Notifications []models.Notification `json:"notifications"`
	UserRole      string                `json:"user_role"`
}

type AdminDashboard struct {
	Stats         AdminStats            `json:"stats"`
	Notifications []models.Notification `json:"notifications"`
	UserRole      string                `json:"user_role"`
}

func (h *DashboardHandler) Index(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	facility, err := h.facilityStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	notifications, err := h.notifications.RecentForUser(principal.UserID, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	if !principal.IsAdmin() {
		c.JSON(http.StatusOK, UserDashboard{
			Stats:         facility,
			Notifications: notifications,
			UserRole:      principal.Role,
		})
		return
	}

	users, err := h.stats.UserStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, AdminDashboard{
		Stats:         AdminStats{FacilityStats: facility, Users: users},
		Notifications: notifications,
		UserRole:      principal.Role,
	})
}

func (h *DashboardHandler) facilityStats() (FacilityStats, error) {
	buildings, err := h.stats.BuildingStats()
	if err != nil {
		return FacilityStats{}, err
	}
	rooms, err := h.stats.RoomStats()
	if err != nil {
		return FacilityStats{}, err
	}
	cameras, err := h.stats.CameraStats()
	if err != nil {
		return FacilityStats{}, err
	}
	return FacilityStats{Buildings: buildings, Rooms: rooms, Cameras: cameras}, nil
}
