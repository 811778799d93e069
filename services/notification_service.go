package services

import (
	"encoding/json"
	"fmt"

	"facility-monitoring/be/models"

	"gorm.io/gorm"
)

// NotificationService writes in-app notifications. Delivery is pull
// only: rows land in the store and clients read them from the
// notifications endpoints.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// RecordLogin writes a login notification for the user who just
// authenticated.
func (s *NotificationService) RecordLogin(user *models.User) error {
	notification := models.Notification{
		UserID:  user.ID,
		Title:   "User Login",
		Message: fmt.Sprintf("%s logged in", user.Name),
		Type:    models.NotificationLogin,
	}
	return s.db.Create(&notification).Error
}

// NotifyCameraStatusChange fans a camera_status notification out to
// every admin. Called on heartbeat-driven status transitions.
func (s *NotificationService) NotifyCameraStatusChange(camera *models.Camera, previousStatus string) error {
	var admins []models.User
	if err := s.db.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		return err
	}
	if len(admins) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"camera_id":       camera.ID,
		"camera_code":     camera.Code,
		"previous_status": previousStatus,
		"status":          camera.Status,
	})
	if err != nil {
		return err
	}
	data := string(payload)

	notifications := make([]models.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, models.Notification{
			UserID:  admin.ID,
			Title:   "Camera Status Change",
			Message: fmt.Sprintf("Camera %s changed from %s to %s", camera.Name, previousStatus, camera.Status),
			Type:    models.NotificationCameraStatus,
			Data:    &data,
		})
	}

	return s.db.Create(&notifications).Error
}

// RecentForUser returns the user's newest notifications, newest first.
func (s *NotificationService) RecentForUser(userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 5
	}

	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
