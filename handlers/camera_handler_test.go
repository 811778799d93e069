package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"facility-monitoring/be/middleware"
	"facility-monitoring/be/models"
	"facility-monitoring/be/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func cameraRouter(db *gorm.DB) *gin.Engine {
	stats := services.NewStatsService(db)
	notifications := services.NewNotificationService(db)
	h := NewCameraHandler(db, nil, stats, notifications)

	router := testRouter(middleware.Principal{UserID: 1, Role: "admin"})
	router.GET("/cameras", h.GetCameras)
	router.GET("/cameras/:id", h.GetCamera)
	router.POST("/cameras", h.CreateCamera)
	router.PUT("/cameras/:id", h.UpdateCamera)
	router.DELETE("/cameras/:id", h.DeleteCamera)
	router.POST("/cameras/:id/heartbeat", h.Heartbeat)
	return router
}

func seedRoom(t *testing.T, db *gorm.DB) models.Room {
	t.Helper()

	building := models.Building{Name: "Tank Farm A", Code: "TFA", Status: "active"}
	if err := db.Create(&building).Error; err != nil {
		t.Fatalf("seed building: %v", err)
	}
	room := models.Room{BuildingID: building.ID, Name: "Storage Area 1", Code: "TFA-R01", Status: "active"}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return room
}

func TestCreateCamera(t *testing.T) {
	db := testDB(t)
	room := seedRoom(t, db)
	router := cameraRouter(db)

	w := doJSON(t, router, "POST", "/cameras", map[string]interface{}{
		"room_id":    room.ID,
		"name":       "Camera TFA-R01-C01",
		"code":       "TFA-R01-C01",
		"ip_address": "192.168.1.100",
		"rtsp_url":   "rtsp://192.168.1.100/stream",
		"latitude":   -6.2,
		"longitude":  106.8,
	})
	wantStatus(t, w, http.StatusCreated)

	var camera models.Camera
	decodeJSON(t, w, &camera)
	if camera.Status != "offline" {
		t.Errorf("status = %q, want default %q", camera.Status, "offline")
	}
	if camera.LastPing != nil {
		t.Error("new camera has a last_ping, want nil until first heartbeat")
	}
}

func TestCreateCameraDuplicateCode(t *testing.T) {
	db := testDB(t)
	room := seedRoom(t, db)
	router := cameraRouter(db)

	body := map[string]interface{}{
		"room_id":    room.ID,
		"name":       "Camera 1",
		"code":       "DUP-01",
		"ip_address": "192.168.1.100",
		"rtsp_url":   "rtsp://192.168.1.100/stream",
		"latitude":   -6.2,
		"longitude":  106.8,
	}

	w := doJSON(t, router, "POST", "/cameras", body)
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, router, "POST", "/cameras", body)
	wantStatus(t, w, http.StatusUnprocessableEntity)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, w, &resp)
	if _, ok := resp.Fields["code"]; !ok {
		t.Errorf("fields = %v, want message for duplicate code", resp.Fields)
	}
}

func TestCreateCameraRoomMustExist(t *testing.T) {
	db := testDB(t)
	router := cameraRouter(db)

	w := doJSON(t, router, "POST", "/cameras", map[string]interface{}{
		"room_id":    999,
		"name":       "Orphan",
		"code":       "ORPHAN-01",
		"ip_address": "192.168.1.100",
		"rtsp_url":   "rtsp://192.168.1.100/stream",
		"latitude":   -6.2,
		"longitude":  106.8,
	})
	wantStatus(t, w, http.StatusNotFound)
}

func TestHeartbeatStampsPingAndStatus(t *testing.T) {
	db := testDB(t)
	room := seedRoom(t, db)
	router := cameraRouter(db)

	camera := models.Camera{RoomID: room.ID, Name: "C1", Code: "HB-01", IPAddress: "10.0.0.1", RTSPUrl: "rtsp://10.0.0.1", Status: "offline"}
	if err := db.Create(&camera).Error; err != nil {
		t.Fatalf("seed camera: %v", err)
	}

	w := doJSON(t, router, "POST", fmt.Sprintf("/cameras/%d/heartbeat", camera.ID), nil)
	wantStatus(t, w, http.StatusOK)

	var updated models.Camera
	decodeJSON(t, w, &updated)
	if updated.Status != "online" {
		t.Errorf("status after bare heartbeat = %q, want %q", updated.Status, "online")
	}
	if updated.LastPing == nil {
		t.Error("last_ping not stamped by heartbeat")
	}
}

func TestHeartbeatStatusChangeNotifiesAdmins(t *testing.T) {
	db := testDB(t)
	room := seedRoom(t, db)
	router := cameraRouter(db)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Password: "x", Role: "admin", Status: "active"}
	viewer := models.User{Name: "Viewer", Email: "viewer@test.local", Password: "x", Role: "user", Status: "active"}
	for _, u := range []*models.User{&admin, &viewer} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	camera := models.Camera{RoomID: room.ID, Name: "C1", Code: "HB-02", IPAddress: "10.0.0.1", RTSPUrl: "rtsp://10.0.0.1", Status: "online"}
	if err := db.Create(&camera).Error; err != nil {
		t.Fatalf("seed camera: %v", err)
	}

	w := doJSON(t, router, "POST", fmt.Sprintf("/cameras/%d/heartbeat", camera.ID), map[string]interface{}{
		"status": "offline",
	})
	wantStatus(t, w, http.StatusOK)

	var adminNotifications []models.Notification
	if err := db.Where("user_id = ?", admin.ID).Find(&adminNotifications).Error; err != nil {
		t.Fatalf("fetch notifications: %v", err)
	}
	if len(adminNotifications) != 1 {
		t.Fatalf("admin has %d notifications, want 1", len(adminNotifications))
	}
	if adminNotifications[0].Type != "camera_status" {
		t.Errorf("notification type = %q, want %q", adminNotifications[0].Type, "camera_status")
	}

	var viewerCount int64
	db.Model(&models.Notification{}).Where("user_id = ?", viewer.ID).Count(&viewerCount)
	if viewerCount != 0 {
		t.Errorf("non-admin received %d notifications, want 0", viewerCount)
	}

	// Same-status heartbeat must not notify again
	w = doJSON(t, router, "POST", fmt.Sprintf("/cameras/%d/heartbeat", camera.ID), map[string]interface{}{
		"status": "offline",
	})
	wantStatus(t, w, http.StatusOK)

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", admin.ID).Count(&count)
	if count != 1 {
		t.Errorf("admin has %d notifications after repeat heartbeat, want still 1", count)
	}
}

func TestHeartbeatUnknownCamera(t *testing.T) {
	db := testDB(t)
	router := cameraRouter(db)

	w := doJSON(t, router, "POST", "/cameras/404/heartbeat", nil)
	wantStatus(t, w, http.StatusNotFound)
}

func TestGetCamerasIncludesRollupAndNames(t *testing.T) {
	db := testDB(t)
	room := seedRoom(t, db)
	router := cameraRouter(db)

	cameras := []models.Camera{
		{RoomID: room.ID, Name: "C1", Code: "L-01", IPAddress: "10.0.0.1", RTSPUrl: "rtsp://10.0.0.1", Status: "online"},
		{RoomID: room.ID, Name: "C2", Code: "L-02", IPAddress: "10.0.0.2", RTSPUrl: "rtsp://10.0.0.2", Status: "offline"},
	}
	for i := range cameras {
		if err := db.Create(&cameras[i]).Error; err != nil {
			t.Fatalf("seed camera: %v", err)
		}
	}

	w := doJSON(t, router, "GET", "/cameras", nil)
	wantStatus(t, w, http.StatusOK)

	var resp CameraListResponse
	decodeJSON(t, w, &resp)
	if len(resp.Cameras) != 2 {
		t.Fatalf("got %d cameras, want 2", len(resp.Cameras))
	}
	if resp.Cameras[0].RoomName != "Storage Area 1" {
		t.Errorf("room_name = %q, want %q", resp.Cameras[0].RoomName, "Storage Area 1")
	}
	if resp.Cameras[0].BuildingName != "Tank Farm A" {
		t.Errorf("building_name = %q, want %q", resp.Cameras[0].BuildingName, "Tank Farm A")
	}
	if got, want := resp.Stats, (services.CameraRollup{Total: 2, Online: 1, Offline: 1}); got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}
