package services

import (
	"testing"
	"time"

	"facility-monitoring/be/models"

	"gorm.io/gorm"
)

func seedCamera(t *testing.T, db *gorm.DB, roomID uint, code, status string) {
	t.Helper()
	camera := models.Camera{
		RoomID:    roomID,
		Name:      "Camera " + code,
		Code:      code,
		IPAddress: "192.168.1.1",
		RTSPUrl:   "rtsp://192.168.1.1/stream",
		Status:    status,
	}
	if err := db.Create(&camera).Error; err != nil {
		t.Fatalf("seed camera %s: %v", code, err)
	}
}

func TestCameraStatsGroupedCounts(t *testing.T) {
	db := testDB(t)
	svc := NewStatsService(db)

	building := models.Building{Name: "CDU 1", Code: "CDU1", Status: "active"}
	if err := db.Create(&building).Error; err != nil {
		t.Fatalf("seed building: %v", err)
	}
	room := models.Room{BuildingID: building.ID, Name: "Control Room", Code: "CDU1-R01", Status: "active"}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}

	seedCamera(t, db, room.ID, "CAM-01", "online")
	seedCamera(t, db, room.ID, "CAM-02", "online")
	seedCamera(t, db, room.ID, "CAM-03", "offline")
	seedCamera(t, db, room.ID, "CAM-04", "maintenance")

	got, err := svc.CameraStats()
	if err != nil {
		t.Fatalf("CameraStats() error: %v", err)
	}

	want := CameraRollup{Total: 4, Online: 2, Offline: 1, Maintenance: 1}
	if got != want {
		t.Errorf("CameraStats() = %+v, want %+v", got, want)
	}
}

func TestBuildingStatsEmptyStore(t *testing.T) {
	db := testDB(t)
	svc := NewStatsService(db)

	got, err := svc.BuildingStats()
	if err != nil {
		t.Fatalf("BuildingStats() error: %v", err)
	}
	if got != (ActivityRollup{}) {
		t.Errorf("BuildingStats() on empty store = %+v, want all zeros", got)
	}
}

func TestUserStatsOnlineWindow(t *testing.T) {
	db := testDB(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewStatsService(db).WithClock(func() time.Time { return now })

	recent := now.Add(-10 * time.Minute)
	stale := now.Add(-2 * time.Hour)

	users := []models.User{
		{Name: "Admin", Email: "admin@test.local", Password: "x", Role: "admin", Status: "active", LastLoginAt: &recent},
		{Name: "Fresh", Email: "fresh@test.local", Password: "x", Role: "user", Status: "active", LastLoginAt: &recent},
		{Name: "Stale", Email: "stale@test.local", Password: "x", Role: "user", Status: "active", LastLoginAt: &stale},
		{Name: "Never", Email: "never@test.local", Password: "x", Role: "user", Status: "active"},
		{Name: "Gone", Email: "gone@test.local", Password: "x", Role: "user", Status: "inactive"},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	got, err := svc.UserStats()
	if err != nil {
		t.Fatalf("UserStats() error: %v", err)
	}

	want := UserRollup{Total: 5, Active: 4, Online: 2, Offline: 2}
	if got != want {
		t.Errorf("UserStats() = %+v, want %+v", got, want)
	}
}
