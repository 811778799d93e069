package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"facility-monitoring/be/middleware"
	"facility-monitoring/be/models"
	"facility-monitoring/be/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func userRouter(db *gorm.DB, principal middleware.Principal) *gin.Engine {
	stats := services.NewStatsService(db)
	h := NewUserHandler(db, stats)

	router := testRouter(principal)
	admin := router.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", h.GetUsers)
		admin.POST("/users", h.CreateUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
	}
	return router
}

func TestUsersRequireAdminRole(t *testing.T) {
	db := testDB(t)
	router := userRouter(db, middleware.Principal{UserID: 2, Role: "user"})

	w := doJSON(t, router, "GET", "/users", nil)
	wantStatus(t, w, http.StatusForbidden)
}

func TestGetUsersOnlineFlags(t *testing.T) {
	db := testDB(t)

	recent := time.Now().Add(-5 * time.Minute)
	stale := time.Now().Add(-2 * time.Hour)
	users := []models.User{
		{Name: "Admin", Email: "admin@test.local", Password: "x", Role: "admin", Status: "active", LastLoginAt: &recent},
		{Name: "Operator", Email: "op@test.local", Password: "x", Role: "user", Status: "active", LastLoginAt: &stale},
		{Name: "Newcomer", Email: "new@test.local", Password: "x", Role: "user", Status: "active"},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	router := userRouter(db, middleware.Principal{UserID: users[0].ID, Role: "admin"})
	w := doJSON(t, router, "GET", "/users", nil)
	wantStatus(t, w, http.StatusOK)

	var resp UserListResponse
	decodeJSON(t, w, &resp)
	if len(resp.Users) != 3 {
		t.Fatalf("got %d users, want 3", len(resp.Users))
	}

	wantOnline := map[string]bool{
		"admin@test.local": true,
		"op@test.local":    false,
		"new@test.local":   false,
	}
	for _, item := range resp.Users {
		if item.IsOnline != wantOnline[item.Email] {
			t.Errorf("is_online for %s = %v, want %v", item.Email, item.IsOnline, wantOnline[item.Email])
		}
	}

	if resp.Stats.Admins != 1 {
		t.Errorf("stats.admins = %d, want 1", resp.Stats.Admins)
	}
	if resp.Stats.Online != 1 {
		t.Errorf("stats.online = %d, want 1", resp.Stats.Online)
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	db := testDB(t)
	router := userRouter(db, middleware.Principal{UserID: 1, Role: "admin"})

	w := doJSON(t, router, "POST", "/users", map[string]interface{}{
		"name":     "New Operator",
		"email":    "newop@test.local",
		"password": "secret123",
	})
	wantStatus(t, w, http.StatusCreated)

	var user models.User
	if err := db.Where("email = ?", "newop@test.local").First(&user).Error; err != nil {
		t.Fatalf("fetch created user: %v", err)
	}
	if user.Role != "user" {
		t.Errorf("role = %q, want default %q", user.Role, "user")
	}
	if user.Password == "secret123" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testDB(t)
	router := userRouter(db, middleware.Principal{UserID: 1, Role: "admin"})

	body := map[string]interface{}{
		"name":     "First",
		"email":    "dup@test.local",
		"password": "secret123",
	}
	w := doJSON(t, router, "POST", "/users", body)
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, router, "POST", "/users", body)
	wantStatus(t, w, http.StatusUnprocessableEntity)
}

func TestDeleteOwnAccountRejected(t *testing.T) {
	db := testDB(t)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Password: "x", Role: "admin", Status: "active"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	router := userRouter(db, middleware.Principal{UserID: admin.ID, Role: "admin"})
	w := doJSON(t, router, "DELETE", fmt.Sprintf("/users/%d", admin.ID), nil)
	wantStatus(t, w, http.StatusUnprocessableEntity)
}

func TestDeleteUserRemovesNotifications(t *testing.T) {
	db := testDB(t)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Password: "x", Role: "admin", Status: "active"}
	target := models.User{Name: "Target", Email: "target@test.local", Password: "x", Role: "user", Status: "active"}
	for _, u := range []*models.User{&admin, &target} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	n := models.Notification{UserID: target.ID, Title: "A", Message: "b", Type: "system"}
	if err := db.Create(&n).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	router := userRouter(db, middleware.Principal{UserID: admin.ID, Role: "admin"})
	w := doJSON(t, router, "DELETE", fmt.Sprintf("/users/%d", target.ID), nil)
	wantStatus(t, w, http.StatusOK)

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Errorf("orphaned notifications after delete = %d, want 0", count)
	}
}
