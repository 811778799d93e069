package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"facility-monitoring/be/config"
	"facility-monitoring/be/middleware"
	"facility-monitoring/be/models"
	"facility-monitoring/be/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db            *gorm.DB
	jwtConfig     config.JWTConfig
	notifications *services.NotificationService
}

func NewAuthHandler(db *gorm.DB, jwtConfig config.JWTConfig, notifications *services.NotificationService) *AuthHandler {
	return &AuthHandler{
		db:            db,
		jwtConfig:     jwtConfig,
		notifications: notifications,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if user.Status != models.StatusActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Stamp the login; this feeds the user online window
	now := time.Now()
	if err := h.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		log.Printf("[Auth] Failed to stamp last login for user %d: %v", user.ID, err)
	}

	if err := h.notifications.RecordLogin(&user); err != nil {
		log.Printf("[Auth] Failed to record login notification for user %d: %v", user.ID, err)
	}

	expiry, err := time.ParseDuration(h.jwtConfig.Expiry)
	if err != nil {
		expiry = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     now.Add(expiry).Unix(),
	})

	tokenString, err := token.SignedString([]byte(h.jwtConfig.Secret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: tokenString,
		User: UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.db.First(&user, principal.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// Stateless JWT: logout is handled client-side by dropping the token
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
