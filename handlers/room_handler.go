package handlers

import (
	"errors"
	"net/http"

	"facility-monitoring/be/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoomHandler struct {
	db *gorm.DB
}

func NewRoomHandler(db *gorm.DB) *RoomHandler {
	return &RoomHandler{db: db}
}

type CreateRoomRequest struct {
	BuildingID  uint    `json:"building_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description *string `json:"description"`
	Latitude    float64 `json:"latitude" binding:"required"`
	Longitude   float64 `json:"longitude" binding:"required"`
	Status      string  `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
}

type UpdateRoomRequest struct {
	Name        *string  `json:"name"`
	Code        *string  `json:"code"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
}

func (h *RoomHandler) GetRooms(c *gin.Context) {
	query := h.db.Order("id")
	if buildingID := c.Query("building_id"); buildingID != "" {
		query = query.Where("building_id = ?", buildingID)
	}

	var rooms []models.Room
	if err := query.Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	id := c.Param("id")

	var room models.Room
	if err := h.db.Preload("Cameras", func(db *gorm.DB) *gorm.DB {
		return db.Order("cameras.id")
	}).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	// The parent building must exist; a dangling room would never show
	// up in any tree
	var building models.Building
	if err := h.db.First(&building, req.BuildingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch building"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	room := models.Room{
		BuildingID:  req.BuildingID,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      status,
	}

	if err := h.db.Create(&room).Error; err != nil {
		if isDuplicateKey(err) {
			respondDuplicateField(c, "code")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id := c.Param("id")

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var room models.Room
	if err := h.db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		return
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Code != nil {
		room.Code = *req.Code
	}
	if req.Description != nil {
		room.Description = req.Description
	}
	if req.Latitude != nil {
		room.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		room.Longitude = *req.Longitude
	}
	if req.Status != nil {
		room.Status = *req.Status
	}

	if err := h.db.Save(&room).Error; err != nil {
		if isDuplicateKey(err) {
			respondDuplicateField(c, "code")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id := c.Param("id")

	var room models.Room
	if err := h.db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Camera{}).Error; err != nil {
			return err
		}
		return tx.Delete(&room).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
