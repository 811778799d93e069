package handlers

import (
	"errors"
	"net/http"

	"facility-monitoring/be/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BuildingHandler struct {
	db *gorm.DB
}

func NewBuildingHandler(db *gorm.DB) *BuildingHandler {
	return &BuildingHandler{db: db}
}

type CreateBuildingRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description *string `json:"description"`
	Latitude    float64 `json:"latitude" binding:"required"`
	Longitude   float64 `json:"longitude" binding:"required"`
	Status      string  `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
}

type UpdateBuildingRequest struct {
	Name        *string  `json:"name"`
	Code        *string  `json:"code"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
}

func (h *BuildingHandler) GetBuildings(c *gin.Context) {
	var buildings []models.Building
	if err := h.db.Order("id").Find(&buildings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch buildings"})
		return
	}

	c.JSON(http.StatusOK, buildings)
}

func (h *BuildingHandler) GetBuilding(c *gin.Context) {
	id := c.Param("id")

	var building models.Building
	if err := h.db.First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch building"})
		return
	}

	c.JSON(http.StatusOK, building)
}

func (h *BuildingHandler) CreateBuilding(c *gin.Context) {
	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	building := models.Building{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      status,
	}

	if err := h.db.Create(&building).Error; err != nil {
		if isDuplicateKey(err) {
			respondDuplicateField(c, "code")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create building"})
		return
	}

	c.JSON(http.StatusCreated, building)
}

func (h *BuildingHandler) UpdateBuilding(c *gin.Context) {
	id := c.Param("id")

	var req UpdateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var building models.Building
	if err := h.db.First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch building"})
		return
	}

	if req.Name != nil {
		building.Name = *req.Name
	}
	if req.Code != nil {
		building.Code = *req.Code
	}
	if req.Description != nil {
		building.Description = req.Description
	}
	if req.Latitude != nil {
		building.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		building.Longitude = *req.Longitude
	}
	if req.Status != nil {
		building.Status = *req.Status
	}

	if err := h.db.Save(&building).Error; err != nil {
		if isDuplicateKey(err) {
			respondDuplicateField(c, "code")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update building"})
		return
	}

	c.JSON(http.StatusOK, building)
}

func (h *BuildingHandler) DeleteBuilding(c *gin.Context) {
	id := c.Param("id")

	var building models.Building
	if err := h.db.First(&building, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch building"})
		return
	}

	// Remove descendants explicitly; the store may not have cascading
	// foreign keys configured
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var roomIDs []uint
		if err := tx.Model(&models.Room{}).Where("building_id = ?", building.ID).Pluck("id", &roomIDs).Error; err != nil {
			return err
		}
		if len(roomIDs) > 0 {
			if err := tx.Where("room_id IN ?", roomIDs).Delete(&models.Camera{}).Error; err != nil {
				return err
			}
			if err := tx.Where("building_id = ?", building.ID).Delete(&models.Room{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&building).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete building"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Building deleted successfully"})
}
