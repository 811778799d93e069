package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"facility-monitoring/be/services"

	"github.com/gin-gonic/gin"
)

type MapHandler struct {
	maps  *services.MapService
	stats *services.StatsService
}

func NewMapHandler(maps *services.MapService, stats *services.StatsService) *MapHandler {
	return &MapHandler{maps: maps, stats: stats}
}

type MapResponse struct {
	Buildings   []services.BuildingNode `json:"buildings"`
	CameraStats services.CameraRollup   `json:"camera_stats"`
}

// Index returns every building tree plus the camera rollup driving the
// map legend.
func (h *MapHandler) Index(c *gin.Context) {
	buildings, err := h.maps.BuildingTrees()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch buildings"})
		return
	}

	cameraStats, err := h.stats.CameraStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute camera statistics"})
		return
	}

	c.JSON(http.StatusOK, MapResponse{
		Buildings:   buildings,
		CameraStats: cameraStats,
	})
}

// ShowBuilding returns the detail tree for one building. An id that was
// never created is a 404, not an empty tree.
func (h *MapHandler) ShowBuilding(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid building id"})
		return
	}

	building, err := h.maps.BuildingByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBuildingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch building"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"building": building})
}
