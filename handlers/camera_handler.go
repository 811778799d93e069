package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"facility-monitoring/be/models"
	"facility-monitoring/be/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type CameraHandler struct {
	db            *gorm.DB
	mediamtx      *services.MediaMTXService
	stats         *services.StatsService
	notifications *services.NotificationService
}

func NewCameraHandler(db *gorm.DB, mediamtx *services.MediaMTXService, stats *services.StatsService, notifications *services.NotificationService) *CameraHandler {
	return &CameraHandler{
		db:            db,
		mediamtx:      mediamtx,
		stats:         stats,
		notifications: notifications,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return origin == "http://localhost:8080" ||
			origin == "http://localhost:5173" ||
			origin == "http://localhost:3000" ||
			origin == "http://127.0.0.1:8080" ||
			origin == "http://127.0.0.1:5173" ||
			origin == "http://127.0.0.1:3000"
	},
	EnableCompression: true,
}

type CreateCameraRequest struct {
	RoomID    uint    `json:"room_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Code      string  `json:"code" binding:"required"`
	IPAddress string  `json:"ip_address" binding:"required"`
	RTSPUrl   string  `json:"rtsp_url" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Status    string  `json:"status" binding:"omitempty,oneof=online offline maintenance"`
	Notes     *string `json:"notes"`
}

type UpdateCameraRequest struct {
	RoomID    *uint    `json:"room_id"`
	Name      *string  `json:"name"`
	Code      *string  `json:"code"`
	IPAddress *string  `json:"ip_address"`
	RTSPUrl   *string  `json:"rtsp_url"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    *string  `json:"status" binding:"omitempty,oneof=online offline maintenance"`
	Notes     *string  `json:"notes"`
}

type HeartbeatRequest struct {
	Status string `json:"status" binding:"omitempty,oneof=online offline maintenance"`
}

// CameraListItem augments a camera with the names of its containing
// room and building, which the camera grid renders alongside each feed.
type CameraListItem struct {
	models.Camera
	RoomName     string `json:"room_name"`
	BuildingName string `json:"building_name"`
}

type CameraListResponse struct {
	Cameras []CameraListItem      `json:"cameras"`
	Stats   services.CameraRollup `json:"stats"`
}

func (h *CameraHandler) GetCameras(c *gin.Context) {
	query := h.db.Order("id")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if roomID := c.Query("room_id"); roomID != "" {
		query = query.Where("room_id = ?", roomID)
	}

	var cameras []models.Camera
	if err := query.Find(&cameras).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cameras"})
		return
	}

	items, err := h.decorateCameras(cameras)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cameras"})
		return
	}

	stats, err := h.stats.CameraStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute camera statistics"})
		return
	}

	c.JSON(http.StatusOK, CameraListResponse{Cameras: items, Stats: stats})
}

// decorateCameras resolves room and building names in two batched
// lookups instead of one join per row.
func (h *CameraHandler) decorateCameras(cameras []models.Camera) ([]CameraListItem, error) {
	roomIDs := make([]uint, 0, len(cameras))
	seen := make(map[uint]bool, len(cameras))
	for _, camera := range cameras {
		if !seen[camera.RoomID] {
			seen[camera.RoomID] = true
			roomIDs = append(roomIDs, camera.RoomID)
		}
	}

	rooms := make(map[uint]models.Room, len(roomIDs))
	buildings := make(map[uint]models.Building)
	if len(roomIDs) > 0 {
		var roomRows []models.Room
		if err := h.db.Where("id IN ?", roomIDs).Find(&roomRows).Error; err != nil {
			return nil, err
		}
		buildingIDs := make([]uint, 0, len(roomRows))
		for _, room := range roomRows {
			rooms[room.ID] = room
			buildingIDs = append(buildingIDs, room.BuildingID)
		}

		var buildingRows []models.Building
		if err := h.db.Where("id IN ?", buildingIDs).Find(&buildingRows).Error; err != nil {
			return nil, err
		}
		for _, building := range buildingRows {
			buildings[building.ID] = building
		}
	}

	items := make([]CameraListItem, 0, len(cameras))
	for _, camera := range cameras {
		item := CameraListItem{Camera: camera}
		if room, ok := rooms[camera.RoomID]; ok {
			item.RoomName = room.Name
			if building, ok := buildings[room.BuildingID]; ok {
				item.BuildingName = building.Name
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (h *CameraHandler) GetCamera(c *gin.Context) {
	id := c.Param("id")

	var camera models.Camera
	if err := h.db.First(&camera, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch camera"})
		return
	}

	c.JSON(http.StatusOK, camera)
}

func (h *CameraHandler) CreateCamera(c *gin.Context) {
	var req CreateCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var room models.Room
	if err := h.db.First(&room, req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.CameraOffline
	}

	camera := models.Camera{
		RoomID:    req.RoomID,
		Name:      req.Name,
		Code:      req.Code,
		IPAddress: req.IPAddress,
		RTSPUrl:   req.RTSPUrl,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    status,
		Notes:     req.Notes,
	}

	if err := h.db.Create(&camera).Error; err != nil {
		if isDuplicateKey(err) {
			respondDuplicateField(c, "code")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create camera"})
		return
	}

	c.JSON(http.StatusCreated, camera)
}

func (h *CameraHandler) UpdateCamera(c *gin.Context) {
	id := c.Param("id")

	var req UpdateCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var camera models.Camera
	if err := h.db.First(&camera, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch camera"})
		return
	}

	if req.RoomID != nil {
		var room models.Room
		if err := h.db.First(&room, *req.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
			return
		}
		camera.RoomID = *req.RoomID
	}
	if req.Name != nil {
		camera.Name = *req.Name
	}
	if req.Code != nil {
		camera.Code = *req.Code
	}
	if req.IPAddress != nil {
		camera.IPAddress = *req.IPAddress
	}
	if req.RTSPUrl != nil {
		camera.RTSPUrl = *req.RTSPUrl
	}
	if req.Latitude != nil {
		camera.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		camera.Longitude = *req.Longitude
	}
	if req.Status != nil {
		camera.Status = *req.Status
	}
	if req.Notes != nil {
		camera.Notes = req.Notes
	}

	if err := h.db.Save(&camera).Error; err != nil {
		if isDuplicateKey(err) {
			respondDuplicateField(c, "code")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update camera"})
		return
	}

	c.JSON(http.StatusOK, camera)
}

func (h *CameraHandler) DeleteCamera(c *gin.Context) {
	id := c.Param("id")

	var camera models.Camera
	if err := h.db.First(&camera, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch camera"})
		return
	}

	if err := h.db.Delete(&camera).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete camera"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Camera deleted successfully"})
}

// Heartbeat ingests a liveness ping from a camera or its poller. Stamps
// last_ping, applies the reported status (online when the body carries
// none), and notifies admins on a status transition.
func (h *CameraHandler) Heartbeat(c *gin.Context) {
	id := c.Param("id")

	// Body is optional; a bare POST means "alive and online"
	var req HeartbeatRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
	}

	var camera models.Camera
	if err := h.db.First(&camera, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch camera"})
		return
	}

	previousStatus := camera.Status
	now := time.Now()
	camera.LastPing = &now
	if req.Status != "" {
		camera.Status = req.Status
	} else {
		camera.Status = models.CameraOnline
	}

	if err := h.db.Save(&camera).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record heartbeat"})
		return
	}

	if camera.Status != previousStatus {
		if err := h.notifications.NotifyCameraStatusChange(&camera, previousStatus); err != nil {
			log.Printf("[Heartbeat] Failed to notify status change for camera %d: %v", camera.ID, err)
		}
	}

	c.JSON(http.StatusOK, camera)
}

// GetStreamURL provisions the camera's MediaMTX path and returns the
// HLS URL, persisting it on the record so tree payloads carry it.
func (h *CameraHandler) GetStreamURL(c *gin.Context) {
	id := c.Param("id")

	var camera models.Camera
	if err := h.db.First(&camera, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch camera"})
		return
	}

	hlsURL, err := h.mediamtx.StartStream(camera.ID, camera.Code, camera.RTSPUrl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to configure stream: " + err.Error()})
		return
	}

	if camera.HLSUrl == nil || *camera.HLSUrl != hlsURL {
		if err := h.db.Model(&camera).Update("hls_url", hlsURL).Error; err != nil {
			log.Printf("[Stream] Failed to persist HLS URL for camera %d: %v", camera.ID, err)
		}
	}

	isHealthy, _ := h.mediamtx.StreamHealth(camera.ID)

	c.JSON(http.StatusOK, gin.H{
		"hls_url":    hlsURL,
		"camera_id":  camera.ID,
		"is_healthy": isHealthy,
	})
}

func (h *CameraHandler) GetStreamHealth(c *gin.Context) {
	id := c.Param("id")

	var camera models.Camera
	if err := h.db.First(&camera, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch camera"})
		return
	}

	isHealthy, err := h.mediamtx.StreamHealth(camera.ID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"camera_id":  camera.ID,
			"is_healthy": false,
			"error":      err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"camera_id":  camera.ID,
		"is_healthy": isHealthy,
	})
}

// statusFeedInterval is how often the websocket feed pushes a fresh
// snapshot to each connected client.
const statusFeedInterval = 5 * time.Second

type statusFeedFrame struct {
	Stats   services.CameraRollup `json:"stats"`
	Cameras []cameraStatusEntry   `json:"cameras"`
}

type cameraStatusEntry struct {
	ID       uint       `json:"id"`
	Code     string     `json:"code"`
	Status   string     `json:"status"`
	LastPing *time.Time `json:"last_ping"`
}

// StatusFeed upgrades to a websocket and pushes camera status snapshots
// until the client goes away. Each frame is read fresh from the store;
// nothing is cached between pushes.
func (h *CameraHandler) StatusFeed(c *gin.Context) {
	if _, ok := c.Get("user_id"); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[StatusFeed] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Drain control frames so pings and close get processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statusFeedInterval)
	defer ticker.Stop()

	for {
		frame, err := h.statusFrame()
		if err != nil {
			log.Printf("[StatusFeed] Failed to build status frame: %v", err)
			return
		}

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(frame); err != nil {
			return
		}

		<-ticker.C
	}
}

func (h *CameraHandler) statusFrame() (*statusFeedFrame, error) {
	stats, err := h.stats.CameraStats()
	if err != nil {
		return nil, err
	}

	var cameras []models.Camera
	if err := h.db.Select("id", "code", "status", "last_ping").Order("id").Find(&cameras).Error; err != nil {
		return nil, err
	}

	entries := make([]cameraStatusEntry, 0, len(cameras))
	for _, camera := range cameras {
		entries = append(entries, cameraStatusEntry{
			ID:       camera.ID,
			Code:     camera.Code,
			Status:   camera.Status,
			LastPing: camera.LastPing,
		})
	}

	return &statusFeedFrame{Stats: stats, Cameras: entries}, nil
}
