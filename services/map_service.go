package services

import (
	"errors"
	"time"

	"facility-monitoring/be/models"

	"gorm.io/gorm"
)

var ErrBuildingNotFound = errors.New("building not found")

// MapService shapes the building -> room -> camera tree consumed by the
// map views. Children are always ordered by primary key so repeated
// requests return identical payloads; map UI code indexes into children
// positionally.
type MapService struct {
	db *gorm.DB
}

func NewMapService(db *gorm.DB) *MapService {
	return &MapService{db: db}
}

type CameraNode struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Status    string  `json:"status"`
	IPAddress string  `json:"ip_address"`
	HLSUrl    *string `json:"hls_url"`
	LastPing  *string `json:"last_ping"`
}

type CameraDetailNode struct {
	CameraNode
	Notes *string `json:"notes"`
}

type RoomNode struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Code      string       `json:"code"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Status    string       `json:"status"`
	Cameras   []CameraNode `json:"cameras"`
}

type RoomDetailNode struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Code      string             `json:"code"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Status    string             `json:"status"`
	Cameras   []CameraDetailNode `json:"cameras"`
}

type BuildingNode struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Status      string     `json:"status"`
	RoomCount   int        `json:"room_count"`
	CameraCount int        `json:"camera_count"`
	Rooms       []RoomNode `json:"rooms"`
}

type BuildingDetail struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Code        string           `json:"code"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Status      string           `json:"status"`
	Description *string          `json:"description"`
	Rooms       []RoomDetailNode `json:"rooms"`
}

// BuildingTrees returns every building with its nested rooms and
// cameras shaped for the map index.
func (s *MapService) BuildingTrees() ([]BuildingNode, error) {
	buildings, err := s.loadBuildings(nil)
	if err != nil {
		return nil, err
	}

	nodes := make([]BuildingNode, 0, len(buildings))
	for i := range buildings {
		nodes = append(nodes, shapeBuilding(&buildings[i]))
	}
	return nodes, nil
}

// BuildingByID returns the detail tree for one building, including its
// description and camera notes. Returns ErrBuildingNotFound when the id
// does not exist; a building with zero rooms is a valid result.
func (s *MapService) BuildingByID(id uint) (*BuildingDetail, error) {
	buildings, err := s.loadBuildings(&id)
	if err != nil {
		return nil, err
	}
	if len(buildings) == 0 {
		return nil, ErrBuildingNotFound
	}

	detail := shapeBuildingDetail(&buildings[0])
	return &detail, nil
}

func (s *MapService) loadBuildings(id *uint) ([]models.Building, error) {
	query := s.db.
		Preload("Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("rooms.id")
		}).
		Preload("Rooms.Cameras", func(db *gorm.DB) *gorm.DB {
			return db.Order("cameras.id")
		}).
		Order("buildings.id")

	var buildings []models.Building
	if id != nil {
		query = query.Where("buildings.id = ?", *id)
	}
	if err := query.Find(&buildings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}
	return buildings, nil
}

func shapeBuilding(b *models.Building) BuildingNode {
	node := BuildingNode{
		ID:        b.ID,
		Name:      b.Name,
		Code:      b.Code,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		Status:    b.Status,
		RoomCount: len(b.Rooms),
		Rooms:     make([]RoomNode, 0, len(b.Rooms)),
	}

	for i := range b.Rooms {
		room := &b.Rooms[i]
		node.CameraCount += len(room.Cameras)

		roomNode := RoomNode{
			ID:        room.ID,
			Name:      room.Name,
			Code:      room.Code,
			Latitude:  room.Latitude,
			Longitude: room.Longitude,
			Status:    room.Status,
			Cameras:   make([]CameraNode, 0, len(room.Cameras)),
		}
		for j := range room.Cameras {
			roomNode.Cameras = append(roomNode.Cameras, shapeCamera(&room.Cameras[j]))
		}
		node.Rooms = append(node.Rooms, roomNode)
	}

	return node
}

func shapeBuildingDetail(b *models.Building) BuildingDetail {
	detail := BuildingDetail{
		ID:          b.ID,
		Name:        b.Name,
		Code:        b.Code,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		Status:      b.Status,
		Description: b.Description,
		Rooms:       make([]RoomDetailNode, 0, len(b.Rooms)),
	}

	for i := range b.Rooms {
		room := &b.Rooms[i]
		roomNode := RoomDetailNode{
			ID:        room.ID,
			Name:      room.Name,
			Code:      room.Code,
			Latitude:  room.Latitude,
			Longitude: room.Longitude,
			Status:    room.Status,
			Cameras:   make([]CameraDetailNode, 0, len(room.Cameras)),
		}
		for j := range room.Cameras {
			camera := &room.Cameras[j]
			roomNode.Cameras = append(roomNode.Cameras, CameraDetailNode{
				CameraNode: shapeCamera(camera),
				Notes:      camera.Notes,
			})
		}
		detail.Rooms = append(detail.Rooms, roomNode)
	}

	return detail
}

func shapeCamera(c *models.Camera) CameraNode {
	return CameraNode{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Status:    c.Status,
		IPAddress: c.IPAddress,
		HLSUrl:    c.HLSUrl,
		LastPing:  formatTimestamp(c.LastPing),
	}
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
