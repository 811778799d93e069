package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"facility-monitoring/be/config"
	"facility-monitoring/be/database"
	"facility-monitoring/be/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a refinery demo dataset: process unit buildings with control
// rooms and cameras, an emergency contact directory, and staff users.
// Safe to re-run, it skips seeding when buildings already exist.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var existing int64
	if err := db.Model(&models.Building{}).Count(&existing).Error; err != nil {
		log.Fatalf("Failed to inspect database: %v", err)
	}
	if existing > 0 {
		fmt.Printf("Database already holds %d buildings, skipping seed\n", existing)
		return
	}

	rng := rand.New(rand.NewSource(42))

	buildings := []struct {
		code string
		name string
	}{
		{"CDU1", "Crude Distillation Unit 1"},
		{"CDU2", "Crude Distillation Unit 2"},
		{"HVU", "High Vacuum Unit"},
		{"FCCU", "Fluid Catalytic Cracking Unit"},
		{"NHT", "Naphtha Hydrotreater"},
		{"PLAT", "Platforming Unit"},
		{"KERO", "Kerosene Treating Unit"},
		{"HCU", "Hydrocracker Unit"},
		{"SRU", "Sulfur Recovery Unit"},
		{"UTL", "Utilities Block"},
		{"WWT", "Waste Water Treatment"},
		{"TKF", "Tank Farm"},
		{"JTY", "Jetty and Loading"},
		{"LAB", "Central Laboratory"},
		{"WHS", "Main Warehouse"},
		{"ADM", "Administration Building"},
		{"FST", "Fire Station"},
		{"SEC", "Security Post"},
	}

	cameraSeq := 0
	for i, b := range buildings {
		lat := -6.2000 - float64(i)*0.0013
		lng := 106.8000 + float64(i)*0.0017

		desc := fmt.Sprintf("%s monitoring zone", b.name)
		building := models.Building{
			Name:        b.name,
			Code:        b.code,
			Description: &desc,
			Latitude:    round6(lat),
			Longitude:   round6(lng),
			Status:      weightedStatus(rng),
		}
		if err := db.Create(&building).Error; err != nil {
			log.Fatalf("Failed to seed building %s: %v", b.code, err)
		}

		roomCount := 3 + rng.Intn(3)
		for r := 1; r <= roomCount; r++ {
			room := models.Room{
				BuildingID: building.ID,
				Name:       fmt.Sprintf("%s Room %d", b.name, r),
				Code:       fmt.Sprintf("%s-R%02d", b.code, r),
				Latitude:   round6(lat + float64(r)*0.0001),
				Longitude:  round6(lng + float64(r)*0.0001),
				Status:     weightedStatus(rng),
			}
			if err := db.Create(&room).Error; err != nil {
				log.Fatalf("Failed to seed room %s: %v", room.Code, err)
			}

			camCount := 8 + rng.Intn(5)
			for cam := 1; cam <= camCount; cam++ {
				cameraSeq++
				ip := fmt.Sprintf("192.168.%d.%d", 1+cameraSeq/200, 10+cameraSeq%200)
				status := cameraStatus(rng)

				camera := models.Camera{
					RoomID:    room.ID,
					Name:      fmt.Sprintf("%s Camera %d", room.Name, cam),
					Code:      fmt.Sprintf("%s-C%02d", room.Code, cam),
					IPAddress: ip,
					RTSPUrl:   fmt.Sprintf("rtsp://%s:554/stream1", ip),
					Latitude:  round6(lat + float64(cam)*0.00002),
					Longitude: round6(lng + float64(cam)*0.00002),
					Status:    status,
				}
				if status == models.CameraOnline {
					ping := time.Now().Add(-time.Duration(rng.Intn(120)) * time.Second)
					camera.LastPing = &ping
				}
				if err := db.Create(&camera).Error; err != nil {
					log.Fatalf("Failed to seed camera %s: %v", camera.Code, err)
				}
			}
		}
	}

	seedContacts(db)
	seedUsers(db)

	fmt.Printf("Seed complete: %d buildings, %d cameras\n", len(buildings), cameraSeq)
}

func seedContacts(db *gorm.DB) {
	wa1 := "+62-811-2000-100"
	wa2 := "+62-811-2000-200"
	contacts := []models.Contact{
		{Name: "Budi Santoso", Title: "Shift Supervisor", Email: "budi.santoso@facility.demo", Phone: "+62-21-555-0101", Whatsapp: &wa1, Address: "Control Building, Ground Floor", Status: "active"},
		{Name: "Siti Rahma", Title: "Security Coordinator", Email: "siti.rahma@facility.demo", Phone: "+62-21-555-0102", Whatsapp: &wa2, Address: "Security Post, Main Gate", Status: "active"},
		{Name: "Agus Wijaya", Title: "Maintenance Lead", Email: "agus.wijaya@facility.demo", Phone: "+62-21-555-0103", Address: "Workshop, Utilities Block", Status: "active"},
		{Name: "Fire Response Desk", Title: "Emergency Response", Email: "fire.desk@facility.demo", Phone: "+62-21-555-0911", Address: "Fire Station", Status: "active"},
		{Name: "Medical Post", Title: "On-site Clinic", Email: "medic@facility.demo", Phone: "+62-21-555-0118", Address: "Administration Building, Wing B", Status: "active"},
		{Name: "Dewi Lestari", Title: "Former HSE Officer", Email: "dewi.lestari@facility.demo", Phone: "+62-21-555-0104", Address: "Administration Building", Status: "inactive"},
	}
	for i := range contacts {
		if err := db.Create(&contacts[i]).Error; err != nil {
			log.Fatalf("Failed to seed contact %s: %v", contacts[i].Name, err)
		}
	}
}

func seedUsers(db *gorm.DB) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	names := []string{
		"Andi Pratama", "Rina Kusuma", "Joko Susilo", "Maya Putri",
		"Hendra Gunawan", "Lina Marlina", "Tono Suharto", "Fitri Handayani",
	}
	for i, name := range names {
		user := models.User{
			Name:     name,
			Email:    fmt.Sprintf("staff%d@facility.demo", i+1),
			Password: string(hashed),
			Role:     models.RoleUser,
			Status:   "active",
		}
		if err := db.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
			log.Fatalf("Failed to seed user %s: %v", user.Email, err)
		}
	}
}

func round6(v float64) float64 {
	return float64(int64(v*1e6)) / 1e6
}

// Roughly 80% active, with the remainder split between maintenance
// and inactive.
func weightedStatus(rng *rand.Rand) string {
	switch n := rng.Intn(10); {
	case n < 8:
		return models.StatusActive
	case n == 8:
		return models.StatusMaintenance
	default:
		return models.StatusInactive
	}
}

// Roughly 70% online, 20% offline, 10% maintenance.
func cameraStatus(rng *rand.Rand) string {
	switch n := rng.Intn(10); {
	case n < 7:
		return models.CameraOnline
	case n < 9:
		return models.CameraOffline
	default:
		return models.CameraMaintenance
	}
}
