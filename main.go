package main

import (
	"log"
	"os"

	"facility-monitoring/be/config"
	"facility-monitoring/be/database"
	"facility-monitoring/be/handlers"
	"facility-monitoring/be/middleware"
	"facility-monitoring/be/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Services
	mediamtxService := services.NewMediaMTXService(cfg.MediaMTX)
	statsService := services.NewStatsService(db)
	mapService := services.NewMapService(db)
	notificationService := services.NewNotificationService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, cfg.JWT, notificationService)
	dashboardHandler := handlers.NewDashboardHandler(statsService, notificationService)
	mapHandler := handlers.NewMapHandler(mapService, statsService)
	buildingHandler := handlers.NewBuildingHandler(db)
	roomHandler := handlers.NewRoomHandler(db)
	cameraHandler := handlers.NewCameraHandler(db, mediamtxService, statsService, notificationService)
	contactHandler := handlers.NewContactHandler(db)
	userHandler := handlers.NewUserHandler(db, statsService)
	notificationHandler := handlers.NewNotificationHandler(db, notificationService)

	router := setupRouter(routerDeps{
		auth:          authHandler,
		dashboard:     dashboardHandler,
		maps:          mapHandler,
		buildings:     buildingHandler,
		rooms:         roomHandler,
		cameras:       cameraHandler,
		contacts:      contactHandler,
		users:         userHandler,
		notifications: notificationHandler,
	}, cfg)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

type routerDeps struct {
	auth          *handlers.AuthHandler
	dashboard     *handlers.DashboardHandler
	maps          *handlers.MapHandler
	buildings     *handlers.BuildingHandler
	rooms         *handlers.RoomHandler
	cameras       *handlers.CameraHandler
	contacts      *handlers.ContactHandler
	users         *handlers.UserHandler
	notifications *handlers.NotificationHandler
}

func setupRouter(deps routerDeps, cfg *config.Config) *gin.Engine {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(middleware.RequestID())

	// CORS configuration
	// Allow all localhost origins for development
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			// Allow requests with no origin (like mobile apps or curl requests)
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
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", deps.auth.Login)
		}
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		protected.GET("/auth/me", deps.auth.GetMe)
		protected.POST("/auth/logout", deps.auth.Logout)

		protected.GET("/dashboard", deps.dashboard.Index)

		protected.GET("/maps", deps.maps.Index)

		buildings := protected.Group("/buildings")
		{
			buildings.GET("", deps.buildings.GetBuildings)
			buildings.GET("/:id", deps.maps.ShowBuilding)
			buildings.POST("", deps.buildings.CreateBuilding)
			buildings.PUT("/:id", deps.buildings.UpdateBuilding)
			buildings.DELETE("/:id", deps.buildings.DeleteBuilding)
		}

		rooms := protected.Group("/rooms")
		{
			rooms.GET("", deps.rooms.GetRooms)
			rooms.GET("/:id", deps.rooms.GetRoom)
			rooms.POST("", deps.rooms.CreateRoom)
			rooms.PUT("/:id", deps.rooms.UpdateRoom)
			rooms.DELETE("/:id", deps.rooms.DeleteRoom)
		}

		cameras := protected.Group("/cameras")
		{
			cameras.GET("", deps.cameras.GetCameras)
			cameras.GET("/status/ws", deps.cameras.StatusFeed)
			cameras.GET("/:id", deps.cameras.GetCamera)
			cameras.POST("", deps.cameras.CreateCamera)
			cameras.PUT("/:id", deps.cameras.UpdateCamera)
			cameras.DELETE("/:id", deps.cameras.DeleteCamera)
			cameras.POST("/:id/heartbeat", deps.cameras.Heartbeat)
			cameras.GET("/:id/stream", deps.cameras.GetStreamURL)
			cameras.GET("/:id/stream/health", deps.cameras.GetStreamHealth)
		}

		contacts := protected.Group("/contacts")
		{
			contacts.GET("", deps.contacts.GetContacts)
			contacts.GET("/:id", deps.contacts.GetContact)
			contacts.POST("", deps.contacts.CreateContact)
			contacts.PUT("/:id", deps.contacts.UpdateContact)
			contacts.DELETE("/:id", deps.contacts.DeleteContact)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", deps.notifications.GetNotifications)
			notifications.PUT("/read-all", deps.notifications.MarkAllRead)
			notifications.PUT("/:id/read", deps.notifications.MarkRead)
		}

		// Admin-only routes
		users := protected.Group("/users")
		users.Use(middleware.RequireAdmin())
		{
			users.GET("", deps.users.GetUsers)
			users.GET("/:id", deps.users.GetUser)
			users.POST("", deps.users.CreateUser)
			users.PUT("/:id", deps.users.UpdateUser)
			users.DELETE("/:id", deps.users.DeleteUser)
		}
	}

	return router
}
