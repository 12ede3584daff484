package main

import (
	"log"
	"time"

	"github.com/HungNM1486/be-iot-farm-ptit/config"
	"github.com/HungNM1486/be-iot-farm-ptit/controllers"
	"github.com/HungNM1486/be-iot-farm-ptit/middlewares"
	"github.com/HungNM1486/be-iot-farm-ptit/services"
	"github.com/HungNM1486/be-iot-farm-ptit/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Connect to PostgreSQL database
	dsn := config.Getenv("DATABASE_URL", "")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Set the global DB in the config package and migrate models
	controllers.MigrateModels(db)

	// Start the websocket broadcast hub
	hub := ws.NewHub()
	go hub.Run()

	// Connect to the MQTT broker and subscribe to sensor topics.
	// Reconnects are handled by the client, so a failed first attempt is
	// logged but does not stop the server.
	gateway := services.NewGateway(db, hub)
	if err := gateway.Connect(config.Getenv("MQTT_URL", "mqtt://localhost:1883")); err != nil {
		log.Printf("MQTT connection failed, retrying in background: %v", err)
	}

	// Load the disease prediction model in the background; uploads are
	// rejected with "not ready" until it finishes.
	model := services.NewModelClient(config.Getenv("MODEL_URL", "http://localhost:5000"))
	go func() {
		if err := model.LoadModel(); err != nil {
			log.Printf("Failed to load prediction model: %v", err)
		}
	}()

	pipeline := &services.DiseasePipeline{
		DB:         db,
		Hub:        hub,
		Classifier: model,
		UploadDir:  "uploads/camera",
	}

	controllers.Setup(hub, gateway, pipeline)

	// Scan for tomorrow's care tasks twice a day
	scheduler := cron.New()
	scheduler.AddFunc("0 7,19 * * *", func() {
		count, err := services.ScanUpcomingTasks(db, hub, time.Now())
		if err != nil {
			log.Printf("Care task scan failed: %v", err)
			return
		}
		log.Printf("Care task scan created %d reminders", count)
	})
	scheduler.Start()

	// Set up Gin router with CORS configuration
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	// Static serving of uploaded camera images
	r.Static("/uploads", "./uploads")

	// Public routes
	r.POST("/auth/signup", controllers.Signup)
	r.POST("/auth/login", controllers.Login)
	r.POST("/api/camera/upload", controllers.UploadCameraImage)
	r.GET("/api/predictions/:id", controllers.GetPrediction)

	// Protected routes using auth middleware
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/ws", controllers.HandleWebSocket)
	auth.GET("/api/profile", controllers.GetProfile)

	auth.POST("/api/locations", controllers.CreateLocation)
	auth.GET("/api/locations", controllers.GetLocations)
	auth.GET("/api/locations/:id", controllers.GetLocation)
	auth.PUT("/api/locations/:id", controllers.UpdateLocation)
	auth.DELETE("/api/locations/:id", controllers.DeleteLocation)

	auth.POST("/api/plants", controllers.CreatePlant)
	auth.GET("/api/plants", controllers.GetPlants)
	auth.GET("/api/plants/:id", controllers.GetPlant)
	auth.PUT("/api/plants/:id", controllers.UpdatePlant)
	auth.DELETE("/api/plants/:id", controllers.DeletePlant)

	auth.POST("/api/caretask", controllers.CreateCareTask)
	auth.GET("/api/caretask", controllers.GetCareTasks)
	auth.GET("/api/caretask/:id", controllers.GetCareTask)
	auth.PUT("/api/caretask/:id", controllers.UpdateCareTask)
	auth.DELETE("/api/caretask/:id", controllers.DeleteCareTask)

	auth.GET("/api/sensors/alert-settings", controllers.GetAlertSettings)
	auth.PUT("/api/sensors/alert-settings", controllers.UpdateAlertSettings)
	auth.POST("/api/sensors/config", controllers.SendDeviceConfig)

	auth.GET("/api/notifications/unread", controllers.GetUnreadNotifications)
	auth.PUT("/api/notifications/:id/read", controllers.MarkNotificationRead)

	port := config.Getenv("PORT", "8080")
	r.Run(":" + port)
}
