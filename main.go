package main

import (
	"log"

	"emirimo/certificate"
	"emirimo/config"
	"emirimo/database"
	adminRoutes "emirimo/routers/adminRoutes"
	authRoutes "emirimo/routers/authRoutes"
	jobRoutes "emirimo/routers/jobRoutes"
	learningRoutes "emirimo/routers/learningRoutes"
	userRoutes "emirimo/routers/userRoutes"
	"emirimo/socket"
	"emirimo/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	// Certificate issuance pipeline
	generator := certificate.NewGenerator()
	store := certificate.NewArtifactStore()
	youtube := utils.NewYouTubeClient()
	recorder := certificate.NewRecorder(database.Database.Db, generator, store, youtube, config.AppConfig.CertificateSalt)
	downloader := certificate.NewDownloader(database.Database.Db, generator, store)

	// Real-time admin dashboard hub
	hub := socket.NewHub()

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app, hub)
	jobRoutes.SetupJobRoutes(app)
	learningRoutes.SetupLearningRoutes(app, recorder, downloader, youtube, hub)
	adminRoutes.SetupAdminRoutes(app, hub)

	utils.InitializeDashboardScheduler(hub)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
