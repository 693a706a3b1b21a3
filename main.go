package main

import (
	"lms/config"
	courseControllers "lms/controllers/course"
	purchaseController "lms/controllers/purchase"
	"lms/database"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	progressRoutes "lms/routers/progressRoutes"
	purchaseRoutes "lms/routers/purchaseRoutes"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// External service adapters
	purchaseController.Gateway = utils.NewStripeGateway()
	courseControllers.Media = utils.NewLocalMediaStore(config.AppConfig.UploadDir)

	// Background sweep for purchases stuck in pending
	scheduler := utils.StartPurchaseScheduler()
	defer scheduler.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders:     "Content-Type,Authorization,Stripe-Signature",
		AllowCredentials: true,
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve locally stored media from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	purchaseRoutes.SetupPurchaseRoutes(app)
	progressRoutes.SetupProgressRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
