package userRoutes

import (
	userController "emirimo/controllers/userControllers"
	"emirimo/middleware"
	"emirimo/socket"
	"emirimo/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile routes
func SetupUserRoutes(app *fiber.App, b socket.Broadcaster) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userController.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, userValidator.UpdateProfile(), userController.UpdateProfile(b))
	userGroup.Post("/profile/image", middleware.JWTMiddleware, userController.UploadProfileImage)
}
