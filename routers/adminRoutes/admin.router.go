package adminRoutes

import (
	adminController "emirimo/controllers/admin"
	"emirimo/middleware"
	"emirimo/socket"
	adminValidator "emirimo/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the admin dashboard REST surface and the
// websocket endpoint feeding it real-time updates
func SetupAdminRoutes(app *fiber.App, hub *socket.Hub) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	adminGroup.Get("/dashboard/stats", adminController.GetDashboardStats)

	adminGroup.Get("/users", adminValidator.UserList(), adminController.ListUsers)
	adminGroup.Put("/users/:id/status", adminValidator.UserStatus(), adminController.UpdateUserStatus(hub))
	adminGroup.Delete("/users/:id", adminController.DeleteUser(hub))

	adminGroup.Get("/jobs", adminValidator.JobList(), adminController.ListJobs)
	adminGroup.Put("/jobs/:id/status", adminValidator.JobStatus(), adminController.UpdateJobStatus(hub))

	adminGroup.Get("/notifications", adminController.ListNotifications)
	adminGroup.Post("/notifications", adminValidator.Notification(), adminController.CreateNotification(hub))
	adminGroup.Put("/notifications/:notificationId", adminValidator.Notification(), adminController.UpdateNotification(hub))
	adminGroup.Delete("/notifications/:notificationId", adminController.DeleteNotification(hub))

	// Websocket upgrade; browsers pass the bearer token as ?token=
	app.Get("/ws/admin", middleware.WSAuthMiddleware, middleware.RequireRole("ADMIN"), hub.UpgradeCheck, hub.Handler())
}
