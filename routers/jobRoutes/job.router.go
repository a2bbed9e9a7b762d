package jobRoutes

import (
	jobController "emirimo/controllers/job"
	"emirimo/middleware"
	jobValidator "emirimo/validators/job"

	"github.com/gofiber/fiber/v2"
)

// SetupJobRoutes sets up the job marketplace routes
func SetupJobRoutes(app *fiber.App) {
	jobGroup := app.Group("/job")

	jobGroup.Get("/list", middleware.JWTMiddleware, jobValidator.JobList(), jobController.GetAllJobs)
	jobGroup.Get("/:id", middleware.JWTMiddleware, jobController.GetJobDetails)
	jobGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole("EMPLOYER"), jobValidator.CreateJob(), jobController.CreateJob)
}
