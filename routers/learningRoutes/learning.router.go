package learningRoutes

import (
	"emirimo/certificate"
	learningController "emirimo/controllers/learning"
	"emirimo/middleware"
	"emirimo/socket"
	"emirimo/utils"
	learningValidator "emirimo/validators/learning"

	"github.com/gofiber/fiber/v2"
)

// SetupLearningRoutes sets up the learning resource and certificate routes
func SetupLearningRoutes(app *fiber.App, recorder *certificate.Recorder, downloader *certificate.Downloader, yt *utils.YouTubeClient, b socket.Broadcaster) {
	learningGroup := app.Group("/learning")

	// Resource catalog
	learningGroup.Get("/list", middleware.JWTMiddleware, learningValidator.ResourceList(), learningController.GetLearningResources)
	learningGroup.Get("/completed", middleware.JWTMiddleware, learningController.GetCompletedResources)

	// Certificates
	learningGroup.Get("/certificates/:certificateId/download", middleware.JWTMiddleware, learningValidator.CertificateID(), learningController.DownloadCertificate(downloader))

	// Resource detail and completion (keep after the static paths so
	// "/completed" is not captured as an id)
	learningGroup.Get("/:id", middleware.JWTMiddleware, learningValidator.ResourceRef(), learningController.GetLearningResource(yt))
	learningGroup.Post("/:id/complete", middleware.JWTMiddleware, learningValidator.ResourceRef(), learningController.CompleteResource(recorder, b))
}
