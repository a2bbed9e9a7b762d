package learningController

import (
	"errors"
	"log"
	"strconv"

	"emirimo/certificate"
	"emirimo/database"
	"emirimo/middleware"
	"emirimo/models"
	"emirimo/models/learning"
	"emirimo/socket"
	"emirimo/utils"

	"github.com/gofiber/fiber/v2"
)

// GetLearningResources lists cached learning resources with optional
// category filter and pagination
func GetLearningResources(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, _ := c.Locals("validatedResourceQuery").(*struct {
		Page     *int   `json:"page"`
		Limit    *int   `json:"limit"`
		Category string `json:"category"`
		Search   string `json:"search"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&learning.LearningResource{}).Where("is_deleted = ?", false)
	if reqData != nil && reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData != nil && reqData.Search != "" {
		db = db.Where("title ILIKE ?", "%"+reqData.Search+"%")
	}

	var total int64
	db.Count(&total)

	var resources []learning.LearningResource
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&resources).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch learning resources!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning resources fetched successfully!", fiber.Map{
		"resources": resources,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GetLearningResource resolves one resource by local id or external video
// id, fetching and caching from YouTube on a local miss
func GetLearningResource(yt *utils.YouTubeClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		ref := c.Params("id")

		var resource learning.LearningResource
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&resource).Error; err == nil {
				return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource fetched successfully!", resource)
			}
		}
		if err := database.Database.Db.Where("external_id = ? AND is_deleted = ?", ref, false).First(&resource).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource fetched successfully!", resource)
		}

		fetched, err := yt.FetchResource(c.UserContext(), ref)
		if err != nil {
			log.Printf("[LEARNING] resolve %q failed: %v", ref, err)
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning resource not found!", nil)
		}

		if err := database.Database.Db.Where("external_id = ?", fetched.ExternalID).
			Attrs(*fetched).FirstOrCreate(&resource).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cache resource!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource fetched successfully!", resource)
	}
}

// CompleteResource records a completion and issues the certificate.
// Repeating the call for the same resource returns the original certificate.
func CompleteResource(recorder *certificate.Recorder, b socket.Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		result, err := recorder.Record(c.UserContext(), userID, c.Params("id"))
		if err != nil {
			if errors.Is(err, certificate.ErrNotFound) {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning resource not found!", nil)
			}
			log.Printf("[LEARNING] completion failed for user %d resource %s: %v", userID, c.Params("id"), err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark course as complete!", nil)
		}

		if !result.AlreadyCompleted {
			b.Broadcast(socket.Event{
				Type: socket.EventCompletion,
				Payload: map[string]interface{}{
					"user_id":        userID,
					"user_name":      user.Name,
					"certificate_id": result.CertificateID,
				},
			})

			go func(email, name, title, certURL string) {
				if err := utils.SendCertificateIssuedEmail(email, name, title, certURL); err != nil {
					log.Printf("[LEARNING] certificate email to %s failed: %v", email, err)
				}
			}(user.Email, user.Name, result.ResourceTitle, result.CertificateURL)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course marked as complete!", fiber.Map{
			"completed":       true,
			"certificate_id":  result.CertificateID,
			"certificate_url": result.CertificateURL,
			"skills_earned":   result.SkillsEarned,
		})
	}
}

// GetCompletedResources lists the current user's completion records
func GetCompletedResources(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var completed []learning.CompletionRecord
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("completed_at desc").
		Find(&completed).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch completed courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completed courses fetched successfully!", fiber.Map{
		"completedCourses": completed,
		"total":            len(completed),
	})
}

// DownloadCertificate streams the certificate PDF after verifying ownership
func DownloadCertificate(downloader *certificate.Downloader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		certID := c.Params("certificateId")

		data, err := downloader.Download(c.UserContext(), userID, certID)
		if err != nil {
			// Wrong owner and nonexistent look identical on purpose
			if errors.Is(err, certificate.ErrForbidden) {
				return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Certificate not found or not yours!", nil)
			}
			if errors.Is(err, certificate.ErrNotFound) {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate could not be regenerated!", nil)
			}
			log.Printf("[LEARNING] certificate download %s failed for user %d: %v", certID, userID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to download certificate!", nil)
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="Certificate-`+certID+`.pdf"`)
		return c.Send(data)
	}
}
