package adminController

import (
	"log"

	"emirimo/database"
	"emirimo/middleware"
	"emirimo/models"
	"emirimo/socket"

	"github.com/gofiber/fiber/v2"
)

// ListJobs lists jobs for admin moderation with a status filter
func ListJobs(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedJobQuery").(*struct {
		Page   *int   `json:"page"`
		Limit  *int   `json:"limit"`
		Status string `json:"status"`
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

	db := database.Database.Db.Model(&models.Job{}).Where("is_deleted = ?", false)
	if reqData != nil && reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	db.Count(&total)

	var jobs []models.Job
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&jobs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch jobs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Jobs fetched successfully!", fiber.Map{
		"jobs":  jobs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateJobStatus approves, rejects, or closes a job posting and notifies
// the admin room
func UpdateJobStatus(b socket.Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedJobStatus").(*struct {
			Status string `json:"status"`
		})
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		jobID, err := c.ParamsInt("id")
		if err != nil || jobID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid job id!", nil)
		}

		var job models.Job
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", jobID, false).First(&job).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Job not found!", nil)
		}

		if err := database.Database.Db.Model(&job).Update("status", reqData.Status).Error; err != nil {
			log.Printf("[ADMIN] status update for job %d failed: %v", jobID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update job status!", nil)
		}

		b.Broadcast(socket.Event{
			Type: socket.EventJobStatusChange,
			Payload: map[string]interface{}{
				"job_id": job.ID,
				"title":  job.Title,
				"status": reqData.Status,
			},
		})

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Job status updated successfully!", nil)
	}
}
