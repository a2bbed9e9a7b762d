package jobController

import (
	"log"

	"emirimo/database"
	"emirimo/middleware"
	"emirimo/models"

	"github.com/gofiber/fiber/v2"
)

// GetAllJobs lists open jobs with simple field filters and pagination
func GetAllJobs(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, _ := c.Locals("validatedJobQuery").(*struct {
		Page     *int   `json:"page"`
		Limit    *int   `json:"limit"`
		Category string `json:"category"`
		Location string `json:"location"`
		Type     string `json:"type"`
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

	db := database.Database.Db.Model(&models.Job{}).Where("is_deleted = ? AND status = ?", false, "open")
	if reqData != nil && reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData != nil && reqData.Location != "" {
		db = db.Where("location = ?", reqData.Location)
	}
	if reqData != nil && reqData.Type != "" {
		db = db.Where("employment_type = ?", reqData.Type)
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

// GetJobDetails returns one job with its employer's public fields
func GetJobDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid job id!", nil)
	}

	var job models.Job
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", jobID, false).First(&job).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Job not found!", nil)
	}

	var employer models.User
	database.Database.Db.Where("id = ?", job.EmployerID).First(&employer)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Job fetched successfully!", fiber.Map{
		"job": job,
		"employer": fiber.Map{
			"id":       employer.ID,
			"name":     employer.Name,
			"location": employer.Location,
		},
	})
}

// CreateJob lets an employer post a job; it enters moderation as pending
func CreateJob(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedJob").(*struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Category       string `json:"category"`
		Location       string `json:"location"`
		EmploymentType string `json:"employment_type"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	job := models.Job{
		Title:          reqData.Title,
		Description:    reqData.Description,
		EmployerID:     userID,
		Category:       reqData.Category,
		Location:       reqData.Location,
		EmploymentType: reqData.EmploymentType,
		Status:         "pending",
	}

	if err := database.Database.Db.Create(&job).Error; err != nil {
		log.Printf("[JOB] create failed for employer %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create job!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Job submitted for review!", job)
}
