package jobValidator

import (
	"strconv"
	"strings"

	"emirimo/middleware"

	"github.com/gofiber/fiber/v2"
)

var employmentTypes = map[string]bool{"full-time": true, "part-time": true, "contract": true, "internship": true}

// JobList validates public job listing query parameters
func JobList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int   `json:"page"`
			Limit    *int   `json:"limit"`
			Category string `json:"category"`
			Location string `json:"location"`
			Type     string `json:"type"`
		})

		errors := make(map[string]string)

		if v := c.Query("page"); v != "" {
			page, err := strconv.Atoi(v)
			if err != nil || page < 1 {
				errors["page"] = "Page must be a positive number!"
			} else {
				reqData.Page = &page
			}
		}
		if v := c.Query("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil || limit < 1 || limit > 100 {
				errors["limit"] = "Limit must be between 1 and 100!"
			} else {
				reqData.Limit = &limit
			}
		}

		reqData.Category = strings.TrimSpace(c.Query("category"))
		reqData.Location = strings.TrimSpace(c.Query("location"))
		reqData.Type = strings.ToLower(strings.TrimSpace(c.Query("type")))
		if reqData.Type != "" && !employmentTypes[reqData.Type] {
			errors["type"] = "Invalid employment type!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedJobQuery", reqData)
		return c.Next()
	}
}

// CreateJob validates a job posting request
func CreateJob() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title          string `json:"title"`
			Description    string `json:"description"`
			Category       string `json:"category"`
			Location       string `json:"location"`
			EmploymentType string `json:"employment_type"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.EmploymentType = strings.ToLower(strings.TrimSpace(reqData.EmploymentType))

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		} else if len(reqData.Description) < 10 {
			errors["description"] = "Description must be at least 10 characters long!"
		}

		if reqData.EmploymentType == "" {
			reqData.EmploymentType = "full-time"
		} else if !employmentTypes[reqData.EmploymentType] {
			errors["employment_type"] = "Invalid employment type!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedJob", reqData)
		return c.Next()
	}
}
