package adminValidator

import (
	"strconv"
	"strings"

	"emirimo/middleware"

	"github.com/gofiber/fiber/v2"
)

var userStatuses = map[string]bool{"active": true, "inactive": true, "suspended": true}
var jobStatuses = map[string]bool{"open": true, "closed": true, "pending": true, "rejected": true}
var notificationTypes = map[string]bool{"info": true, "warning": true, "action": true}

// UserList validates admin user listing query parameters
func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   *int   `json:"page"`
			Limit  *int   `json:"limit"`
			Role   string `json:"role"`
			Status string `json:"status"`
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

		reqData.Role = strings.ToUpper(strings.TrimSpace(c.Query("role")))
		if reqData.Role != "" && reqData.Role != "SEEKER" && reqData.Role != "EMPLOYER" && reqData.Role != "ADMIN" {
			errors["role"] = "Invalid role filter!"
		}

		reqData.Status = strings.ToLower(strings.TrimSpace(c.Query("status")))
		if reqData.Status != "" && !userStatuses[reqData.Status] {
			errors["status"] = "Invalid status filter!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUserQuery", reqData)
		return c.Next()
	}
}

// UserStatus validates a user status change request
func UserStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Status = strings.ToLower(strings.TrimSpace(reqData.Status))
		if !userStatuses[reqData.Status] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be active, inactive, or suspended!",
			})
		}

		c.Locals("validatedUserStatus", reqData)
		return c.Next()
	}
}

// JobList validates admin job listing query parameters
func JobList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   *int   `json:"page"`
			Limit  *int   `json:"limit"`
			Status string `json:"status"`
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

		reqData.Status = strings.ToLower(strings.TrimSpace(c.Query("status")))
		if reqData.Status != "" && !jobStatuses[reqData.Status] {
			errors["status"] = "Invalid status filter!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedJobQuery", reqData)
		return c.Next()
	}
}

// JobStatus validates a job status change request
func JobStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Status = strings.ToLower(strings.TrimSpace(reqData.Status))
		if !jobStatuses[reqData.Status] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be open, closed, pending, or rejected!",
			})
		}

		c.Locals("validatedJobStatus", reqData)
		return c.Next()
	}
}

// Notification validates notification create/update requests
func Notification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint   `json:"user_id"`
			Title  string `json:"title"`
			Body   string `json:"body"`
			Type   string `json:"type"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Body = strings.TrimSpace(reqData.Body)
		reqData.Type = strings.ToLower(strings.TrimSpace(reqData.Type))

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.Body == "" {
			errors["body"] = "Body is required!"
		}
		if reqData.Type == "" {
			reqData.Type = "info"
		} else if !notificationTypes[reqData.Type] {
			errors["type"] = "Type must be info, warning, or action!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedNotification", reqData)
		return c.Next()
	}
}
