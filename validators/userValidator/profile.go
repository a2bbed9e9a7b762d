package userValidator

import (
	"strings"

	"emirimo/middleware"
	"emirimo/models"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfile validates a profile update request
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string         `json:"name"`
			Mobile   string         `json:"mobile"`
			Title    string         `json:"title"`
			Location string         `json:"location"`
			Skills   []models.Skill `json:"skills"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Location = strings.TrimSpace(reqData.Location)

		if reqData.Name != "" && len(reqData.Name) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		for i, s := range reqData.Skills {
			name := strings.TrimSpace(s.Name)
			if name == "" {
				errors["skills"] = "Skill names cannot be empty!"
				break
			}
			reqData.Skills[i].Name = name
			if s.Level == "" {
				reqData.Skills[i].Level = "beginner"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
