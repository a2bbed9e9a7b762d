package learningValidator

import (
	"regexp"
	"strconv"
	"strings"

	"emirimo/middleware"

	"github.com/gofiber/fiber/v2"
)

// certificate ids are lowercase hex, resource refs are local ids or
// YouTube video ids
var (
	certIDRegex   = regexp.MustCompile(`^[a-f0-9]{16,64}$`)
	resourceRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)
)

// ResourceList validates listing query parameters
func ResourceList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int   `json:"page"`
			Limit    *int   `json:"limit"`
			Category string `json:"category"`
			Search   string `json:"search"`
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
		reqData.Search = strings.TrimSpace(c.Query("search"))

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResourceQuery", reqData)
		return c.Next()
	}
}

// ResourceRef validates the :id path parameter
func ResourceRef() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := c.Params("id")
		if !resourceRegex.MatchString(ref) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"id": "Invalid resource reference!",
			})
		}
		return c.Next()
	}
}

// CertificateID validates the :certificateId path parameter
func CertificateID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("certificateId")
		if !certIDRegex.MatchString(id) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"certificateId": "Invalid certificate id!",
			})
		}
		return c.Next()
	}
}
