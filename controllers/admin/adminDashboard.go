package adminController

import (
	"emirimo/middleware"
	"emirimo/utils"

	"github.com/gofiber/fiber/v2"
)

// GetDashboardStats returns the admin dashboard counters. The same numbers
// are pushed over the socket every 30 seconds; this endpoint is the poll
// fallback for dashboards whose socket is down.
func GetDashboardStats(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", utils.CollectDashboardStats())
}
