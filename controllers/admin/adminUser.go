package adminController

import (
	"log"

	"emirimo/database"
	"emirimo/middleware"
	"emirimo/models"
	"emirimo/socket"

	"github.com/gofiber/fiber/v2"
)

// ListUsers lists users for the admin dashboard with role/status filters
func ListUsers(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedUserQuery").(*struct {
		Page   *int   `json:"page"`
		Limit  *int   `json:"limit"`
		Role   string `json:"role"`
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

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)
	if reqData != nil && reqData.Role != "" {
		db = db.Where("role = ?", reqData.Role)
	}
	if reqData != nil && reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	type userRow struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Status   string `json:"status"`
		Location string `json:"location"`
	}
	rows := make([]userRow, len(users))
	for i, u := range users {
		rows[i] = userRow{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status, Location: u.Location}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": rows,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateUserStatus changes a user's status and notifies the admin room
func UpdateUserStatus(b socket.Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedUserStatus").(*struct {
			Status string `json:"status"`
		})
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		targetID, err := c.ParamsInt("id")
		if err != nil || targetID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
		}

		var target models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&target).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}

		if err := database.Database.Db.Model(&target).Update("status", reqData.Status).Error; err != nil {
			log.Printf("[ADMIN] status update for user %d failed: %v", targetID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user status!", nil)
		}

		b.Broadcast(socket.Event{
			Type: socket.EventUserStatusChange,
			Payload: map[string]interface{}{
				"user_id": target.ID,
				"name":    target.Name,
				"status":  reqData.Status,
			},
		})

		return middleware.JsonResponse(c, fiber.StatusOK, true, "User status updated successfully!", nil)
	}
}

// DeleteUser soft-deletes a user and notifies the admin room
func DeleteUser(b socket.Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetID, err := c.ParamsInt("id")
		if err != nil || targetID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
		}

		var target models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&target).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}

		if err := database.Database.Db.Model(&target).Update("is_deleted", true).Error; err != nil {
			log.Printf("[ADMIN] delete of user %d failed: %v", targetID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
		}

		b.Broadcast(socket.Event{
			Type: socket.EventUserDeleted,
			Payload: map[string]interface{}{
				"user_id": target.ID,
				"name":    target.Name,
			},
		})

		return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
	}
}
