package adminController

import (
	"log"

	"emirimo/database"
	"emirimo/middleware"
	"emirimo/models"
	"emirimo/socket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListNotifications lists notifications, most recent first
func ListNotifications(c *fiber.Ctx) error {
	var notifications []models.Notification
	if err := database.Database.Db.
		Where("is_deleted = ?", false).
		Order("created_at desc").
		Limit(100).
		Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", fiber.Map{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// CreateNotification creates a notification and pushes it to the admin room
func CreateNotification(b socket.Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedNotification").(*struct {
			UserID uint   `json:"user_id"`
			Title  string `json:"title"`
			Body   string `json:"body"`
			Type   string `json:"type"`
		})
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		notification := models.Notification{
			NotificationID: uuid.NewString(),
			UserID:         reqData.UserID,
			Title:          reqData.Title,
			Body:           reqData.Body,
			Type:           reqData.Type,
		}

		if err := database.Database.Db.Create(&notification).Error; err != nil {
			log.Printf("[ADMIN] notification create failed: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create notification!", nil)
		}

		b.Broadcast(socket.Event{
			Type: socket.EventNewNotification,
			Payload: map[string]interface{}{
				"notification_id": notification.NotificationID,
				"title":           notification.Title,
				"body":            notification.Body,
				"notif_type":      notification.Type,
			},
		})

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Notification created successfully!", notification)
	}
}

// UpdateNotification edits a notification and notifies the admin room
func UpdateNotification(b socket.Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedNotification").(*struct {
			UserID uint   `json:"user_id"`
			Title  string `json:"title"`
			Body   string `json:"body"`
			Type   string `json:"type"`
		})
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		notificationID := c.Params("notificationId")

		var notification models.Notification
		if err := database.Database.Db.
			Where("notification_id = ? AND is_deleted = ?", notificationID, false).
			First(&notification).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
		}

		updates := map[string]interface{}{
			"title": reqData.Title,
			"body":  reqData.Body,
			"type":  reqData.Type,
		}
		if err := database.Database.Db.Model(&notification).Updates(updates).Error; err != nil {
			log.Printf("[ADMIN] notification update failed: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
		}

		b.Broadcast(socket.Event{
			Type: socket.EventNotificationUpdate,
			Payload: map[string]interface{}{
				"notification_id": notification.NotificationID,
				"title":           reqData.Title,
			},
		})

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification updated successfully!", nil)
	}
}

// DeleteNotification soft-deletes a notification and notifies the admin room
func DeleteNotification(b socket.Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notificationID := c.Params("notificationId")

		var notification models.Notification
		if err := database.Database.Db.
			Where("notification_id = ? AND is_deleted = ?", notificationID, false).
			First(&notification).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
		}

		if err := database.Database.Db.Model(&notification).Update("is_deleted", true).Error; err != nil {
			log.Printf("[ADMIN] notification delete failed: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete notification!", nil)
		}

		b.Broadcast(socket.Event{
			Type: socket.EventNotificationDelete,
			Payload: map[string]interface{}{
				"notification_id": notification.NotificationID,
			},
		})

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification deleted successfully!", nil)
	}
}
