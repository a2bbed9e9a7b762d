package userController

import (
	"encoding/json"
	"log"

	"emirimo/database"
	"emirimo/middleware"
	"emirimo/models"
	"emirimo/socket"
	"emirimo/utils"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns the current user's profile
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"mobile":        user.Mobile,
		"role":          user.Role,
		"status":        user.Status,
		"title":         user.Title,
		"location":      user.Location,
		"skills":        user.SkillList(),
		"profile_image": user.ProfileImage,
	})
}

// UpdateProfile updates profile fields and notifies the admin dashboard
func UpdateProfile(b socket.Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		reqData, ok := c.Locals("validatedProfile").(*struct {
			Name     string         `json:"name"`
			Mobile   string         `json:"mobile"`
			Title    string         `json:"title"`
			Location string         `json:"location"`
			Skills   []models.Skill `json:"skills"`
		})
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		updates := map[string]interface{}{}
		if reqData.Name != "" {
			updates["name"] = reqData.Name
		}
		if reqData.Mobile != "" {
			updates["mobile"] = reqData.Mobile
		}
		if reqData.Title != "" {
			updates["title"] = reqData.Title
		}
		if reqData.Location != "" {
			updates["location"] = reqData.Location
		}
		if reqData.Skills != nil {
			skillsJSON, err := json.Marshal(reqData.Skills)
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid skills payload!", nil)
			}
			updates["skills"] = skillsJSON
		}

		if len(updates) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
		}

		if err := database.Database.Db.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("Error updating profile for user %d: %v", userID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
		}

		b.Broadcast(socket.Event{
			Type: socket.EventProfileUpdate,
			Payload: map[string]interface{}{
				"user_id": user.ID,
				"name":    user.Name,
			},
		})

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", nil)
	}
}

// UploadProfileImage stores a new avatar under the uploads directory
func UploadProfileImage(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Image file is required!", nil)
	}

	filePath, err := utils.SaveUploadedFile(file, "./public/uploads")
	if err != nil {
		log.Printf("Error saving profile image for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save image!", nil)
	}

	imageURL := utils.GetFileURL(filePath)
	if err := database.Database.Db.Model(&user).Update("profile_image", imageURL).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile image updated successfully!", fiber.Map{
		"profile_image": imageURL,
	})
}
