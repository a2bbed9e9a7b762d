package models

import "gorm.io/gorm"

// Notification is an admin-visible notice; UserID 0 means site-wide
type Notification struct {
	gorm.Model
	NotificationID string `json:"notification_id" gorm:"uniqueIndex;not null"`
	UserID         uint   `json:"user_id" gorm:"index;default:0"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	Type           string `json:"type" gorm:"default:'info'"` // info, warning, action
	IsRead         bool   `json:"is_read" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}
