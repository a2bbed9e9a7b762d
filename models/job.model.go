package models

import (
	"time"

	"gorm.io/gorm"
)

// Job represents a posted job opening
type Job struct {
	gorm.Model
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	EmployerID     uint       `json:"employer_id" gorm:"index;not null"`
	Category       string     `json:"category"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employment_type" gorm:"default:'full-time'"` // full-time, part-time, contract, internship
	Status         string     `json:"status" gorm:"default:'pending'"`            // pending, open, closed, rejected
	Deadline       *time.Time `json:"deadline"`
	IsDeleted      bool       `gorm:"default:false"`
}
