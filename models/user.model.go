package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Skill is one entry in a user's skill list, stored as JSON on the user row
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level"` // beginner, intermediate, advanced
}

type User struct {
	gorm.Model
	ProfileImage        string         `gorm:"default:''"`
	Name                string         `gorm:"default:''"`
	Email               string         `gorm:"unique;not null"`
	Mobile              string         `gorm:"default:''"`
	Role                string         `gorm:"default:'SEEKER'"` // SEEKER, EMPLOYER, ADMIN
	Password            string         `gorm:"not null"`
	Status              string         `gorm:"default:'active'"` // active, inactive, suspended
	Title               string         `gorm:"default:''"`
	Location            string         `gorm:"default:''"`
	Skills              datatypes.JSON `json:"skills"`
	LastLogin           time.Time      `gorm:"default:NULL"`
	FailedLoginAttempts int            `gorm:"default:0"`
	LastFailedLogin     *time.Time     `json:"last_failed_login"`
	IsBlocked           bool           `gorm:"default:false"`
	BlockedUntil        *time.Time     `json:"blocked_until"`
	IsDeleted           bool           `gorm:"default:false"`
}

// SkillList decodes the JSON skills column; a missing or corrupt column
// reads as an empty list
func (u *User) SkillList() []Skill {
	if len(u.Skills) == 0 {
		return nil
	}
	var skills []Skill
	if err := json.Unmarshal(u.Skills, &skills); err != nil {
		return nil
	}
	return skills
}
