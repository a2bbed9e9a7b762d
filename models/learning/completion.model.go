package learning

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompletionRecord is the durable fact that a user finished a learning
// resource. The record, not the rendered certificate, is the source of
// truth: the PDF can be regenerated from the snapshot fields at any time.
// The composite unique index makes concurrent duplicate completions of the
// same (user, resource) pair collide at insert instead of racing.
type CompletionRecord struct {
	gorm.Model
	UserID           uint           `json:"user_id" gorm:"uniqueIndex:idx_user_resource;not null"`
	ResourceID       uint           `json:"resource_id" gorm:"uniqueIndex:idx_user_resource;not null"`
	ResourceTitle    string         `json:"resource_title"`    // snapshot at completion time
	ResourceCategory string         `json:"resource_category"` // snapshot at completion time
	CompletedAt      time.Time      `json:"completed_at"`      // set once, never rewritten
	CertificateID    string         `json:"certificate_id" gorm:"uniqueIndex;not null"`
	CertificateURL   string         `json:"certificate_url"`
	SkillsEarned     datatypes.JSON `json:"skills_earned"` // array of skill names
	Progress         int            `json:"progress" gorm:"default:100"`
	IsDeleted        bool           `gorm:"default:false"`
}

// SkillsEarnedNames decodes the JSON skills_earned column
func (r *CompletionRecord) SkillsEarnedNames() []string {
	if len(r.SkillsEarned) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(r.SkillsEarned, &names); err != nil {
		return nil
	}
	return names
}
