package learning

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LearningResource is a locally cached learning video sourced from YouTube.
// ExternalID is the YouTube video id; rows synthesized as placeholders for
// unresolvable ids carry an empty ChannelTitle and zero Duration.
type LearningResource struct {
	gorm.Model
	ExternalID   string         `json:"external_id" gorm:"uniqueIndex"`
	Title        string         `json:"title"`
	Category     string         `json:"category" gorm:"default:'technical'"`
	Skills       datatypes.JSON `json:"skills"` // array of skill names
	Duration     int64          `json:"duration" gorm:"default:0"` // minutes
	ChannelTitle string         `json:"channel_title"`
	ThumbnailURL string         `json:"thumbnail_url"`
	FetchedAt    time.Time      `json:"fetched_at"`
	IsDeleted    bool           `gorm:"default:false"`
}

// SkillNames decodes the JSON skills column
func (r *LearningResource) SkillNames() []string {
	if len(r.Skills) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(r.Skills, &names); err != nil {
		return nil
	}
	return names
}
