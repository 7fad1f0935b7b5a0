package loyalty

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Achievement struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	TriggerType  string    `gorm:"not null;index;column:trigger_type" json:"trigger_type"`
	MaxProgress  int       `gorm:"not null;column:max_progress" json:"max_progress"`
	PointsReward int64     `gorm:"not null;column:points_reward" json:"points_reward"`
	IsActive     bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
}

func (Achievement) TableName() string { return "loyalty_achievements" }

func (a *Achievement) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// UserAchievement is created lazily on the first matching action. Progress is
// monotonically non-decreasing; once unlocked the row is terminal.
type UserAchievement struct {
	UserID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	AchievementID uuid.UUID  `gorm:"type:uuid;primaryKey;column:achievement_id" json:"achievement_id"`
	Progress      int        `gorm:"not null;default:0;column:progress" json:"progress"`
	IsUnlocked    bool       `gorm:"not null;default:false;column:is_unlocked" json:"is_unlocked"`
	UnlockedAt    *time.Time `gorm:"column:unlocked_at" json:"unlocked_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserAchievement) TableName() string { return "user_achievements" }
