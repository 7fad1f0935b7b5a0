package loyalty

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Challenge struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	ChallengeType string    `gorm:"not null;index;column:challenge_type" json:"challenge_type"`
	Goal          int       `gorm:"not null;column:goal" json:"goal"`
	PointsReward  int64     `gorm:"not null;column:points_reward" json:"points_reward"`
	IsActive      bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
}

func (Challenge) TableName() string { return "loyalty_challenges" }

func (c *Challenge) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// UserChallenge tracks one user's progress toward one challenge. Terminal on
// completion, same lifecycle as UserAchievement.
type UserChallenge struct {
	UserID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	ChallengeID     uuid.UUID  `gorm:"type:uuid;primaryKey;column:challenge_id" json:"challenge_id"`
	CurrentProgress int        `gorm:"not null;default:0;column:current_progress" json:"current_progress"`
	IsCompleted     bool       `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserChallenge) TableName() string { return "user_challenges" }
