package loyalty

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RedemptionStatusPending   = "pending"
	RedemptionStatusFulfilled = "fulfilled"
	RedemptionStatusCancelled = "cancelled"
)

type Reward struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	PointsRequired int64     `gorm:"not null;column:points_required" json:"points_required"`
	IsActive       bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
}

func (Reward) TableName() string { return "loyalty_rewards" }

func (r *Reward) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Redemption struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	RewardID    uuid.UUID `gorm:"type:uuid;not null;column:reward_id" json:"reward_id"`
	PointsSpent int64     `gorm:"not null;column:points_spent" json:"points_spent"`
	Status      string    `gorm:"not null;default:'pending';column:status" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Redemption) TableName() string { return "reward_redemptions" }

func (r *Redemption) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
