package loyalty

import (
	"time"

	"github.com/google/uuid"
)

// PointsAccount is the aggregate balance row for one user. It is owned by the
// ledger service and only ever mutated inside a ledger transaction.
type PointsAccount struct {
	UserID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	Balance       int64      `gorm:"not null;default:0;column:balance" json:"balance"`
	TotalEarned   int64      `gorm:"not null;default:0;column:total_earned" json:"total_earned"`
	TotalRedeemed int64      `gorm:"not null;default:0;column:total_redeemed" json:"total_redeemed"`
	TierID        *uuid.UUID `gorm:"type:uuid;column:tier_id" json:"tier_id,omitempty"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (PointsAccount) TableName() string { return "points_accounts" }
