package loyalty

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Primary award transaction types mirror the action that produced them;
// secondary and spend transactions carry their own types.
const (
	TxAchievementBonus    = "achievement_bonus"
	TxChallengeCompletion = "challenge_completion"
	TxRewardRedemption    = "reward_redemption"
)

// PointsTransaction is an immutable ledger row. Balance is the account
// balance immediately after this transaction was applied.
type PointsTransaction struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id;uniqueIndex:idx_points_tx_user_ref" json:"user_id"`
	TransactionType string         `gorm:"not null;column:transaction_type" json:"transaction_type"`
	Amount          int64          `gorm:"not null;column:amount" json:"amount"`
	Balance         int64          `gorm:"not null;column:balance" json:"balance"`
	Description     string         `gorm:"column:description" json:"description"`
	Metadata        datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	// ReferenceID carries the client idempotency key when one was supplied.
	// The composite unique index makes duplicate submission of the same key
	// for the same user a constraint violation instead of a double award.
	ReferenceID *string `gorm:"column:reference_id;uniqueIndex:idx_points_tx_user_ref" json:"reference_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PointsTransaction) TableName() string { return "points_transactions" }

func (t *PointsTransaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
