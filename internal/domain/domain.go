package domain

import (
	"github.com/boxtrail/loyalty-backend/internal/domain/loyalty"
)

const (
	ActionShipment    = loyalty.ActionShipment
	ActionReferral    = loyalty.ActionReferral
	ActionReview      = loyalty.ActionReview
	ActionSocialShare = loyalty.ActionSocialShare
	ActionBirthday    = loyalty.ActionBirthday
	ActionAchievement = loyalty.ActionAchievement
	ActionChallenge   = loyalty.ActionChallenge

	TriggerPointsEarned = loyalty.TriggerPointsEarned
	TriggerStreakDays   = loyalty.TriggerStreakDays

	TxAchievementBonus    = loyalty.TxAchievementBonus
	TxChallengeCompletion = loyalty.TxChallengeCompletion
	TxRewardRedemption    = loyalty.TxRewardRedemption

	RedemptionStatusPending   = loyalty.RedemptionStatusPending
	RedemptionStatusFulfilled = loyalty.RedemptionStatusFulfilled
	RedemptionStatusCancelled = loyalty.RedemptionStatusCancelled

	WebhookStatusProcessed = loyalty.WebhookStatusProcessed
	WebhookStatusFailed    = loyalty.WebhookStatusFailed
)

type (
	PointsAccount     = loyalty.PointsAccount
	PointsTransaction = loyalty.PointsTransaction
	Tier              = loyalty.Tier
	Achievement       = loyalty.Achievement
	UserAchievement   = loyalty.UserAchievement
	Challenge         = loyalty.Challenge
	UserChallenge     = loyalty.UserChallenge
	Reward            = loyalty.Reward
	Redemption        = loyalty.Redemption
	WebhookEvent      = loyalty.WebhookEvent
)

var (
	KnownAction        = loyalty.KnownAction
	UnsupportedTrigger = loyalty.UnsupportedTrigger
)
