package repos

import (
	"github.com/boxtrail/loyalty-backend/internal/data/repos/loyalty"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type AccountRepo = loyalty.AccountRepo
type TransactionRepo = loyalty.TransactionRepo
type TierRepo = loyalty.TierRepo
type AchievementRepo = loyalty.AchievementRepo
type UserAchievementRepo = loyalty.UserAchievementRepo
type ChallengeRepo = loyalty.ChallengeRepo
type UserChallengeRepo = loyalty.UserChallengeRepo
type RewardRepo = loyalty.RewardRepo
type RedemptionRepo = loyalty.RedemptionRepo
type WebhookEventRepo = loyalty.WebhookEventRepo

func NewAccountRepo(db *gorm.DB, log *logger.Logger) AccountRepo {
	return loyalty.NewAccountRepo(db, log)
}
func NewTransactionRepo(db *gorm.DB, log *logger.Logger) TransactionRepo {
	return loyalty.NewTransactionRepo(db, log)
}
func NewTierRepo(db *gorm.DB, log *logger.Logger) TierRepo {
	return loyalty.NewTierRepo(db, log)
}
func NewAchievementRepo(db *gorm.DB, log *logger.Logger) AchievementRepo {
	return loyalty.NewAchievementRepo(db, log)
}
func NewUserAchievementRepo(db *gorm.DB, log *logger.Logger) UserAchievementRepo {
	return loyalty.NewUserAchievementRepo(db, log)
}
func NewChallengeRepo(db *gorm.DB, log *logger.Logger) ChallengeRepo {
	return loyalty.NewChallengeRepo(db, log)
}
func NewUserChallengeRepo(db *gorm.DB, log *logger.Logger) UserChallengeRepo {
	return loyalty.NewUserChallengeRepo(db, log)
}
func NewRewardRepo(db *gorm.DB, log *logger.Logger) RewardRepo {
	return loyalty.NewRewardRepo(db, log)
}
func NewRedemptionRepo(db *gorm.DB, log *logger.Logger) RedemptionRepo {
	return loyalty.NewRedemptionRepo(db, log)
}
func NewWebhookEventRepo(db *gorm.DB, log *logger.Logger) WebhookEventRepo {
	return loyalty.NewWebhookEventRepo(db, log)
}
