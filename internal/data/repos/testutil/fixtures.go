package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, balance int64) *types.PointsAccount {
	tb.Helper()
	account := &types.PointsAccount{
		UserID:      userID,
		Balance:     balance,
		TotalEarned: balance,
	}
	if err := tx.WithContext(ctx).Create(account).Error; err != nil {
		tb.Fatalf("seed account: %v", err)
	}
	return account
}

func SeedTier(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, minPoints int64, maxPoints *int64) *types.Tier {
	tb.Helper()
	tier := &types.Tier{
		ID:        uuid.New(),
		Name:      name,
		MinPoints: minPoints,
		MaxPoints: maxPoints,
	}
	if err := tx.WithContext(ctx).Create(tier).Error; err != nil {
		tb.Fatalf("seed tier: %v", err)
	}
	return tier
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, name, trigger string, maxProgress int, reward int64) *types.Achievement {
	tb.Helper()
	achievement := &types.Achievement{
		ID:           uuid.New(),
		Name:         name,
		TriggerType:  trigger,
		MaxProgress:  maxProgress,
		PointsReward: reward,
		IsActive:     true,
	}
	if err := tx.WithContext(ctx).Create(achievement).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return achievement
}

func SeedChallenge(tb testing.TB, ctx context.Context, tx *gorm.DB, name, challengeType string, goal int, reward int64) *types.Challenge {
	tb.Helper()
	challenge := &types.Challenge{
		ID:            uuid.New(),
		Name:          name,
		ChallengeType: challengeType,
		Goal:          goal,
		PointsReward:  reward,
		IsActive:      true,
	}
	if err := tx.WithContext(ctx).Create(challenge).Error; err != nil {
		tb.Fatalf("seed challenge: %v", err)
	}
	return challenge
}

func SeedReward(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, pointsRequired int64) *types.Reward {
	tb.Helper()
	reward := &types.Reward{
		ID:             uuid.New(),
		Name:           name,
		PointsRequired: pointsRequired,
		IsActive:       true,
	}
	if err := tx.WithContext(ctx).Create(reward).Error; err != nil {
		tb.Fatalf("seed reward: %v", err)
	}
	return reward
}
