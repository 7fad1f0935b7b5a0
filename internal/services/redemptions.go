package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// RedemptionResult is the committed outcome of a redeem call.
type RedemptionResult struct {
	Redemption *types.Redemption `json:"redemption"`
	NewBalance int64             `json:"new_balance"`
}

// RedemptionService spends points on catalog rewards. The balance check, the
// ledger debit and the redemption row commit atomically; an insufficient
// balance leaves every table untouched.
type RedemptionService interface {
	Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*RedemptionResult, error)
	Rewards(ctx context.Context) ([]*types.Reward, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Redemption, error)
}

type redemptionService struct {
	db             *gorm.DB
	log            *logger.Logger
	ledger         LedgerService
	tiers          TierService
	rewardRepo     repos.RewardRepo
	redemptionRepo repos.RedemptionRepo
}

func NewRedemptionService(db *gorm.DB, log *logger.Logger, ledger LedgerService, tiers TierService, rewardRepo repos.RewardRepo, redemptionRepo repos.RedemptionRepo) RedemptionService {
	return &redemptionService{
		db:             db,
		log:            log.With("service", "RedemptionService"),
		ledger:         ledger,
		tiers:          tiers,
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
	}
}

func (rs *redemptionService) Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*RedemptionResult, error) {
	var result *RedemptionResult
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reward, err := rs.rewardRepo.GetByID(ctx, tx, rewardID)
		if err != nil {
			return fmt.Errorf("load reward: %w", err)
		}
		if reward == nil || !reward.IsActive {
			return ErrRewardNotFound
		}

		outcome, err := rs.ledger.Deduct(ctx, tx, LedgerEntry{
			UserID:      userID,
			Amount:      reward.PointsRequired,
			Type:        types.TxRewardRedemption,
			Description: fmt.Sprintf("Recompensa canjeada: %s", reward.Name),
		})
		if err != nil {
			return err
		}

		redemption := &types.Redemption{
			UserID:      userID,
			RewardID:    reward.ID,
			PointsSpent: reward.PointsRequired,
			Status:      types.RedemptionStatusPending,
		}
		if err := rs.redemptionRepo.Create(ctx, tx, redemption); err != nil {
			return fmt.Errorf("insert redemption: %w", err)
		}

		if _, err := rs.tiers.Reassign(ctx, tx, userID, outcome.NewBalance, nil); err != nil {
			return fmt.Errorf("reassign tier: %w", err)
		}

		result = &RedemptionResult{Redemption: redemption, NewBalance: outcome.NewBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.log.Info("reward redeemed",
		"user_id", userID, "reward_id", rewardID, "points_spent", result.Redemption.PointsSpent)
	return result, nil
}

func (rs *redemptionService) Rewards(ctx context.Context) ([]*types.Reward, error) {
	return rs.rewardRepo.ListActive(ctx, nil)
}

func (rs *redemptionService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Redemption, error) {
	return rs.redemptionRepo.ListByUser(ctx, nil, userID, limit)
}
