package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// TierService maps lifetime balances onto the configured tier ladder and keeps
// each account's tier assignment in step with its balance.
type TierService interface {
	List(ctx context.Context) ([]*types.Tier, error)
	TierFor(ctx context.Context, tx *gorm.DB, balance int64) (*types.Tier, error)
	// Reassign recomputes the tier for the given balance and persists it when
	// it differs from the account's current assignment. Safe to call after
	// every balance change.
	Reassign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, balance int64, currentTierID *uuid.UUID) (*types.Tier, error)
}

type tierService struct {
	db       *gorm.DB
	log      *logger.Logger
	tierRepo repos.TierRepo
	accRepo  repos.AccountRepo
}

func NewTierService(db *gorm.DB, log *logger.Logger, tierRepo repos.TierRepo, accRepo repos.AccountRepo) TierService {
	return &tierService{
		db:       db,
		log:      log.With("service", "TierService"),
		tierRepo: tierRepo,
		accRepo:  accRepo,
	}
}

func (ts *tierService) List(ctx context.Context) ([]*types.Tier, error) {
	return ts.tierRepo.List(ctx, nil)
}

func (ts *tierService) TierFor(ctx context.Context, tx *gorm.DB, balance int64) (*types.Tier, error) {
	tiers, err := ts.tierRepo.List(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, tier := range tiers {
		if tier.Contains(balance) {
			return tier, nil
		}
	}
	return nil, nil
}

func (ts *tierService) Reassign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, balance int64, currentTierID *uuid.UUID) (*types.Tier, error) {
	tier, err := ts.TierFor(ctx, tx, balance)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, nil
	}
	if currentTierID != nil && *currentTierID == tier.ID {
		return tier, nil
	}
	if err := ts.accRepo.UpdateTier(ctx, tx, userID, tier.ID); err != nil {
		return nil, err
	}
	ts.log.Info("tier updated", "user_id", userID, "tier", tier.Name, "balance", balance)
	return tier, nil
}
