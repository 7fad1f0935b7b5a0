package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/boxtrail/loyalty-backend/internal/clients/redis"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
)

// AwardRequest is one action submitted for scoring. ReferenceID is the
// optional client idempotency key; resubmitting the same key for the same
// user returns the original outcome instead of a second award.
type AwardRequest struct {
	UserID      uuid.UUID      `json:"userId"`
	Action      string         `json:"action"`
	Metadata    ActionMetadata `json:"metadata"`
	ReferenceID *string        `json:"referenceId,omitempty"`
}

// AwardResult reports the committed award plus everything the follow-up chain
// produced. Bonuses lists the achievement and challenge credits that were
// written to the ledger as part of this call.
type AwardResult struct {
	PointsAwarded int64        `json:"points_awarded"`
	NewBalance    int64        `json:"new_balance"`
	Description   string       `json:"description"`
	Duplicate     bool         `json:"duplicate,omitempty"`
	Tier          *types.Tier  `json:"tier,omitempty"`
	Bonuses       []BonusAward `json:"bonuses,omitempty"`
}

// Summary is the aggregate view for one user: account totals, the current
// tier and how far along the next tier the balance sits.
type Summary struct {
	Account          *types.PointsAccount `json:"account"`
	Tier             *types.Tier          `json:"tier,omitempty"`
	NextTier         *types.Tier          `json:"next_tier,omitempty"`
	PointsToNextTier int64                `json:"points_to_next_tier"`
}

// LoyaltyService is the engine facade: one entry point for awarding points
// and the read surface the API serves from.
type LoyaltyService interface {
	AwardPoints(ctx context.Context, req AwardRequest) (*AwardResult, error)
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.PointsTransaction, error)
	Achievements(ctx context.Context, userID uuid.UUID) ([]*AchievementStatus, error)
	Challenges(ctx context.Context, userID uuid.UUID) ([]*ChallengeStatus, error)
	Leaderboard(ctx context.Context, limit int) ([]redisclient.LeaderboardRow, error)
}

type loyaltyService struct {
	db           *gorm.DB
	log          *logger.Logger
	calculator   PointsCalculator
	ledger       LedgerService
	tiers        TierService
	achievements AchievementService
	challenges   ChallengeService
	leaderboard  redisclient.Leaderboard
}

func NewLoyaltyService(
	db *gorm.DB,
	log *logger.Logger,
	calculator PointsCalculator,
	ledger LedgerService,
	tiers TierService,
	achievements AchievementService,
	challenges ChallengeService,
	leaderboard redisclient.Leaderboard,
) LoyaltyService {
	return &loyaltyService{
		db:           db,
		log:          log.With("service", "LoyaltyService"),
		calculator:   calculator,
		ledger:       ledger,
		tiers:        tiers,
		achievements: achievements,
		challenges:   challenges,
		leaderboard:  leaderboard,
	}
}

// AwardPoints validates, scores and commits one action. The primary award is
// all-or-nothing; the follow-up chain (tier reassignment, trackers, bonus
// credits, leaderboard) runs after the commit and its failures are logged but
// never roll back points the user already earned.
func (s *loyaltyService) AwardPoints(ctx context.Context, req AwardRequest) (*AwardResult, error) {
	if req.UserID == uuid.Nil || req.Action == "" {
		return nil, ErrMissingFields
	}
	if !types.KnownAction(req.Action) {
		return nil, ErrInvalidAction
	}
	if err := req.Metadata.Validate(req.Action); err != nil {
		return nil, err
	}

	rawMeta, err := json.Marshal(req.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	var result AwardResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		amount, description, err := s.calculator.Calculate(ctx, tx, req.Action, req.Metadata)
		if err != nil {
			return err
		}

		outcome, err := s.ledger.Award(ctx, tx, LedgerEntry{
			UserID:      req.UserID,
			Amount:      amount,
			Type:        req.Action,
			Description: description,
			Metadata:    datatypes.JSON(rawMeta),
			ReferenceID: req.ReferenceID,
		})
		if err != nil {
			return err
		}

		result = AwardResult{
			PointsAwarded: amount,
			NewBalance:    outcome.NewBalance,
			Description:   description,
			Duplicate:     outcome.Duplicate,
		}
		if outcome.Duplicate {
			return nil
		}

		tier, err := s.tiers.Reassign(ctx, tx, req.UserID, outcome.NewBalance, nil)
		if err != nil {
			return err
		}
		result.Tier = tier
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		s.log.Info("award replayed from ledger",
			"user_id", req.UserID, "action", req.Action)
		return &result, nil
	}

	s.log.Info("points awarded",
		"user_id", req.UserID, "action", req.Action,
		"amount", result.PointsAwarded, "new_balance", result.NewBalance)

	s.runFollowUps(ctx, req.UserID, req.Action, &result)
	return &result, nil
}

// runFollowUps advances trackers and pays out their bonuses. Achievement and
// challenge chains are independent, so they evaluate concurrently, each in
// its own transaction.
func (s *loyaltyService) runFollowUps(ctx context.Context, userID uuid.UUID, action string, result *AwardResult) {
	// Bonus credits are ledger entries themselves; feeding them back into the
	// trackers would recurse.
	if action == types.ActionAchievement || action == types.ActionChallenge {
		return
	}

	var (
		mu      sync.Mutex
		bonuses []BonusAward
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var awards []BonusAward
		err := s.db.WithContext(gctx).Transaction(func(tx *gorm.DB) error {
			var innerErr error
			awards, innerErr = s.achievements.Apply(gctx, tx, userID, action)
			return innerErr
		})
		if err != nil {
			return fmt.Errorf("achievement tracker: %w", err)
		}
		mu.Lock()
		bonuses = append(bonuses, awards...)
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		var awards []BonusAward
		err := s.db.WithContext(gctx).Transaction(func(tx *gorm.DB) error {
			var innerErr error
			awards, innerErr = s.challenges.Apply(gctx, tx, userID, action)
			return innerErr
		})
		if err != nil {
			return fmt.Errorf("challenge tracker: %w", err)
		}
		mu.Lock()
		bonuses = append(bonuses, awards...)
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error("tracker evaluation failed", "user_id", userID, "action", action, "error", err)
	}

	earned := result.PointsAwarded
	for _, bonus := range bonuses {
		outcome, err := s.payBonus(ctx, userID, bonus)
		if err != nil {
			s.log.Error("bonus payout failed",
				"user_id", userID, "source", bonus.SourceType, "name", bonus.Name, "error", err)
			continue
		}
		result.Bonuses = append(result.Bonuses, bonus)
		result.NewBalance = outcome.NewBalance
		if !outcome.Duplicate {
			earned += bonus.Points
		}
	}

	if len(result.Bonuses) > 0 {
		if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			tier, err := s.tiers.Reassign(ctx, tx, userID, result.NewBalance, nil)
			if err != nil {
				return err
			}
			if tier != nil {
				result.Tier = tier
			}
			return nil
		}); err != nil {
			s.log.Error("tier reassignment failed", "user_id", userID, "error", err)
		}
	}

	if s.leaderboard != nil && earned > 0 {
		if err := s.leaderboard.Bump(ctx, userID, earned); err != nil {
			s.log.Warn("leaderboard bump failed", "user_id", userID, "error", err)
		}
	}
}

// payBonus writes one tracker credit through the ledger. The reference id is
// derived from the source, so a retried follow-up chain can never pay the
// same unlock twice.
func (s *loyaltyService) payBonus(ctx context.Context, userID uuid.UUID, bonus BonusAward) (*LedgerOutcome, error) {
	var txType, description, reference string
	switch bonus.SourceType {
	case types.ActionChallenge:
		txType = types.TxChallengeCompletion
		description = fmt.Sprintf("Desafío completado: %s", bonus.Name)
		reference = fmt.Sprintf("challenge:%s", bonus.SourceID)
	default:
		txType = types.TxAchievementBonus
		description = fmt.Sprintf("Logro desbloqueado: %s", bonus.Name)
		reference = fmt.Sprintf("achievement:%s", bonus.SourceID)
	}

	rawMeta, _ := json.Marshal(map[string]string{
		"source_type": bonus.SourceType,
		"source_id":   bonus.SourceID.String(),
		"name":        bonus.Name,
	})
	return s.ledger.Award(ctx, nil, LedgerEntry{
		UserID:      userID,
		Amount:      bonus.Points,
		Type:        txType,
		Description: description,
		Metadata:    datatypes.JSON(rawMeta),
		ReferenceID: &reference,
	})
}

func (s *loyaltyService) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	account, err := s.ledger.Account(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &types.PointsAccount{UserID: userID}
	}

	tiers, err := s.tiers.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Account: account}
	for i, tier := range tiers {
		if !tier.Contains(account.Balance) {
			continue
		}
		summary.Tier = tier
		if i+1 < len(tiers) {
			summary.NextTier = tiers[i+1]
			summary.PointsToNextTier = tiers[i+1].MinPoints - account.Balance
		}
		break
	}
	return summary, nil
}

func (s *loyaltyService) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.PointsTransaction, error) {
	return s.ledger.History(ctx, userID, limit, offset)
}

func (s *loyaltyService) Achievements(ctx context.Context, userID uuid.UUID) ([]*AchievementStatus, error) {
	return s.achievements.ListForUser(ctx, userID)
}

func (s *loyaltyService) Challenges(ctx context.Context, userID uuid.UUID) ([]*ChallengeStatus, error) {
	return s.challenges.ListForUser(ctx, userID)
}

func (s *loyaltyService) Leaderboard(ctx context.Context, limit int) ([]redisclient.LeaderboardRow, error) {
	if s.leaderboard == nil {
		return []redisclient.LeaderboardRow{}, nil
	}
	return s.leaderboard.Top(ctx, limit)
}
