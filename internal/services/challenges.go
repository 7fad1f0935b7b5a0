package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// ChallengeStatus is a challenge joined with one user's progress row.
type ChallengeStatus struct {
	Challenge       *types.Challenge `json:"challenge"`
	CurrentProgress int              `json:"current_progress"`
	IsCompleted     bool             `json:"is_completed"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

type ChallengeService interface {
	// Apply advances every active challenge whose type matches the action by
	// one step and returns a bonus command for each completion.
	Apply(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string) ([]BonusAward, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*ChallengeStatus, error)
}

type challengeService struct {
	db       *gorm.DB
	log      *logger.Logger
	chalRepo repos.ChallengeRepo
	userRepo repos.UserChallengeRepo
}

func NewChallengeService(db *gorm.DB, log *logger.Logger, chalRepo repos.ChallengeRepo, userRepo repos.UserChallengeRepo) ChallengeService {
	return &challengeService{
		db:       db,
		log:      log.With("service", "ChallengeService"),
		chalRepo: chalRepo,
		userRepo: userRepo,
	}
}

func (cs *challengeService) Apply(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string) ([]BonusAward, error) {
	challenges, err := cs.chalRepo.ListActiveByType(ctx, tx, action)
	if err != nil {
		return nil, err
	}

	var bonuses []BonusAward
	for _, chal := range challenges {
		completed, err := cs.advance(ctx, tx, userID, chal)
		if err != nil {
			return nil, err
		}
		if completed {
			bonuses = append(bonuses, BonusAward{
				SourceType: types.ActionChallenge,
				SourceID:   chal.ID,
				Name:       chal.Name,
				Points:     chal.PointsReward,
			})
		}
	}
	return bonuses, nil
}

func (cs *challengeService) advance(ctx context.Context, tx *gorm.DB, userID uuid.UUID, chal *types.Challenge) (bool, error) {
	row, err := cs.userRepo.Get(ctx, tx, userID, chal.ID)
	if err != nil {
		return false, err
	}
	if row == nil {
		row = &types.UserChallenge{UserID: userID, ChallengeID: chal.ID}
		if err := cs.userRepo.Create(ctx, tx, row); err != nil {
			return false, err
		}
	}
	if row.IsCompleted {
		return false, nil
	}

	progress := row.CurrentProgress + 1
	if progress >= chal.Goal {
		if err := cs.userRepo.MarkCompleted(ctx, tx, userID, chal.ID, chal.Goal, time.Now()); err != nil {
			return false, err
		}
		cs.log.Info("challenge completed",
			"user_id", userID, "challenge", chal.Name, "points_reward", chal.PointsReward)
		return true, nil
	}
	return false, cs.userRepo.UpdateProgress(ctx, tx, userID, chal.ID, progress)
}

func (cs *challengeService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*ChallengeStatus, error) {
	challenges, err := cs.chalRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, err
	}
	rows, err := cs.userRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	byChallenge := make(map[uuid.UUID]*types.UserChallenge, len(rows))
	for _, row := range rows {
		byChallenge[row.ChallengeID] = row
	}

	statuses := make([]*ChallengeStatus, 0, len(challenges))
	for _, chal := range challenges {
		status := &ChallengeStatus{Challenge: chal}
		if row, ok := byChallenge[chal.ID]; ok {
			status.CurrentProgress = row.CurrentProgress
			status.IsCompleted = row.IsCompleted
			status.CompletedAt = row.CompletedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
