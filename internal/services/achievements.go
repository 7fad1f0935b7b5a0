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

// BonusAward is a pending credit produced by a tracker. The engine executes it
// through the ledger after the tracker's own transaction commits, so an
// unlocked achievement is never rolled back by a failed bonus.
type BonusAward struct {
	SourceType string
	SourceID   uuid.UUID
	Name       string
	Points     int64
}

// AchievementStatus is an achievement joined with one user's progress row.
// Users with no row yet report zero progress.
type AchievementStatus struct {
	Achievement *types.Achievement `json:"achievement"`
	Progress    int                `json:"progress"`
	IsUnlocked  bool               `json:"is_unlocked"`
	UnlockedAt  *time.Time         `json:"unlocked_at,omitempty"`
}

type AchievementService interface {
	// Apply advances every active achievement whose trigger matches the
	// action by one step and returns a bonus command for each unlock.
	Apply(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string) ([]BonusAward, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*AchievementStatus, error)
}

type achievementService struct {
	db       *gorm.DB
	log      *logger.Logger
	achRepo  repos.AchievementRepo
	userRepo repos.UserAchievementRepo
}

func NewAchievementService(db *gorm.DB, log *logger.Logger, achRepo repos.AchievementRepo, userRepo repos.UserAchievementRepo) AchievementService {
	return &achievementService{
		db:       db,
		log:      log.With("service", "AchievementService"),
		achRepo:  achRepo,
		userRepo: userRepo,
	}
}

func (as *achievementService) Apply(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string) ([]BonusAward, error) {
	achievements, err := as.achRepo.ListActiveByTrigger(ctx, tx, action)
	if err != nil {
		return nil, err
	}

	var bonuses []BonusAward
	for _, ach := range achievements {
		if types.UnsupportedTrigger(ach.TriggerType) {
			as.log.Warn("achievement has unsupported trigger, skipping",
				"achievement", ach.Name, "trigger_type", ach.TriggerType)
			continue
		}

		unlocked, err := as.advance(ctx, tx, userID, ach)
		if err != nil {
			return nil, err
		}
		if unlocked {
			bonuses = append(bonuses, BonusAward{
				SourceType: types.ActionAchievement,
				SourceID:   ach.ID,
				Name:       ach.Name,
				Points:     ach.PointsReward,
			})
		}
	}
	return bonuses, nil
}

// advance bumps the user's progress row for one achievement, creating it on
// first contact, and reports whether this step crossed max_progress.
func (as *achievementService) advance(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ach *types.Achievement) (bool, error) {
	row, err := as.userRepo.Get(ctx, tx, userID, ach.ID)
	if err != nil {
		return false, err
	}
	if row == nil {
		row = &types.UserAchievement{UserID: userID, AchievementID: ach.ID}
		if err := as.userRepo.Create(ctx, tx, row); err != nil {
			return false, err
		}
	}
	if row.IsUnlocked {
		return false, nil
	}

	progress := row.Progress + 1
	if progress >= ach.MaxProgress {
		if err := as.userRepo.MarkUnlocked(ctx, tx, userID, ach.ID, ach.MaxProgress, time.Now()); err != nil {
			return false, err
		}
		as.log.Info("achievement unlocked",
			"user_id", userID, "achievement", ach.Name, "points_reward", ach.PointsReward)
		return true, nil
	}
	return false, as.userRepo.UpdateProgress(ctx, tx, userID, ach.ID, progress)
}

func (as *achievementService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*AchievementStatus, error) {
	achievements, err := as.achRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, err
	}
	rows, err := as.userRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	byAchievement := make(map[uuid.UUID]*types.UserAchievement, len(rows))
	for _, row := range rows {
		byAchievement[row.AchievementID] = row
	}

	statuses := make([]*AchievementStatus, 0, len(achievements))
	for _, ach := range achievements {
		status := &AchievementStatus{Achievement: ach}
		if row, ok := byAchievement[ach.ID]; ok {
			status.Progress = row.Progress
			status.IsUnlocked = row.IsUnlocked
			status.UnlockedAt = row.UnlockedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
