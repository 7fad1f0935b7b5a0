package loyalty

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserAchievementRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*types.UserAchievement, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.UserAchievement) error
	UpdateProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, progress int) error
	MarkUnlocked(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, progress int, unlockedAt time.Time) error
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return &userAchievementRepo{db: db, log: baseLog.With("repo", "UserAchievementRepo")}
}

func (r *userAchievementRepo) Get(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*types.UserAchievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var row types.UserAchievement
	if err := t.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *userAchievementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var results []*types.UserAchievement
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userAchievementRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserAchievement) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *userAchievementRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, progress int) error {
	t := tx
	if t == nil {
		t = r.db
	}
	// is_unlocked guard keeps terminal rows immutable.
	return t.WithContext(ctx).
		Model(&types.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND is_unlocked = ?", userID, achievementID, false).
		Updates(map[string]any{
			"progress":   progress,
			"updated_at": time.Now(),
		}).Error
}

func (r *userAchievementRepo) MarkUnlocked(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, progress int, unlockedAt time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND is_unlocked = ?", userID, achievementID, false).
		Updates(map[string]any{
			"progress":    progress,
			"is_unlocked": true,
			"unlocked_at": unlockedAt,
			"updated_at":  time.Now(),
		}).Error
}
