package loyalty

import (
	"context"
	"errors"

	"github.com/google/uuid"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Achievement, error)
	ListActiveByTrigger(ctx context.Context, tx *gorm.DB, triggerType string) ([]*types.Achievement, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error)
	Upsert(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *achievementRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Achievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var row types.Achievement
	if err := t.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *achievementRepo) ListActiveByTrigger(ctx context.Context, tx *gorm.DB, triggerType string) ([]*types.Achievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var results []*types.Achievement
	if err := t.WithContext(ctx).
		Where("trigger_type = ? AND is_active = ?", triggerType, true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *achievementRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var results []*types.Achievement
	if err := t.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *achievementRepo) Upsert(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(achievements) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"trigger_type", "max_progress", "points_reward", "is_active"}),
		}).
		Create(&achievements).Error
}
