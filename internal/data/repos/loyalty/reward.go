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

type RewardRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Reward, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Reward, error)
	Upsert(ctx context.Context, tx *gorm.DB, rewards []*types.Reward) error
}

type rewardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewardRepo(db *gorm.DB, baseLog *logger.Logger) RewardRepo {
	return &rewardRepo{db: db, log: baseLog.With("repo", "RewardRepo")}
}

func (r *rewardRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Reward, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var row types.Reward
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

func (r *rewardRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Reward, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var results []*types.Reward
	if err := t.WithContext(ctx).
		Where("is_active = ?", true).
		Order("points_required ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *rewardRepo) Upsert(ctx context.Context, tx *gorm.DB, rewards []*types.Reward) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rewards) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"points_required", "is_active"}),
		}).
		Create(&rewards).Error
}
