package loyalty

import (
	"context"

	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TierRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.Tier, error)
	Upsert(ctx context.Context, tx *gorm.DB, tiers []*types.Tier) error
}

type tierRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTierRepo(db *gorm.DB, baseLog *logger.Logger) TierRepo {
	return &tierRepo{db: db, log: baseLog.With("repo", "TierRepo")}
}

func (r *tierRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Tier, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var results []*types.Tier
	if err := t.WithContext(ctx).
		Order("min_points ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tierRepo) Upsert(ctx context.Context, tx *gorm.DB, tiers []*types.Tier) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(tiers) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"min_points", "max_points", "benefits"}),
		}).
		Create(&tiers).Error
}
