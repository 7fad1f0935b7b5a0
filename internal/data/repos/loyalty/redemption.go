package loyalty

import (
	"context"

	"github.com/google/uuid"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type RedemptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, redemption *types.Redemption) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Redemption, error)
}

type redemptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRedemptionRepo(db *gorm.DB, baseLog *logger.Logger) RedemptionRepo {
	return &redemptionRepo{db: db, log: baseLog.With("repo", "RedemptionRepo")}
}

func (r *redemptionRepo) Create(ctx context.Context, tx *gorm.DB, redemption *types.Redemption) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(redemption).Error
}

func (r *redemptionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Redemption, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var results []*types.Redemption
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
