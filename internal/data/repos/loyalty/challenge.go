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

type ChallengeRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Challenge, error)
	ListActiveByType(ctx context.Context, tx *gorm.DB, challengeType string) ([]*types.Challenge, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Challenge, error)
	Upsert(ctx context.Context, tx *gorm.DB, challenges []*types.Challenge) error
}

type challengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	return &challengeRepo{db: db, log: baseLog.With("repo", "ChallengeRepo")}
}

func (r *challengeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Challenge, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var row types.Challenge
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

func (r *challengeRepo) ListActiveByType(ctx context.Context, tx *gorm.DB, challengeType string) ([]*types.Challenge, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var results []*types.Challenge
	if err := t.WithContext(ctx).
		Where("challenge_type = ? AND is_active = ?", challengeType, true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *challengeRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Challenge, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var results []*types.Challenge
	if err := t.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *challengeRepo) Upsert(ctx context.Context, tx *gorm.DB, challenges []*types.Challenge) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(challenges) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"challenge_type", "goal", "points_reward", "is_active"}),
		}).
		Create(&challenges).Error
}
