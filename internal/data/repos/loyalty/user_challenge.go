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

type UserChallengeRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID) (*types.UserChallenge, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserChallenge, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.UserChallenge) error
	UpdateProgress(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID, progress int) error
	MarkCompleted(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID, progress int, completedAt time.Time) error
}

type userChallengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserChallengeRepo(db *gorm.DB, baseLog *logger.Logger) UserChallengeRepo {
	return &userChallengeRepo{db: db, log: baseLog.With("repo", "UserChallengeRepo")}
}

func (r *userChallengeRepo) Get(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID) (*types.UserChallenge, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var row types.UserChallenge
	if err := t.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *userChallengeRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserChallenge, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var results []*types.UserChallenge
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userChallengeRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserChallenge) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *userChallengeRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID, progress int) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.UserChallenge{}).
		Where("user_id = ? AND challenge_id = ? AND is_completed = ?", userID, challengeID, false).
		Updates(map[string]any{
			"current_progress": progress,
			"updated_at":       time.Now(),
		}).Error
}

func (r *userChallengeRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID, progress int, completedAt time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.UserChallenge{}).
		Where("user_id = ? AND challenge_id = ? AND is_completed = ?", userID, challengeID, false).
		Updates(map[string]any{
			"current_progress": progress,
			"is_completed":     true,
			"completed_at":     completedAt,
			"updated_at":       time.Now(),
		}).Error
}
