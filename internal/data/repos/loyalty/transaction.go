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

type TransactionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, transaction *types.PointsTransaction) error
	GetByReference(ctx context.Context, tx *gorm.DB, userID uuid.UUID, referenceID string) (*types.PointsTransaction, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.PointsTransaction, error)
	// TypeExistsInRange reports whether the user already has a transaction of
	// txType created inside [from, to). Used for once-per-period awards.
	TypeExistsInRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, txType string, from, to time.Time) (bool, error)
}

type transactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransactionRepo(db *gorm.DB, baseLog *logger.Logger) TransactionRepo {
	return &transactionRepo{db: db, log: baseLog.With("repo", "TransactionRepo")}
}

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, transaction *types.PointsTransaction) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepo) GetByReference(ctx context.Context, tx *gorm.DB, userID uuid.UUID, referenceID string) (*types.PointsTransaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var row types.PointsTransaction
	if err := t.WithContext(ctx).
		Where("user_id = ? AND reference_id = ?", userID, referenceID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.PointsTransaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var results []*types.PointsTransaction
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *transactionRepo) TypeExistsInRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, txType string, from, to time.Time) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	var count int64
	if err := t.WithContext(ctx).
		Model(&types.PointsTransaction{}).
		Where("user_id = ? AND transaction_type = ? AND created_at >= ? AND created_at < ?", userID, txType, from, to).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
