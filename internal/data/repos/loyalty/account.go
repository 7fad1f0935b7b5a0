package loyalty

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PointsAccount, error)
	// GetForUpdate locks the account row for the duration of tx. Callers must
	// pass the transaction the subsequent writes will run in.
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PointsAccount, error)
	Create(ctx context.Context, tx *gorm.DB, account *types.PointsAccount) error
	UpdateBalances(ctx context.Context, tx *gorm.DB, userID uuid.UUID, balance, totalEarned, totalRedeemed int64) error
	UpdateTier(ctx context.Context, tx *gorm.DB, userID uuid.UUID, tierID uuid.UUID) error
}

type accountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return &accountRepo{db: db, log: baseLog.With("repo", "AccountRepo")}
}

func (r *accountRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PointsAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var account types.PointsAccount
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PointsAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx)
	// SQLite (tests) has a single writer and no FOR UPDATE syntax.
	if transaction.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var account types.PointsAccount
	if err := q.
		Where("user_id = ?", userID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) Create(ctx context.Context, tx *gorm.DB, account *types.PointsAccount) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(account).Error
}

func (r *accountRepo) UpdateBalances(ctx context.Context, tx *gorm.DB, userID uuid.UUID, balance, totalEarned, totalRedeemed int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.PointsAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"balance":        balance,
			"total_earned":   totalEarned,
			"total_redeemed": totalRedeemed,
			"updated_at":     time.Now(),
		}).Error
}

func (r *accountRepo) UpdateTier(ctx context.Context, tx *gorm.DB, userID uuid.UUID, tierID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.PointsAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"tier_id":    tierID,
			"updated_at": time.Now(),
		}).Error
}
