package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LedgerEntry describes one point movement. Amount is always positive; Award
// credits it and Deduct debits it.
type LedgerEntry struct {
	UserID      uuid.UUID
	Amount      int64
	Type        string
	Description string
	Metadata    datatypes.JSON
	ReferenceID *string
}

// LedgerOutcome reports the committed movement. Duplicate is set when the
// entry's reference id was already recorded; in that case the original
// transaction is returned and nothing was written.
type LedgerOutcome struct {
	NewBalance  int64
	Transaction *types.PointsTransaction
	Duplicate   bool
}

// LedgerService owns points_accounts and points_transactions. The transaction
// insert and the account update always commit or fail together, and the
// account row is locked for the duration so concurrent movements for one user
// serialize.
type LedgerService interface {
	Award(ctx context.Context, tx *gorm.DB, entry LedgerEntry) (*LedgerOutcome, error)
	Deduct(ctx context.Context, tx *gorm.DB, entry LedgerEntry) (*LedgerOutcome, error)
	Account(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PointsAccount, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.PointsTransaction, error)
}

type ledgerService struct {
	db              *gorm.DB
	log             *logger.Logger
	accountRepo     repos.AccountRepo
	transactionRepo repos.TransactionRepo
}

func NewLedgerService(db *gorm.DB, log *logger.Logger, accountRepo repos.AccountRepo, transactionRepo repos.TransactionRepo) LedgerService {
	return &ledgerService{
		db:              db,
		log:             log.With("service", "LedgerService"),
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

func (ls *ledgerService) Award(ctx context.Context, tx *gorm.DB, entry LedgerEntry) (*LedgerOutcome, error) {
	if entry.Amount <= 0 {
		return nil, ErrNoPointsToAward
	}
	return ls.inTransaction(ctx, tx, func(inner *gorm.DB) (*LedgerOutcome, error) {
		return ls.award(ctx, inner, entry)
	})
}

func (ls *ledgerService) Deduct(ctx context.Context, tx *gorm.DB, entry LedgerEntry) (*LedgerOutcome, error) {
	if entry.Amount <= 0 {
		return nil, fmt.Errorf("deduct amount must be positive, got %d", entry.Amount)
	}
	return ls.inTransaction(ctx, tx, func(inner *gorm.DB) (*LedgerOutcome, error) {
		return ls.deduct(ctx, inner, entry)
	})
}

func (ls *ledgerService) Account(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PointsAccount, error) {
	return ls.accountRepo.Get(ctx, tx, userID)
}

func (ls *ledgerService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.PointsTransaction, error) {
	return ls.transactionRepo.ListByUser(ctx, nil, userID, limit, offset)
}

// inTransaction runs fn inside tx when one is supplied, otherwise inside a
// fresh transaction on the root handle.
func (ls *ledgerService) inTransaction(ctx context.Context, tx *gorm.DB, fn func(*gorm.DB) (*LedgerOutcome, error)) (*LedgerOutcome, error) {
	if tx != nil {
		return fn(tx)
	}
	var outcome *LedgerOutcome
	err := ls.db.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var innerErr error
		outcome, innerErr = fn(inner)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (ls *ledgerService) award(ctx context.Context, tx *gorm.DB, entry LedgerEntry) (*LedgerOutcome, error) {
	if entry.ReferenceID != nil {
		existing, err := ls.transactionRepo.GetByReference(ctx, tx, entry.UserID, *entry.ReferenceID)
		if err != nil {
			return nil, fmt.Errorf("idempotency lookup: %w", err)
		}
		if existing != nil {
			ls.log.Info("duplicate award suppressed",
				"user_id", entry.UserID, "reference_id", *entry.ReferenceID)
			return &LedgerOutcome{NewBalance: existing.Balance, Transaction: existing, Duplicate: true}, nil
		}
	}

	account, err := ls.lockOrInitAccount(ctx, tx, entry.UserID)
	if err != nil {
		return nil, err
	}

	newBalance := account.Balance + entry.Amount
	row := &types.PointsTransaction{
		UserID:          entry.UserID,
		TransactionType: entry.Type,
		Amount:          entry.Amount,
		Balance:         newBalance,
		Description:     entry.Description,
		Metadata:        entry.Metadata,
		ReferenceID:     entry.ReferenceID,
	}
	if err := ls.transactionRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	if err := ls.accountRepo.UpdateBalances(ctx, tx, entry.UserID, newBalance, account.TotalEarned+entry.Amount, account.TotalRedeemed); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return &LedgerOutcome{NewBalance: newBalance, Transaction: row}, nil
}

func (ls *ledgerService) deduct(ctx context.Context, tx *gorm.DB, entry LedgerEntry) (*LedgerOutcome, error) {
	account, err := ls.accountRepo.GetForUpdate(ctx, tx, entry.UserID)
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	if account == nil || account.Balance < entry.Amount {
		return nil, ErrInsufficientPoints
	}

	newBalance := account.Balance - entry.Amount
	row := &types.PointsTransaction{
		UserID:          entry.UserID,
		TransactionType: entry.Type,
		Amount:          -entry.Amount,
		Balance:         newBalance,
		Description:     entry.Description,
		Metadata:        entry.Metadata,
		ReferenceID:     entry.ReferenceID,
	}
	if err := ls.transactionRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	if err := ls.accountRepo.UpdateBalances(ctx, tx, entry.UserID, newBalance, account.TotalEarned, account.TotalRedeemed+entry.Amount); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return &LedgerOutcome{NewBalance: newBalance, Transaction: row}, nil
}

func (ls *ledgerService) lockOrInitAccount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PointsAccount, error) {
	account, err := ls.accountRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account = &types.PointsAccount{UserID: userID}
	if err := ls.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("init account: %w", err)
	}
	return account, nil
}
