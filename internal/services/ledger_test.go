package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	"github.com/boxtrail/loyalty-backend/internal/data/repos/testutil"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
)

func newLedger(t *testing.T) LedgerService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewLedgerService(db, log, repos.NewAccountRepo(db, log), repos.NewTransactionRepo(db, log))
}

func TestLedgerAward_InitializesMissingAccount(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	ledger := newLedger(t)

	userID := uuid.New()
	outcome, err := ledger.Award(ctx, tx, LedgerEntry{
		UserID: userID,
		Amount: 100,
		Type:   types.ActionShipment,
	})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if outcome.NewBalance != 100 {
		t.Fatalf("balance=%d want 100", outcome.NewBalance)
	}

	account, err := ledger.Account(ctx, tx, userID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account == nil || account.Balance != 100 || account.TotalEarned != 100 || account.TotalRedeemed != 0 {
		t.Fatalf("unexpected account state: %+v", account)
	}
}

func TestLedgerAward_SnapshotsAndTotalsStayConsistent(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	ledger := newLedger(t)

	userID := uuid.New()
	amounts := []int64{100, 500, 250}
	var running int64
	for _, amount := range amounts {
		outcome, err := ledger.Award(ctx, tx, LedgerEntry{
			UserID: userID,
			Amount: amount,
			Type:   types.ActionShipment,
		})
		if err != nil {
			t.Fatalf("award %d: %v", amount, err)
		}
		running += amount
		if outcome.NewBalance != running {
			t.Fatalf("balance=%d want %d", outcome.NewBalance, running)
		}
		if outcome.Transaction.Balance != running {
			t.Fatalf("snapshot=%d want %d", outcome.Transaction.Balance, running)
		}
	}

	account, err := ledger.Account(ctx, tx, userID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance != account.TotalEarned-account.TotalRedeemed {
		t.Fatalf("invariant broken: %+v", account)
	}
}

func TestLedgerAward_DuplicateReferenceReturnsOriginal(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	ledger := newLedger(t)

	userID := uuid.New()
	ref := "ship-" + uuid.NewString()

	first, err := ledger.Award(ctx, tx, LedgerEntry{
		UserID:      userID,
		Amount:      100,
		Type:        types.ActionShipment,
		ReferenceID: &ref,
	})
	if err != nil {
		t.Fatalf("first award: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first award flagged duplicate")
	}

	second, err := ledger.Award(ctx, tx, LedgerEntry{
		UserID:      userID,
		Amount:      100,
		Type:        types.ActionShipment,
		ReferenceID: &ref,
	})
	if err != nil {
		t.Fatalf("second award: %v", err)
	}
	if !second.Duplicate {
		t.Fatalf("expected duplicate flag")
	}
	if second.NewBalance != 100 {
		t.Fatalf("duplicate changed balance: %d", second.NewBalance)
	}
	if second.Transaction.ID != first.Transaction.ID {
		t.Fatalf("duplicate returned a different transaction")
	}

	account, err := ledger.Account(ctx, tx, userID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance != 100 || account.TotalEarned != 100 {
		t.Fatalf("duplicate mutated account: %+v", account)
	}
}

func TestLedgerAward_RejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	_, err := ledger.Award(ctx, nil, LedgerEntry{UserID: uuid.New(), Amount: 0, Type: types.ActionShipment})
	if !errors.Is(err, ErrNoPointsToAward) {
		t.Fatalf("expected ErrNoPointsToAward, got %v", err)
	}
}

func TestLedgerDeduct_InsufficientLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	ledger := newLedger(t)

	userID := uuid.New()
	testutil.SeedAccount(t, ctx, tx, userID, 100)

	_, err := ledger.Deduct(ctx, tx, LedgerEntry{
		UserID: userID,
		Amount: 500,
		Type:   types.TxRewardRedemption,
	})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}

	account, err := ledger.Account(ctx, tx, userID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance != 100 || account.TotalRedeemed != 0 {
		t.Fatalf("failed deduct mutated account: %+v", account)
	}
	history, err := ledger.History(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, row := range history {
		if row.TransactionType == types.TxRewardRedemption {
			t.Fatalf("failed deduct left a ledger row")
		}
	}
}

func TestLedgerDeduct_UpdatesBalanceAndTotalRedeemed(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	ledger := newLedger(t)

	userID := uuid.New()
	testutil.SeedAccount(t, ctx, tx, userID, 1000)

	outcome, err := ledger.Deduct(ctx, tx, LedgerEntry{
		UserID: userID,
		Amount: 400,
		Type:   types.TxRewardRedemption,
	})
	if err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if outcome.NewBalance != 600 {
		t.Fatalf("balance=%d want 600", outcome.NewBalance)
	}
	if outcome.Transaction.Amount != -400 {
		t.Fatalf("amount=%d want -400", outcome.Transaction.Amount)
	}

	account, err := ledger.Account(ctx, tx, userID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance != 600 || account.TotalRedeemed != 400 || account.TotalEarned != 1000 {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.Balance != account.TotalEarned-account.TotalRedeemed {
		t.Fatalf("invariant broken: %+v", account)
	}
}

func TestLedgerDeduct_MissingAccountIsInsufficient(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	ledger := newLedger(t)

	_, err := ledger.Deduct(ctx, tx, LedgerEntry{
		UserID: uuid.New(),
		Amount: 1,
		Type:   types.TxRewardRedemption,
	})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}
