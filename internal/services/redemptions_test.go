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

func newRedemptionService(t *testing.T) (RedemptionService, LedgerService) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ledger := NewLedgerService(db, log, repos.NewAccountRepo(db, log), repos.NewTransactionRepo(db, log))
	tiers := NewTierService(db, log, repos.NewTierRepo(db, log), repos.NewAccountRepo(db, log))
	svc := NewRedemptionService(db, log, ledger, tiers, repos.NewRewardRepo(db, log), repos.NewRedemptionRepo(db, log))
	return svc, ledger
}

func TestRedeem_SpendsPointsAndRecordsRedemption(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	svc, ledger := newRedemptionService(t)

	userID := uuid.New()
	if _, err := ledger.Award(ctx, nil, LedgerEntry{UserID: userID, Amount: 2000, Type: types.ActionShipment}); err != nil {
		t.Fatalf("fund account: %v", err)
	}
	reward := testutil.SeedReward(t, ctx, db, "reward-"+uuid.NewString(), 1500)

	result, err := svc.Redeem(ctx, userID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if result.NewBalance != 500 {
		t.Fatalf("balance=%d want 500", result.NewBalance)
	}
	if result.Redemption.Status != types.RedemptionStatusPending {
		t.Fatalf("status=%q want pending", result.Redemption.Status)
	}
	if result.Redemption.PointsSpent != 1500 {
		t.Fatalf("points_spent=%d want 1500", result.Redemption.PointsSpent)
	}

	account, err := ledger.Account(ctx, nil, userID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance != 500 || account.TotalRedeemed != 1500 {
		t.Fatalf("unexpected account: %+v", account)
	}

	history, err := svc.History(ctx, userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != result.Redemption.ID {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestRedeem_InsufficientBalanceLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	svc, ledger := newRedemptionService(t)

	userID := uuid.New()
	if _, err := ledger.Award(ctx, nil, LedgerEntry{UserID: userID, Amount: 100, Type: types.ActionShipment}); err != nil {
		t.Fatalf("fund account: %v", err)
	}
	reward := testutil.SeedReward(t, ctx, db, "reward-"+uuid.NewString(), 1500)

	_, err := svc.Redeem(ctx, userID, reward.ID)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}

	account, err := ledger.Account(ctx, nil, userID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance != 100 || account.TotalRedeemed != 0 {
		t.Fatalf("failed redemption mutated account: %+v", account)
	}
	history, err := svc.History(ctx, userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("failed redemption left a row: %+v", history)
	}
}

func TestRedeem_UnknownOrInactiveReward(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	svc, ledger := newRedemptionService(t)

	userID := uuid.New()
	if _, err := ledger.Award(ctx, nil, LedgerEntry{UserID: userID, Amount: 5000, Type: types.ActionShipment}); err != nil {
		t.Fatalf("fund account: %v", err)
	}

	if _, err := svc.Redeem(ctx, userID, uuid.New()); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound for unknown id, got %v", err)
	}

	inactive := testutil.SeedReward(t, ctx, db, "reward-"+uuid.NewString(), 100)
	if err := db.Model(&types.Reward{}).Where("id = ?", inactive.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate reward: %v", err)
	}
	if _, err := svc.Redeem(ctx, userID, inactive.ID); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound for inactive reward, got %v", err)
	}
}
