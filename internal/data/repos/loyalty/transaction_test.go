package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/boxtrail/loyalty-backend/internal/data/repos/testutil"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
)

func TestTransactionRepo_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewTransactionRepo(testutil.DB(t), testutil.Logger(t))

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, amount := range []int64{100, 200, 300} {
		row := &types.PointsTransaction{
			UserID:          userID,
			TransactionType: types.ActionShipment,
			Amount:          amount,
			Balance:         amount,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, tx, row); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := repo.ListByUser(ctx, tx, userID, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Amount != 300 || rows[2].Amount != 100 {
		t.Fatalf("expected newest first, got amounts %d..%d", rows[0].Amount, rows[2].Amount)
	}

	paged, err := repo.ListByUser(ctx, tx, userID, 2, 1)
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if len(paged) != 2 || paged[0].Amount != 200 {
		t.Fatalf("unexpected page: %+v", paged)
	}
}

func TestTransactionRepo_GetByReference(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewTransactionRepo(testutil.DB(t), testutil.Logger(t))

	userID := uuid.New()
	ref := "shipment-" + uuid.NewString()
	row := &types.PointsTransaction{
		UserID:          userID,
		TransactionType: types.ActionShipment,
		Amount:          100,
		Balance:         100,
		ReferenceID:     &ref,
	}
	if err := repo.Create(ctx, tx, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := repo.GetByReference(ctx, tx, userID, ref)
	if err != nil {
		t.Fatalf("get by reference: %v", err)
	}
	if found == nil || found.ID != row.ID {
		t.Fatalf("expected row %s, got %+v", row.ID, found)
	}

	missing, err := repo.GetByReference(ctx, tx, userID, "other-ref")
	if err != nil {
		t.Fatalf("get missing reference: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing reference, got %+v", missing)
	}

	// Same reference under a different user is a separate namespace.
	otherUser, err := repo.GetByReference(ctx, tx, uuid.New(), ref)
	if err != nil {
		t.Fatalf("get other user: %v", err)
	}
	if otherUser != nil {
		t.Fatalf("expected nil for other user, got %+v", otherUser)
	}
}

func TestTransactionRepo_DuplicateReferenceRejected(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewTransactionRepo(testutil.DB(t), testutil.Logger(t))

	userID := uuid.New()
	ref := "dup-" + uuid.NewString()
	first := &types.PointsTransaction{
		UserID:          userID,
		TransactionType: types.ActionShipment,
		Amount:          100,
		Balance:         100,
		ReferenceID:     &ref,
	}
	if err := repo.Create(ctx, tx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	second := &types.PointsTransaction{
		UserID:          userID,
		TransactionType: types.ActionShipment,
		Amount:          100,
		Balance:         200,
		ReferenceID:     &ref,
	}
	if err := repo.Create(ctx, tx, second); err == nil {
		t.Fatalf("expected unique constraint violation")
	}
}

func TestTransactionRepo_TypeExistsInRange(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewTransactionRepo(testutil.DB(t), testutil.Logger(t))

	userID := uuid.New()
	row := &types.PointsTransaction{
		UserID:          userID,
		TransactionType: types.ActionBirthday,
		Amount:          1000,
		Balance:         1000,
		CreatedAt:       time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.Create(ctx, tx, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	yearStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exists, err := repo.TypeExistsInRange(ctx, tx, userID, types.ActionBirthday, yearStart, yearStart.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected birthday transaction inside 2026")
	}

	nextYear := yearStart.AddDate(1, 0, 0)
	exists, err = repo.TypeExistsInRange(ctx, tx, userID, types.ActionBirthday, nextYear, nextYear.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("exists next year: %v", err)
	}
	if exists {
		t.Fatalf("expected no birthday transaction inside 2027")
	}
}
