package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/boxtrail/loyalty-backend/internal/data/repos/testutil"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
)

func TestUserAchievementRepo_UnlockedRowIsTerminal(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewUserAchievementRepo(testutil.DB(t), testutil.Logger(t))

	userID := uuid.New()
	ach := testutil.SeedAchievement(t, ctx, tx, "ach-"+uuid.NewString(), types.ActionShipment, 3, 100)

	if err := repo.Create(ctx, tx, &types.UserAchievement{UserID: userID, AchievementID: ach.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.MarkUnlocked(ctx, tx, userID, ach.ID, 3, time.Now()); err != nil {
		t.Fatalf("mark unlocked: %v", err)
	}

	row, err := repo.Get(ctx, tx, userID, ach.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !row.IsUnlocked || row.Progress != 3 || row.UnlockedAt == nil {
		t.Fatalf("expected unlocked row, got %+v", row)
	}

	// Further updates must not move a terminal row.
	if err := repo.UpdateProgress(ctx, tx, userID, ach.ID, 99); err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if err := repo.MarkUnlocked(ctx, tx, userID, ach.ID, 99, time.Now()); err != nil {
		t.Fatalf("second mark unlocked: %v", err)
	}

	row, err = repo.Get(ctx, tx, userID, ach.ID)
	if err != nil {
		t.Fatalf("get after updates: %v", err)
	}
	if row.Progress != 3 {
		t.Fatalf("terminal row mutated: progress=%d", row.Progress)
	}
}

func TestUserChallengeRepo_CompletedRowIsTerminal(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewUserChallengeRepo(testutil.DB(t), testutil.Logger(t))

	userID := uuid.New()
	chal := testutil.SeedChallenge(t, ctx, tx, "chal-"+uuid.NewString(), types.ActionShipment, 5, 500)

	if err := repo.Create(ctx, tx, &types.UserChallenge{UserID: userID, ChallengeID: chal.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateProgress(ctx, tx, userID, chal.ID, 4); err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if err := repo.MarkCompleted(ctx, tx, userID, chal.ID, 5, time.Now()); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	if err := repo.UpdateProgress(ctx, tx, userID, chal.ID, 1); err != nil {
		t.Fatalf("update after completion: %v", err)
	}

	row, err := repo.Get(ctx, tx, userID, chal.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !row.IsCompleted || row.CurrentProgress != 5 || row.CompletedAt == nil {
		t.Fatalf("expected terminal completed row, got %+v", row)
	}
}

func TestUserAchievementRepo_ListByUser(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewUserAchievementRepo(testutil.DB(t), testutil.Logger(t))

	userID := uuid.New()
	for i := 0; i < 2; i++ {
		ach := testutil.SeedAchievement(t, ctx, tx, "ach-"+uuid.NewString(), types.ActionReferral, 1, 50)
		if err := repo.Create(ctx, tx, &types.UserAchievement{UserID: userID, AchievementID: ach.ID}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := repo.ListByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}
