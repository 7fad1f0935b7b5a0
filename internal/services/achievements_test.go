package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	"github.com/boxtrail/loyalty-backend/internal/data/repos/testutil"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
)

func newAchievementService(t *testing.T) AchievementService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewAchievementService(db, log, repos.NewAchievementRepo(db, log), repos.NewUserAchievementRepo(db, log))
}

func TestAchievementApply_UnlocksExactlyOnThreshold(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAchievementService(t)

	ach := testutil.SeedAchievement(t, ctx, tx, "ach-"+uuid.NewString(), types.ActionShipment, 3, 500)
	userID := uuid.New()

	// Two steps: no bonus yet.
	for step := 1; step <= 2; step++ {
		bonuses, err := svc.Apply(ctx, tx, userID, types.ActionShipment)
		if err != nil {
			t.Fatalf("apply step %d: %v", step, err)
		}
		if len(bonuses) != 0 {
			t.Fatalf("step %d produced bonuses: %+v", step, bonuses)
		}
	}

	// Third step crosses max_progress.
	bonuses, err := svc.Apply(ctx, tx, userID, types.ActionShipment)
	if err != nil {
		t.Fatalf("apply step 3: %v", err)
	}
	if len(bonuses) != 1 {
		t.Fatalf("expected 1 bonus, got %d", len(bonuses))
	}
	if bonuses[0].SourceID != ach.ID || bonuses[0].Points != 500 || bonuses[0].SourceType != types.ActionAchievement {
		t.Fatalf("unexpected bonus: %+v", bonuses[0])
	}

	// Terminal: further actions never re-award.
	bonuses, err = svc.Apply(ctx, tx, userID, types.ActionShipment)
	if err != nil {
		t.Fatalf("apply after unlock: %v", err)
	}
	if len(bonuses) != 0 {
		t.Fatalf("unlocked achievement re-awarded: %+v", bonuses)
	}
}

func TestAchievementApply_IgnoresOtherTriggers(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAchievementService(t)

	testutil.SeedAchievement(t, ctx, tx, "ach-"+uuid.NewString(), types.ActionReferral, 1, 100)
	userID := uuid.New()

	bonuses, err := svc.Apply(ctx, tx, userID, types.ActionShipment)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(bonuses) != 0 {
		t.Fatalf("referral achievement advanced by shipment: %+v", bonuses)
	}
}

func TestAchievementListForUser_MergesProgress(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := newAchievementService(t)

	// ListForUser reads through the root handle, so seed committed rows.
	ach := testutil.SeedAchievement(t, ctx, db, "ach-"+uuid.NewString(), types.ActionReview, 5, 200)
	userID := uuid.New()
	userRepo := repos.NewUserAchievementRepo(db, log)
	if err := userRepo.Create(ctx, nil, &types.UserAchievement{UserID: userID, AchievementID: ach.ID, Progress: 2}); err != nil {
		t.Fatalf("create progress: %v", err)
	}

	statuses, err := svc.ListForUser(ctx, userID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}

	var mine *AchievementStatus
	for _, status := range statuses {
		if status.Achievement.ID == ach.ID {
			mine = status
			break
		}
	}
	if mine == nil {
		t.Fatalf("seeded achievement missing from list")
	}
	if mine.Progress != 2 || mine.IsUnlocked {
		t.Fatalf("unexpected status: %+v", mine)
	}

	// Achievements without a progress row report zero progress.
	fresh, err := svc.ListForUser(ctx, uuid.New())
	if err != nil {
		t.Fatalf("list fresh user: %v", err)
	}
	for _, status := range fresh {
		if status.Achievement.ID == ach.ID && (status.Progress != 0 || status.IsUnlocked) {
			t.Fatalf("fresh user has progress: %+v", status)
		}
	}
}
