package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	"github.com/boxtrail/loyalty-backend/internal/data/repos/testutil"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
)

func newChallengeService(t *testing.T) ChallengeService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewChallengeService(db, log, repos.NewChallengeRepo(db, log), repos.NewUserChallengeRepo(db, log))
}

func TestChallengeApply_CompletesOnGoal(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newChallengeService(t)

	chal := testutil.SeedChallenge(t, ctx, tx, "chal-"+uuid.NewString(), types.ActionReferral, 2, 600)
	userID := uuid.New()

	bonuses, err := svc.Apply(ctx, tx, userID, types.ActionReferral)
	if err != nil {
		t.Fatalf("apply 1: %v", err)
	}
	if len(bonuses) != 0 {
		t.Fatalf("first referral completed a goal-2 challenge")
	}

	bonuses, err = svc.Apply(ctx, tx, userID, types.ActionReferral)
	if err != nil {
		t.Fatalf("apply 2: %v", err)
	}
	if len(bonuses) != 1 || bonuses[0].SourceID != chal.ID || bonuses[0].Points != 600 {
		t.Fatalf("unexpected bonuses: %+v", bonuses)
	}
	if bonuses[0].SourceType != types.ActionChallenge {
		t.Fatalf("source type=%q want challenge", bonuses[0].SourceType)
	}

	// Completed: no further payouts.
	bonuses, err = svc.Apply(ctx, tx, userID, types.ActionReferral)
	if err != nil {
		t.Fatalf("apply 3: %v", err)
	}
	if len(bonuses) != 0 {
		t.Fatalf("completed challenge re-awarded: %+v", bonuses)
	}
}

func TestChallengeApply_TracksPerUser(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newChallengeService(t)

	testutil.SeedChallenge(t, ctx, tx, "chal-"+uuid.NewString(), types.ActionShipment, 1, 100)
	first, second := uuid.New(), uuid.New()

	bonuses, err := svc.Apply(ctx, tx, first, types.ActionShipment)
	if err != nil {
		t.Fatalf("apply first user: %v", err)
	}
	if len(bonuses) != 1 {
		t.Fatalf("first user expected completion")
	}

	bonuses, err = svc.Apply(ctx, tx, second, types.ActionShipment)
	if err != nil {
		t.Fatalf("apply second user: %v", err)
	}
	if len(bonuses) != 1 {
		t.Fatalf("second user's progress should be independent")
	}
}
