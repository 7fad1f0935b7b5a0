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

func newCalculator(t *testing.T) PointsCalculator {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewPointsCalculator(log, repos.NewAchievementRepo(db, log), repos.NewChallengeRepo(db, log))
}

func TestCalculate_RuleTable(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator(t)

	cases := []struct {
		name     string
		action   string
		metadata ActionMetadata
		want     int64
	}{
		{"shipment 10 percent floored", types.ActionShipment, ActionMetadata{ShipmentValue: 1000}, 100},
		{"shipment fraction floored", types.ActionShipment, ActionMetadata{ShipmentValue: 159}, 15},
		{"referral flat", types.ActionReferral, ActionMetadata{ReferralEmail: "amigo@example.com"}, 500},
		{"review five stars", types.ActionReview, ActionMetadata{ReviewRating: 5}, 250},
		{"review one star", types.ActionReview, ActionMetadata{ReviewRating: 1}, 50},
		{"social share flat", types.ActionSocialShare, ActionMetadata{Platform: "instagram"}, 100},
		{"birthday flat", types.ActionBirthday, ActionMetadata{}, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, description, err := calc.Calculate(ctx, nil, tc.action, tc.metadata)
			if err != nil {
				t.Fatalf("calculate: %v", err)
			}
			if amount != tc.want {
				t.Fatalf("amount=%d want %d", amount, tc.want)
			}
			if description == "" {
				t.Fatalf("expected description")
			}
		})
	}
}

func TestCalculate_InvalidAction(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator(t)

	_, _, err := calc.Calculate(ctx, nil, "bonus_points", ActionMetadata{})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestCalculate_ZeroAmountRejected(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator(t)

	_, _, err := calc.Calculate(ctx, nil, types.ActionShipment, ActionMetadata{ShipmentValue: 0})
	if !errors.Is(err, ErrNoPointsToAward) {
		t.Fatalf("expected ErrNoPointsToAward, got %v", err)
	}
	_, _, err = calc.Calculate(ctx, nil, types.ActionReview, ActionMetadata{ReviewRating: 0})
	if !errors.Is(err, ErrNoPointsToAward) {
		t.Fatalf("expected ErrNoPointsToAward for zero rating, got %v", err)
	}
}

func TestCalculate_MetadataValidation(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator(t)

	_, _, err := calc.Calculate(ctx, nil, types.ActionShipment, ActionMetadata{ShipmentValue: -10})
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Fatalf("expected ErrInvalidMetadata for negative value, got %v", err)
	}
	_, _, err = calc.Calculate(ctx, nil, types.ActionReview, ActionMetadata{ReviewRating: 6})
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Fatalf("expected ErrInvalidMetadata for rating out of range, got %v", err)
	}
	_, _, err = calc.Calculate(ctx, nil, types.ActionAchievement, ActionMetadata{})
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Fatalf("expected ErrInvalidMetadata for missing achievementId, got %v", err)
	}
}

func TestCalculate_AchievementLookup(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	calc := newCalculator(t)

	ach := testutil.SeedAchievement(t, ctx, tx, "ach-"+uuid.NewString(), types.ActionShipment, 1, 750)

	amount, description, err := calc.Calculate(ctx, tx, types.ActionAchievement, ActionMetadata{AchievementID: &ach.ID})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if amount != 750 {
		t.Fatalf("amount=%d want 750", amount)
	}
	if description != "Logro desbloqueado" {
		t.Fatalf("unexpected description %q", description)
	}

	// Unknown achievement id resolves to zero points.
	missing := uuid.New()
	_, _, err = calc.Calculate(ctx, tx, types.ActionAchievement, ActionMetadata{AchievementID: &missing})
	if !errors.Is(err, ErrNoPointsToAward) {
		t.Fatalf("expected ErrNoPointsToAward for unknown achievement, got %v", err)
	}
}
