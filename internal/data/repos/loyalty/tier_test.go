package loyalty

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/boxtrail/loyalty-backend/internal/data/repos/testutil"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
)

func TestTierRepo_ListOrdersByMinPoints(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewTierRepo(testutil.DB(t), testutil.Logger(t))

	max1 := int64(499)
	gold := testutil.SeedTier(t, ctx, tx, "gold-"+uuid.NewString(), 2000, nil)
	bronze := testutil.SeedTier(t, ctx, tx, "bronze-"+uuid.NewString(), 0, &max1)

	tiers, err := repo.List(ctx, tx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tiers) < 2 {
		t.Fatalf("expected at least 2 tiers, got %d", len(tiers))
	}
	if tiers[0].ID != bronze.ID || tiers[len(tiers)-1].ID != gold.ID {
		t.Fatalf("expected ascending min_points order")
	}
}

func TestTierRepo_UpsertUpdatesByName(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewTierRepo(testutil.DB(t), testutil.Logger(t))

	name := "tier-" + uuid.NewString()
	if err := repo.Upsert(ctx, tx, []*types.Tier{{Name: name, MinPoints: 0}}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(ctx, tx, []*types.Tier{{Name: name, MinPoints: 100}}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	tiers, err := repo.List(ctx, tx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var found *types.Tier
	for _, tier := range tiers {
		if tier.Name == name {
			if found != nil {
				t.Fatalf("duplicate tier rows for %q", name)
			}
			found = tier
		}
	}
	if found == nil {
		t.Fatalf("tier %q missing", name)
	}
	if found.MinPoints != 100 {
		t.Fatalf("expected updated min_points=100, got %d", found.MinPoints)
	}
}
