package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
)

// Config is the reference-data file loaded at startup: the tier ladder, the
// achievement and challenge catalogs and the rewards catalog. Rows are
// upserted by name, so re-running the seed is safe.
type Config struct {
	Tiers        []TierConfig        `yaml:"tiers"`
	Achievements []AchievementConfig `yaml:"achievements"`
	Challenges   []ChallengeConfig   `yaml:"challenges"`
	Rewards      []RewardConfig      `yaml:"rewards"`
}

type TierConfig struct {
	Name      string   `yaml:"name"`
	MinPoints int64    `yaml:"min_points"`
	MaxPoints *int64   `yaml:"max_points"`
	Benefits  []string `yaml:"benefits"`
}

type AchievementConfig struct {
	Name         string `yaml:"name"`
	TriggerType  string `yaml:"trigger_type"`
	MaxProgress  int    `yaml:"max_progress"`
	PointsReward int64  `yaml:"points_reward"`
}

type ChallengeConfig struct {
	Name          string `yaml:"name"`
	ChallengeType string `yaml:"challenge_type"`
	Goal          int    `yaml:"goal"`
	PointsReward  int64  `yaml:"points_reward"`
}

type RewardConfig struct {
	Name           string `yaml:"name"`
	PointsRequired int64  `yaml:"points_required"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configuration the engine cannot honor before anything is
// written. Tier brackets must start at zero, be contiguous and close with one
// open-ended bracket; achievement triggers must have an evaluation rule.
func (c *Config) Validate() error {
	if len(c.Tiers) > 0 {
		if c.Tiers[0].MinPoints != 0 {
			return fmt.Errorf("tier %q: ladder must start at 0, got %d", c.Tiers[0].Name, c.Tiers[0].MinPoints)
		}
		for i, tier := range c.Tiers {
			last := i == len(c.Tiers)-1
			if last {
				if tier.MaxPoints != nil {
					return fmt.Errorf("tier %q: top bracket must be open-ended", tier.Name)
				}
				continue
			}
			if tier.MaxPoints == nil {
				return fmt.Errorf("tier %q: only the top bracket may be open-ended", tier.Name)
			}
			if *tier.MaxPoints < tier.MinPoints {
				return fmt.Errorf("tier %q: max_points %d below min_points %d", tier.Name, *tier.MaxPoints, tier.MinPoints)
			}
			if next := c.Tiers[i+1]; next.MinPoints != *tier.MaxPoints+1 {
				return fmt.Errorf("tier %q: bracket gap, next tier starts at %d, expected %d", tier.Name, next.MinPoints, *tier.MaxPoints+1)
			}
		}
	}

	for _, ach := range c.Achievements {
		if types.UnsupportedTrigger(ach.TriggerType) {
			return fmt.Errorf("achievement %q: trigger %q has no evaluation rule", ach.Name, ach.TriggerType)
		}
		if !types.KnownAction(ach.TriggerType) {
			return fmt.Errorf("achievement %q: unknown trigger %q", ach.Name, ach.TriggerType)
		}
		if ach.MaxProgress <= 0 {
			return fmt.Errorf("achievement %q: max_progress must be positive", ach.Name)
		}
	}
	for _, chal := range c.Challenges {
		if types.UnsupportedTrigger(chal.ChallengeType) {
			return fmt.Errorf("challenge %q: type %q has no evaluation rule", chal.Name, chal.ChallengeType)
		}
		if !types.KnownAction(chal.ChallengeType) {
			return fmt.Errorf("challenge %q: unknown type %q", chal.Name, chal.ChallengeType)
		}
		if chal.Goal <= 0 {
			return fmt.Errorf("challenge %q: goal must be positive", chal.Name)
		}
	}
	for _, reward := range c.Rewards {
		if reward.PointsRequired <= 0 {
			return fmt.Errorf("reward %q: points_required must be positive", reward.Name)
		}
	}
	return nil
}

type Seeder struct {
	log             *logger.Logger
	tierRepo        repos.TierRepo
	achievementRepo repos.AchievementRepo
	challengeRepo   repos.ChallengeRepo
	rewardRepo      repos.RewardRepo
}

func NewSeeder(log *logger.Logger, tierRepo repos.TierRepo, achievementRepo repos.AchievementRepo, challengeRepo repos.ChallengeRepo, rewardRepo repos.RewardRepo) *Seeder {
	return &Seeder{
		log:             log.With("service", "Seeder"),
		tierRepo:        tierRepo,
		achievementRepo: achievementRepo,
		challengeRepo:   challengeRepo,
		rewardRepo:      rewardRepo,
	}
}

func (s *Seeder) Apply(ctx context.Context, cfg *Config) error {
	tiers := make([]*types.Tier, 0, len(cfg.Tiers))
	for _, t := range cfg.Tiers {
		benefits, err := json.Marshal(t.Benefits)
		if err != nil {
			return fmt.Errorf("tier %q benefits: %w", t.Name, err)
		}
		tiers = append(tiers, &types.Tier{
			Name:      t.Name,
			MinPoints: t.MinPoints,
			MaxPoints: t.MaxPoints,
			Benefits:  datatypes.JSON(benefits),
		})
	}
	if err := s.tierRepo.Upsert(ctx, nil, tiers); err != nil {
		return fmt.Errorf("seed tiers: %w", err)
	}

	achievements := make([]*types.Achievement, 0, len(cfg.Achievements))
	for _, a := range cfg.Achievements {
		achievements = append(achievements, &types.Achievement{
			Name:         a.Name,
			TriggerType:  a.TriggerType,
			MaxProgress:  a.MaxProgress,
			PointsReward: a.PointsReward,
			IsActive:     true,
		})
	}
	if err := s.achievementRepo.Upsert(ctx, nil, achievements); err != nil {
		return fmt.Errorf("seed achievements: %w", err)
	}

	challenges := make([]*types.Challenge, 0, len(cfg.Challenges))
	for _, c := range cfg.Challenges {
		challenges = append(challenges, &types.Challenge{
			Name:          c.Name,
			ChallengeType: c.ChallengeType,
			Goal:          c.Goal,
			PointsReward:  c.PointsReward,
			IsActive:      true,
		})
	}
	if err := s.challengeRepo.Upsert(ctx, nil, challenges); err != nil {
		return fmt.Errorf("seed challenges: %w", err)
	}

	rewards := make([]*types.Reward, 0, len(cfg.Rewards))
	for _, r := range cfg.Rewards {
		rewards = append(rewards, &types.Reward{
			Name:           r.Name,
			PointsRequired: r.PointsRequired,
			IsActive:       true,
		})
	}
	if err := s.rewardRepo.Upsert(ctx, nil, rewards); err != nil {
		return fmt.Errorf("seed rewards: %w", err)
	}

	s.log.Info("seed applied",
		"tiers", len(tiers), "achievements", len(achievements),
		"challenges", len(challenges), "rewards", len(rewards))
	return nil
}
