package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
)

// LeaderboardRow is one ranked entry. Rank is 1-based.
type LeaderboardRow struct {
	Rank   int       `json:"rank"`
	UserID uuid.UUID `json:"user_id"`
	Points int64     `json:"points"`
}

// Leaderboard mirrors lifetime earned points into a redis sorted set so the
// ranking query never touches Postgres. It is an optional projection: the
// ledger stays authoritative and a missed bump costs staleness, never
// balance drift.
type Leaderboard interface {
	Bump(ctx context.Context, userID uuid.UUID, points int64) error
	Top(ctx context.Context, limit int) ([]LeaderboardRow, error)
	Close() error
}

type leaderboard struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
}

func NewLeaderboard(log *logger.Logger) (Leaderboard, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(os.Getenv("REDIS_LEADERBOARD_KEY"))
	if key == "" {
		key = "loyalty:leaderboard"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &leaderboard{
		log: log.With("service", "RedisLeaderboard"),
		rdb: rdb,
		key: key,
	}, nil
}

func (l *leaderboard) Bump(ctx context.Context, userID uuid.UUID, points int64) error {
	if l == nil || l.rdb == nil {
		return fmt.Errorf("leaderboard not initialized")
	}
	return l.rdb.ZIncrBy(ctx, l.key, float64(points), userID.String()).Err()
}

func (l *leaderboard) Top(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if l == nil || l.rdb == nil {
		return nil, fmt.Errorf("leaderboard not initialized")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	members, err := l.rdb.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange: %w", err)
	}

	rows := make([]LeaderboardRow, 0, len(members))
	for i, m := range members {
		raw, ok := m.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			l.log.Warn("bad leaderboard member, skipping", "member", raw)
			continue
		}
		rows = append(rows, LeaderboardRow{
			Rank:   i + 1,
			UserID: id,
			Points: int64(m.Score),
		})
	}
	return rows, nil
}

func (l *leaderboard) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
