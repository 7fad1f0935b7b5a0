package main

import (
	"context"
	"fmt"
	"os"

	redisclient "github.com/boxtrail/loyalty-backend/internal/clients/redis"
	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	"github.com/boxtrail/loyalty-backend/internal/db"
	httpx "github.com/boxtrail/loyalty-backend/internal/http"
	httpH "github.com/boxtrail/loyalty-backend/internal/http/handlers"
	httpMW "github.com/boxtrail/loyalty-backend/internal/http/middleware"
	"github.com/boxtrail/loyalty-backend/internal/observability"
	"github.com/boxtrail/loyalty-backend/internal/platform/envutil"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"github.com/boxtrail/loyalty-backend/internal/seed"
	"github.com/boxtrail/loyalty-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecret := envutil.Str("JWT_SECRET_KEY", "defaultsecret")
	serviceToken := envutil.Str("LOYALTY_SERVICE_TOKEN", "")
	webhookSecret := envutil.Str("LOYALTY_WEBHOOK_SECRET", "")
	seedPath := envutil.Str("SEED_FILE", "configs/seed.yaml")
	addr := envutil.Str("HTTP_ADDR", ":8080")

	// Tracing
	ctx := context.Background()
	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "loyalty-backend",
		Environment: envutil.Str("ENVIRONMENT", "development"),
		Version:     envutil.Str("SERVICE_VERSION", "dev"),
	})
	if shutdown != nil {
		defer func() { _ = shutdown(ctx) }()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	accountRepo := repos.NewAccountRepo(thePG, log)
	transactionRepo := repos.NewTransactionRepo(thePG, log)
	tierRepo := repos.NewTierRepo(thePG, log)
	achievementRepo := repos.NewAchievementRepo(thePG, log)
	userAchievementRepo := repos.NewUserAchievementRepo(thePG, log)
	challengeRepo := repos.NewChallengeRepo(thePG, log)
	userChallengeRepo := repos.NewUserChallengeRepo(thePG, log)
	rewardRepo := repos.NewRewardRepo(thePG, log)
	redemptionRepo := repos.NewRedemptionRepo(thePG, log)
	webhookEventRepo := repos.NewWebhookEventRepo(thePG, log)

	// Seed reference data
	seedCfg, err := seed.Load(seedPath)
	if err != nil {
		log.Error("Seed load failed", "path", seedPath, "error", err)
		os.Exit(1)
	}
	seeder := seed.NewSeeder(log, tierRepo, achievementRepo, challengeRepo, rewardRepo)
	if err := seeder.Apply(ctx, seedCfg); err != nil {
		log.Error("Seed apply failed", "error", err)
		os.Exit(1)
	}

	// Leaderboard (optional)
	var leaderboard redisclient.Leaderboard
	if envutil.Str("REDIS_ADDR", "") != "" {
		leaderboard, err = redisclient.NewLeaderboard(log)
		if err != nil {
			log.Warn("Leaderboard disabled", "error", err)
			leaderboard = nil
		}
	}

	// Services
	calculator := services.NewPointsCalculator(log, achievementRepo, challengeRepo)
	ledgerService := services.NewLedgerService(thePG, log, accountRepo, transactionRepo)
	tierService := services.NewTierService(thePG, log, tierRepo, accountRepo)
	achievementService := services.NewAchievementService(thePG, log, achievementRepo, userAchievementRepo)
	challengeService := services.NewChallengeService(thePG, log, challengeRepo, userChallengeRepo)
	loyaltyService := services.NewLoyaltyService(thePG, log, calculator, ledgerService, tierService, achievementService, challengeService, leaderboard)
	redemptionService := services.NewRedemptionService(thePG, log, ledgerService, tierService, rewardRepo, redemptionRepo)
	webhookService := services.NewWebhookService(thePG, log, webhookSecret, loyaltyService, transactionRepo, webhookEventRepo)

	// Handlers & middleware
	loyaltyHandler := httpH.NewLoyaltyHandler(log, loyaltyService, redemptionService, webhookService)
	healthHandler := httpH.NewHealthHandler()
	authMiddleware := httpMW.NewAuthMiddleware(log, jwtSecret, serviceToken)

	// Server
	srv := httpx.NewServer(httpx.RouterConfig{
		Log:            log,
		AuthMiddleware: authMiddleware,
		LoyaltyHandler: loyaltyHandler,
		HealthHandler:  healthHandler,
	})
	log.Info("Starting HTTP server", "addr", addr)
	if err := srv.Run(addr); err != nil {
		log.Error("HTTP server exited", "error", err)
		os.Exit(1)
	}
}
