package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// ActionMetadata is the tagged payload accompanying an action. Exactly the
// fields for the given action type may be set; Validate enforces the match
// before anything reaches the calculator.
type ActionMetadata struct {
	ShipmentValue float64    `json:"shipmentValue,omitempty"`
	ReferralEmail string     `json:"referralEmail,omitempty"`
	ReviewRating  int        `json:"reviewRating,omitempty"`
	Platform      string     `json:"platform,omitempty"`
	AchievementID *uuid.UUID `json:"achievementId,omitempty"`
	ChallengeID   *uuid.UUID `json:"challengeId,omitempty"`
}

// Validate checks the metadata against the action it claims to describe.
func (m ActionMetadata) Validate(action string) error {
	switch action {
	case types.ActionShipment:
		if m.ShipmentValue < 0 {
			return fmt.Errorf("%w: negative shipmentValue", ErrInvalidMetadata)
		}
	case types.ActionReview:
		if m.ReviewRating < 0 || m.ReviewRating > 5 {
			return fmt.Errorf("%w: reviewRating out of range", ErrInvalidMetadata)
		}
	case types.ActionAchievement:
		if m.AchievementID == nil {
			return fmt.Errorf("%w: achievementId required", ErrInvalidMetadata)
		}
	case types.ActionChallenge:
		if m.ChallengeID == nil {
			return fmt.Errorf("%w: challengeId required", ErrInvalidMetadata)
		}
	}
	return nil
}

// PointsCalculator turns an action and its metadata into a point amount and
// ledger description. It never mutates state.
type PointsCalculator interface {
	Calculate(ctx context.Context, tx *gorm.DB, action string, metadata ActionMetadata) (int64, string, error)
}

type pointsCalculator struct {
	log             *logger.Logger
	achievementRepo repos.AchievementRepo
	challengeRepo   repos.ChallengeRepo
}

func NewPointsCalculator(log *logger.Logger, achievementRepo repos.AchievementRepo, challengeRepo repos.ChallengeRepo) PointsCalculator {
	return &pointsCalculator{
		log:             log.With("service", "PointsCalculator"),
		achievementRepo: achievementRepo,
		challengeRepo:   challengeRepo,
	}
}

func (pc *pointsCalculator) Calculate(ctx context.Context, tx *gorm.DB, action string, metadata ActionMetadata) (int64, string, error) {
	if !types.KnownAction(action) {
		return 0, "", ErrInvalidAction
	}
	if err := metadata.Validate(action); err != nil {
		return 0, "", err
	}

	var amount int64
	var description string

	switch action {
	case types.ActionShipment:
		// 10% of shipment value, floored.
		amount = int64(math.Floor(metadata.ShipmentValue * 0.1))
		description = fmt.Sprintf("Puntos por envío - Valor: $%.0f", metadata.ShipmentValue)

	case types.ActionReferral:
		amount = 500
		referred := metadata.ReferralEmail
		if referred == "" {
			referred = "Nuevo cliente"
		}
		description = fmt.Sprintf("Bono por referido - %s", referred)

	case types.ActionReview:
		amount = int64(metadata.ReviewRating) * 50
		description = fmt.Sprintf("Puntos por reseña - %d estrellas", metadata.ReviewRating)

	case types.ActionSocialShare:
		amount = 100
		platform := metadata.Platform
		if platform == "" {
			platform = "red social"
		}
		description = fmt.Sprintf("Compartir en %s", platform)

	case types.ActionBirthday:
		amount = 1000
		description = "¡Feliz cumpleaños! Bono especial"

	case types.ActionAchievement:
		achievement, err := pc.achievementRepo.GetByID(ctx, tx, *metadata.AchievementID)
		if err != nil {
			return 0, "", fmt.Errorf("fetch achievement: %w", err)
		}
		if achievement != nil {
			amount = achievement.PointsReward
		}
		description = "Logro desbloqueado"

	case types.ActionChallenge:
		challenge, err := pc.challengeRepo.GetByID(ctx, tx, *metadata.ChallengeID)
		if err != nil {
			return 0, "", fmt.Errorf("fetch challenge: %w", err)
		}
		if challenge != nil {
			amount = challenge.PointsReward
		}
		description = "Desafío completado"
	}

	if amount <= 0 {
		return 0, "", ErrNoPointsToAward
	}
	return amount, description, nil
}
