package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/boxtrail/loyalty-backend/internal/data/repos"
	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
)

// Webhook event types accepted from external platforms.
const (
	EventSocialShare       = "social_share"
	EventReviewSubmitted   = "review_submitted"
	EventReferralCompleted = "referral_completed"
	EventBirthdayReminder  = "birthday_reminder"
)

// WebhookPayload is the body external platforms POST to the intake endpoint.
type WebhookPayload struct {
	Event     string          `json:"event"`
	UserID    *uuid.UUID      `json:"userId,omitempty"`
	Platform  string          `json:"platform,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type webhookData struct {
	Rating        int     `json:"rating,omitempty"`
	ReferredEmail string  `json:"referredEmail,omitempty"`
	ReferralCode  string  `json:"referralCode,omitempty"`
	ContentURL    string  `json:"contentUrl,omitempty"`
	ShareType     string  `json:"shareType,omitempty"`
	Value         float64 `json:"value,omitempty"`
}

// WebhookService turns external platform events into engine actions. Every
// event leaves an audit row in webhook_events regardless of outcome.
type WebhookService interface {
	// VerifySignature checks the hex HMAC-SHA256 of the raw body against the
	// configured secret. An empty secret disables verification.
	VerifySignature(body []byte, signature string) error
	Process(ctx context.Context, payload WebhookPayload) (*AwardResult, error)
}

type webhookService struct {
	db        *gorm.DB
	log       *logger.Logger
	secret    string
	engine    LoyaltyService
	txRepo    repos.TransactionRepo
	eventRepo repos.WebhookEventRepo
}

func NewWebhookService(db *gorm.DB, log *logger.Logger, secret string, engine LoyaltyService, txRepo repos.TransactionRepo, eventRepo repos.WebhookEventRepo) WebhookService {
	return &webhookService{
		db:        db,
		log:       log.With("service", "WebhookService"),
		secret:    secret,
		engine:    engine,
		txRepo:    txRepo,
		eventRepo: eventRepo,
	}
}

func (ws *webhookService) VerifySignature(body []byte, signature string) error {
	if ws.secret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(ws.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func (ws *webhookService) Process(ctx context.Context, payload WebhookPayload) (*AwardResult, error) {
	if payload.Event == "" {
		return nil, ErrMissingEvent
	}
	if payload.UserID == nil || *payload.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}
	userID := *payload.UserID

	var data webhookData
	if len(payload.Data) > 0 {
		if err := json.Unmarshal(payload.Data, &data); err != nil {
			return nil, ErrInvalidMetadata
		}
	}

	result, err := ws.dispatch(ctx, userID, payload, data)
	ws.audit(ctx, payload, userID, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ws *webhookService) dispatch(ctx context.Context, userID uuid.UUID, payload WebhookPayload, data webhookData) (*AwardResult, error) {
	switch payload.Event {
	case EventSocialShare:
		return ws.engine.AwardPoints(ctx, AwardRequest{
			UserID:   userID,
			Action:   types.ActionSocialShare,
			Metadata: ActionMetadata{Platform: payload.Platform},
		})

	case EventReviewSubmitted:
		return ws.engine.AwardPoints(ctx, AwardRequest{
			UserID:   userID,
			Action:   types.ActionReview,
			Metadata: ActionMetadata{ReviewRating: data.Rating, Platform: payload.Platform},
		})

	case EventReferralCompleted:
		return ws.engine.AwardPoints(ctx, AwardRequest{
			UserID:   userID,
			Action:   types.ActionReferral,
			Metadata: ActionMetadata{ReferralEmail: data.ReferredEmail},
		})

	case EventBirthdayReminder:
		return ws.birthday(ctx, userID)

	default:
		return nil, ErrUnknownEvent
	}
}

// birthday awards the yearly bonus at most once per calendar year, checked
// against the ledger itself rather than a side table.
func (ws *webhookService) birthday(ctx context.Context, userID uuid.UUID) (*AwardResult, error) {
	now := time.Now()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(1, 0, 0)

	exists, err := ws.txRepo.TypeExistsInRange(ctx, nil, userID, types.ActionBirthday, from, to)
	if err != nil {
		return nil, err
	}
	if exists {
		ws.log.Info("birthday bonus already awarded this year", "user_id", userID)
		return &AwardResult{Duplicate: true}, nil
	}
	return ws.engine.AwardPoints(ctx, AwardRequest{
		UserID: userID,
		Action: types.ActionBirthday,
	})
}

func (ws *webhookService) audit(ctx context.Context, payload WebhookPayload, userID uuid.UUID, processErr error) {
	event := &types.WebhookEvent{
		EventType:   payload.Event,
		UserID:      userID,
		Platform:    payload.Platform,
		Payload:     datatypes.JSON(payload.Data),
		Status:      types.WebhookStatusProcessed,
		ProcessedAt: time.Now(),
	}
	if processErr != nil {
		event.Status = types.WebhookStatusFailed
		event.ErrorMessage = processErr.Error()
	}
	if err := ws.eventRepo.Create(ctx, nil, event); err != nil {
		ws.log.Error("webhook audit insert failed", "event", payload.Event, "error", err)
	}
}
