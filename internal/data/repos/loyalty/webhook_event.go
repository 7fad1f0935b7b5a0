package loyalty

import (
	"context"

	types "github.com/boxtrail/loyalty-backend/internal/domain"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type WebhookEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.WebhookEvent) error
}

type webhookEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWebhookEventRepo(db *gorm.DB, baseLog *logger.Logger) WebhookEventRepo {
	return &webhookEventRepo{db: db, log: baseLog.With("repo", "WebhookEventRepo")}
}

func (r *webhookEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.WebhookEvent) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(event).Error
}
