package services

import (
	"errors"
	"net/http"

	"github.com/boxtrail/loyalty-backend/internal/platform/apierr"
)

// Error taxonomy for the loyalty engine. Validation and computation errors
// are rejected before any mutation; insufficiency rejects a redemption with
// no partial write; persistence failures surface as a generic award_failed.
var (
	ErrMissingFields   = apierr.New(http.StatusBadRequest, "missing_fields", errors.New("missing required fields: userId and action"))
	ErrInvalidAction   = apierr.New(http.StatusBadRequest, "invalid_action", errors.New("invalid action type"))
	ErrInvalidMetadata = apierr.New(http.StatusBadRequest, "invalid_metadata", errors.New("metadata does not match action type"))
	ErrNoPointsToAward = apierr.New(http.StatusBadRequest, "no_points", errors.New("no points to award for this action"))

	ErrInsufficientPoints = apierr.New(http.StatusConflict, "insufficient_points", errors.New("insufficient points balance"))
	ErrRewardNotFound     = apierr.New(http.StatusNotFound, "reward_not_found", errors.New("reward not found or inactive"))

	ErrAwardFailed = apierr.New(http.StatusInternalServerError, "award_failed", errors.New("failed to persist points award"))

	ErrMissingEvent     = apierr.New(http.StatusBadRequest, "missing_event", errors.New("missing event type"))
	ErrUnknownEvent     = apierr.New(http.StatusBadRequest, "unknown_event", errors.New("unknown event type"))
	ErrInvalidSignature = apierr.New(http.StatusUnauthorized, "invalid_signature", errors.New("invalid webhook signature"))
	ErrMissingUser      = apierr.New(http.StatusNotFound, "user_not_found", errors.New("webhook does not identify a user"))

	// ErrUnsupportedTrigger marks achievement configuration that names a
	// trigger type without an evaluation rule.
	ErrUnsupportedTrigger = apierr.New(http.StatusUnprocessableEntity, "unsupported_trigger", errors.New("trigger type has no evaluation rule"))
)
