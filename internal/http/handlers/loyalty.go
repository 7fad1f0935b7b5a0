package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boxtrail/loyalty-backend/internal/http/response"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
	"github.com/boxtrail/loyalty-backend/internal/requestdata"
	"github.com/boxtrail/loyalty-backend/internal/services"
)

type LoyaltyHandler struct {
	log         *logger.Logger
	loyalty     services.LoyaltyService
	redemptions services.RedemptionService
	webhooks    services.WebhookService
}

func NewLoyaltyHandler(log *logger.Logger, loyalty services.LoyaltyService, redemptions services.RedemptionService, webhooks services.WebhookService) *LoyaltyHandler {
	return &LoyaltyHandler{
		log:         log.With("handler", "LoyaltyHandler"),
		loyalty:     loyalty,
		redemptions: redemptions,
		webhooks:    webhooks,
	}
}

// POST /api/loyalty/points
// body: { "userId": "...", "action": "...", "metadata": {...} }
func (lh *LoyaltyHandler) AwardPoints(c *gin.Context) {
	var req services.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" && req.ReferenceID == nil {
		req.ReferenceID = &key
	}

	result, err := lh.loyalty.AwardPoints(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":       true,
		"pointsAwarded": result.PointsAwarded,
		"newBalance":    result.NewBalance,
		"description":   result.Description,
		"duplicate":     result.Duplicate,
	})
}

// POST /api/loyalty/webhook
func (lh *LoyaltyHandler) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if err := lh.webhooks.VerifySignature(body, c.GetHeader("X-Webhook-Signature")); err != nil {
		response.RespondAPIErr(c, err)
		return
	}

	var payload services.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if _, err := lh.webhooks.Process(c.Request.Context(), payload); err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": "Webhook processed successfully"})
}

// GET /api/loyalty/summary
func (lh *LoyaltyHandler) Summary(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	summary, err := lh.loyalty.Summary(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, summary)
}

// GET /api/loyalty/transactions?limit=&offset=
func (lh *LoyaltyHandler) Transactions(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	transactions, err := lh.loyalty.Transactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transactions": transactions})
}

// GET /api/loyalty/achievements
func (lh *LoyaltyHandler) Achievements(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	achievements, err := lh.loyalty.Achievements(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": achievements})
}

// GET /api/loyalty/challenges
func (lh *LoyaltyHandler) Challenges(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	challenges, err := lh.loyalty.Challenges(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"challenges": challenges})
}

// GET /api/loyalty/rewards
func (lh *LoyaltyHandler) Rewards(c *gin.Context) {
	rewards, err := lh.redemptions.Rewards(c.Request.Context())
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rewards": rewards})
}

// POST /api/loyalty/rewards/:id/redeem
func (lh *LoyaltyHandler) Redeem(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid reward id"))
		return
	}

	result, err := lh.redemptions.Redeem(c.Request.Context(), userID, rewardID)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/loyalty/redemptions
func (lh *LoyaltyHandler) Redemptions(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	redemptions, err := lh.redemptions.History(c.Request.Context(), userID, queryInt(c, "limit", 50))
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"redemptions": redemptions})
}

// GET /api/loyalty/leaderboard?limit=
func (lh *LoyaltyHandler) Leaderboard(c *gin.Context) {
	rows, err := lh.loyalty.Leaderboard(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": rows})
}

func authedUser(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("forbidden"))
		c.Abort()
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
