package api

import (
	"net/http"
	"strconv"

	"FRD_airdrop_bot/internal/middleware"
	"FRD_airdrop_bot/internal/model"
	"FRD_airdrop_bot/internal/service"
	"FRD_airdrop_bot/pkg/auth"
	"FRD_airdrop_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type campaignRoutes struct {
	rs service.ReferralServiceI
	cs service.CredentialServiceI
}

// NewCampaignRoutes wires the mini-app endpoint and the admin dashboard
// endpoints. Everything is authenticated with Telegram init data; admin
// routes additionally pass the allow-list gate.
func NewCampaignRoutes(handler *gin.RouterGroup, rs service.ReferralServiceI, cs service.CredentialServiceI,
	a *auth.TelegramAuth, adminGate *middleware.Authorization, feed *Feed) {

	r := &campaignRoutes{rs: rs, cs: cs}

	h := handler.Group("/campaign")
	h.Use(a.TelegramAuthMiddleware())
	h.GET("/me", r.Me)

	ad := handler.Group("/admin")
	ad.Use(a.TelegramAuthMiddleware(), adminGate.AdminOnly())
	ad.GET("/participants", r.ListParticipants)
	ad.GET("/participants/:telegram_id/referrals", r.ListReferrals)
	ad.GET("/export/:kind", r.ExportCSV)
	ad.GET("/feed", feed.Handle)
}

func (r *campaignRoutes) Me(c *gin.Context) {
	log := logger.Logger()

	userData, exists := c.Get("telegram_user")
	if !exists {
		log.Error("telegram user data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	user, ok := userData.(*auth.TelegramUserData)
	if !ok {
		log.Error("invalid type assertion for telegram user data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	p, err := r.rs.GetParticipant(c.Request.Context(), user.ID)
	if errors.Is(err, service.ErrParticipantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not registered, join via a referral link"})
		return
	}
	if err != nil {
		log.Error("failed to get participant", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get participant"})
		return
	}

	kinds, err := r.cs.SubmittedKinds(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("failed to list submitted kinds", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get participant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"telegram_id":       p.TelegramID,
		"username":          p.Username,
		"referral_link":     p.ReferralLink,
		"referrer_id":       p.ReferrerID,
		"referrals":         p.Referrals,
		"submitted":         kinds,
		"registration_date": p.RegistrationDate,
	})
}

func (r *campaignRoutes) ListParticipants(c *gin.Context) {
	log := logger.Logger()

	participants, err := r.rs.ListParticipants(c.Request.Context())
	if err != nil {
		log.Error("failed to list participants", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list participants"})
		return
	}

	out := make([]gin.H, len(participants))
	for i, p := range participants {
		out[i] = gin.H{
			"telegram_id":   p.TelegramID,
			"username":      p.Username,
			"referrer_id":   p.ReferrerID,
			"referrals":     p.Referrals,
			"referral_link": p.ReferralLink,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (r *campaignRoutes) ListReferrals(c *gin.Context) {
	log := logger.Logger()

	id, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		log.Error("failed to parse telegram_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	children, err := r.rs.ListChildren(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to list referrals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list referrals"})
		return
	}

	out := make([]gin.H, len(children))
	for i, p := range children {
		out[i] = gin.H{
			"telegram_id": p.TelegramID,
			"username":    p.Username,
			"referrals":   p.Referrals,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (r *campaignRoutes) ExportCSV(c *gin.Context) {
	log := logger.Logger()

	kind := model.CredentialKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown credential kind"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+string(kind)+".csv")

	if err := r.cs.ExportCSV(c.Request.Context(), kind, c.Writer); err != nil {
		log.Error("failed to export credentials", zap.Error(err))
		c.Status(http.StatusInternalServerError)
	}
}
