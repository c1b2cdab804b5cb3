package handlers

import (
	"net/http"

	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimHandler handles the admin side of the claim workflow
type ClaimHandler struct {
	claims *services.ClaimService
	log    logrus.FieldLogger
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claims *services.ClaimService, log logrus.FieldLogger) *ClaimHandler {
	return &ClaimHandler{claims: claims, log: log}
}

// EnterClaimRequest enters a verification without a document
type EnterClaimRequest struct {
	VerifiedCodeID string `json:"verifiedCodeId" binding:"required"`
}

// ListClaimablePrizes handles GET /admin/claimable-prizes
func (h *ClaimHandler) ListClaimablePrizes(c *gin.Context) {
	claims, err := h.claims.ListClaimablePrizes(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, claims, "")
}

// EnterClaim handles POST /admin/claimable-prizes
func (h *ClaimHandler) EnterClaim(c *gin.Context) {
	var req EnterClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(req.VerifiedCodeID)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid verifiedCodeId")
		return
	}

	result, err := h.claims.EnterClaim(c.Request.Context(), id, nil)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondClaim(c, result)
}

// MarkClaimed handles POST /admin/claimable-prizes/:id/claim
func (h *ClaimHandler) MarkClaimed(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.claims.MarkClaimed(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Prize marked as claimed")
}

// GetClaimState handles GET /admin/verified-codes/:id/claim
func (h *ClaimHandler) GetClaimState(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	claimed, err := h.claims.HasClaimed(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	eligible, err := h.claims.IsEligibleForUpload(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"hasClaimed": claimed, "eligible": eligible}, "")
}
