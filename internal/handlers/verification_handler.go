package handlers

import (
	"net/http"

	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// VerificationHandler handles code verification requests
type VerificationHandler struct {
	redemptions   *services.RedemptionService
	verifications *services.VerificationService
	log           logrus.FieldLogger
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(redemptions *services.RedemptionService, verifications *services.VerificationService, log logrus.FieldLogger) *VerificationHandler {
	return &VerificationHandler{redemptions: redemptions, verifications: verifications, log: log}
}

// Verify handles POST /verify. An unknown code is a normal answer, not an error status.
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req services.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.redemptions.Redeem(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListVerifiedCodes handles GET /admin/verified-codes
func (h *VerificationHandler) ListVerifiedCodes(c *gin.Context) {
	rows, err := h.verifications.ListVerifiedCodes(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, rows, "")
}

// GetVerifiedCodeByCode handles GET /admin/codes/:id/verification
func (h *VerificationHandler) GetVerifiedCodeByCode(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	details, err := h.verifications.GetVerifiedCodeByCodeID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if details == nil {
		respondFail(c, http.StatusNotFound, "Code has not been verified")
		return
	}
	respondOK(c, http.StatusOK, details, "")
}
