package handlers

import (
	"net/http"

	"github.com/ArowuTest/scratchcard-backend/internal/middleware"
	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	auth *services.AuthService
	log  logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, resp, "")
}

// UpdateCredentials handles PUT /admin/credentials
func (h *AuthHandler) UpdateCredentials(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.UpdateCredentials(c.Request.Context(), c.GetString(middleware.ContextAdminID), req); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Credentials updated, sign in again")
}
