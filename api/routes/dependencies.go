package routes

import (
	"github.com/ArowuTest/scratchcard-backend/internal/config"
	"github.com/ArowuTest/scratchcard-backend/internal/handlers"
	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/ArowuTest/scratchcard-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// NewHandlerDependencies builds every handler over svc
func NewHandlerDependencies(cfg *config.Config, svc *services.Services, tokens *jwt.AdminTokenService, log logrus.FieldLogger) HandlerDependencies {
	return HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(svc.Auth, log),
		CodeHandler:         handlers.NewCodeHandler(svc.Codes, log),
		VerificationHandler: handlers.NewVerificationHandler(svc.Redemptions, svc.Verifications, log),
		PrizeHandler:        handlers.NewPrizeHandler(svc.PrizeDefinitions, svc.Prizes, log),
		ClaimHandler:        handlers.NewClaimHandler(svc.Claims, log),
		UploadHandler:       handlers.NewUploadHandler(svc.Uploads, cfg.Storage.MaxUploadSize, log),
		AdminTokens:         tokens,
		Logger:              log,
	}
}
