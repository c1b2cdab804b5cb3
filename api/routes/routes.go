package routes

import (
	"net/http"

	"github.com/ArowuTest/scratchcard-backend/internal/config"
	"github.com/ArowuTest/scratchcard-backend/internal/handlers"
	"github.com/ArowuTest/scratchcard-backend/internal/middleware"
	"github.com/ArowuTest/scratchcard-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HandlerDependencies holds all handler dependencies
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	CodeHandler         *handlers.CodeHandler
	VerificationHandler *handlers.VerificationHandler
	PrizeHandler        *handlers.PrizeHandler
	ClaimHandler        *handlers.ClaimHandler
	UploadHandler       *handlers.UploadHandler
	AdminTokens         *jwt.AdminTokenService
	Logger              logrus.FieldLogger
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)

		public.POST("/verify", deps.VerificationHandler.Verify)
		public.GET("/codes/status/:code", deps.CodeHandler.GetCodeStatus)

		public.GET("/uploads/:token", deps.UploadHandler.Status)
		public.POST("/uploads/:token", deps.UploadHandler.Submit)
		public.GET("/storage/:id", deps.UploadHandler.ServeFile)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(deps.AdminTokens, deps.Logger))
	{
		admin.PUT("/credentials", deps.AuthHandler.UpdateCredentials)

		codes := admin.Group("/codes")
		{
			codes.GET("", deps.CodeHandler.ListCodes)
			codes.POST("/import", deps.CodeHandler.ImportCodes)
			codes.POST("/import/file", deps.CodeHandler.ImportCodesFile)
			codes.POST("/delete", deps.CodeHandler.DeleteCodes)
			codes.GET("/:id", deps.CodeHandler.GetCode)
			codes.PUT("/:id", deps.CodeHandler.UpdateCode)
			codes.GET("/:id/verification", deps.VerificationHandler.GetVerifiedCodeByCode)
			codes.GET("/:id/prize", deps.PrizeHandler.GetPrizeByCode)
			codes.DELETE("/:id/prize", deps.PrizeHandler.RemovePrize)
		}

		verified := admin.Group("/verified-codes")
		{
			verified.GET("", deps.VerificationHandler.ListVerifiedCodes)
			verified.GET("/:id/claim", deps.ClaimHandler.GetClaimState)
		}

		definitions := admin.Group("/prize-definitions")
		{
			definitions.GET("", deps.PrizeHandler.ListDefinitions)
			definitions.POST("", deps.PrizeHandler.CreateDefinition)
			definitions.GET("/:id", deps.PrizeHandler.GetDefinition)
			definitions.PUT("/:id", deps.PrizeHandler.UpdateDefinition)
			definitions.DELETE("/:id", deps.PrizeHandler.DeleteDefinition)
		}

		prizes := admin.Group("/prizes")
		{
			prizes.GET("", deps.PrizeHandler.ListPrizes)
			prizes.POST("", deps.PrizeHandler.AssignPrize)
			prizes.POST("/bulk", deps.PrizeHandler.BulkAssignPrize)
		}

		claims := admin.Group("/claimable-prizes")
		{
			claims.GET("", deps.ClaimHandler.ListClaimablePrizes)
			claims.POST("", deps.ClaimHandler.EnterClaim)
			claims.POST("/:id/claim", deps.ClaimHandler.MarkClaimed)
		}
	}

	return router
}
