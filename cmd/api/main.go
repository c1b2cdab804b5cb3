package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/scratchcard-backend/api/routes"
	"github.com/ArowuTest/scratchcard-backend/internal/config"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/scratchcard-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/ArowuTest/scratchcard-backend/pkg/jwt"
	"github.com/ArowuTest/scratchcard-backend/pkg/logger"
	"github.com/ArowuTest/scratchcard-backend/pkg/mongodb"
	"github.com/ArowuTest/scratchcard-backend/pkg/uploadtoken"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.Init(cfg.LogLevel, cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var store *repositories.Store
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("using the in-memory store, data is lost on restart")
		store = memory.NewStore()
	default:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Error("Error disconnecting from MongoDB")
			}
		}()

		db := client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
		store = mongorepo.NewStore(db, cfg.Storage.Bucket)
	}

	cipher, err := uploadtoken.New(cfg.Token.SecretKey)
	if err != nil {
		log.Fatalf("Failed to set up upload tokens: %v", err)
	}
	adminTokens := jwt.NewAdminTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)

	svc := services.New(store, services.Options{
		ImportBatchSize: cfg.Import.BatchSize,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		UploadTokens:    cipher,
		AdminTokens:     adminTokens,
		Logger:          log,
	})
	if err := svc.Auth.EnsureDefaultAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	router := routes.SetupRouter(cfg, routes.NewHandlerDependencies(cfg, svc, adminTokens, log))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exiting")
}
