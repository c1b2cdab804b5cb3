// Command import_codes loads scratch-card codes from a CSV file into MongoDB.
//
//	go run ./cmd/scripts/import_codes.go codes.csv
package main

import (
	"context"
	"os"

	"github.com/ArowuTest/scratchcard-backend/internal/config"
	mongorepo "github.com/ArowuTest/scratchcard-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/ArowuTest/scratchcard-backend/internal/utils"
	"github.com/ArowuTest/scratchcard-backend/pkg/logger"
	"github.com/ArowuTest/scratchcard-backend/pkg/mongodb"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.Init(cfg.LogLevel, cfg.IsProduction())

	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	codes, err := utils.ReadCodes(file)
	if err != nil {
		log.Fatalf("Failed to parse CSV file: %v", err)
	}

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	store := mongorepo.NewStore(db, cfg.Storage.Bucket)
	result := services.NewCodeService(store, cfg.Import.BatchSize, log).ImportBatch(ctx, codes)
	for _, msg := range result.Errors {
		log.Warn(msg)
	}
	log.WithFields(logrus.Fields{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"total":    result.Total,
	}).Info("Codes imported")
}
