package mongodb

import (
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewStore wires every mongo repository against db. bucket names the GridFS bucket for uploads.
func NewStore(db *mongo.Database, bucket string) *repositories.Store {
	return &repositories.Store{
		Codes:            NewCodeRepository(db),
		VerifiedCodes:    NewVerifiedCodeRepository(db),
		PrizeDefinitions: NewPrizeDefinitionRepository(db),
		Prizes:           NewPrizeRepository(db),
		ClaimablePrizes:  NewClaimablePrizeRepository(db),
		AdminUsers:       NewAdminUserRepository(db),
		Blobs:            NewBlobStore(db, bucket),
	}
}
