package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	codesCollection            = "codes"
	verifiedCodesCollection    = "verified_codes"
	prizeDefinitionsCollection = "prize_definitions"
	prizesCollection           = "prizes"
	claimablePrizesCollection  = "claimable_prizes"
	adminUsersCollection       = "admin_users"
)

// EnsureIndexes creates the lookup indexes and the unique constraints the
// claim workflow relies on. It is safe to run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		codesCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		verifiedCodesCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}},
		},
		prizesCollection: {
			{Keys: bson.D{{Key: "code_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "prize_definition_id", Value: 1}}},
		},
		claimablePrizesCollection: {
			{Keys: bson.D{{Key: "verified_code_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "code_id", Value: 1}}},
			{Keys: bson.D{{Key: "prize_id", Value: 1}}},
		},
		adminUsersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for collection, indexes := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
