package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.VerifiedCodeRepository = (*VerifiedCodeRepository)(nil)

// VerifiedCodeRepository handles MongoDB operations for the verification ledger
type VerifiedCodeRepository struct {
	collection *mongo.Collection
}

// NewVerifiedCodeRepository creates a new VerifiedCodeRepository
func NewVerifiedCodeRepository(db *mongo.Database) *VerifiedCodeRepository {
	return &VerifiedCodeRepository{
		collection: db.Collection(verifiedCodesCollection),
	}
}

// Create appends a ledger row
func (r *VerifiedCodeRepository) Create(ctx context.Context, verified *models.VerifiedCode) error {
	verified.ID = primitive.NewObjectID()
	verified.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, verified)
	return mapError(err)
}

// FindByID finds a ledger row by ID
func (r *VerifiedCodeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.VerifiedCode, error) {
	var verified models.VerifiedCode
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&verified); err != nil {
		return nil, mapError(err)
	}
	return &verified, nil
}

// FindFirstByCodeID finds the earliest ledger row for a code
func (r *VerifiedCodeRepository) FindFirstByCodeID(ctx context.Context, codeID primitive.ObjectID) (*models.VerifiedCode, error) {
	var verified models.VerifiedCode
	opts := options.FindOne().SetSort(bson.M{"_id": 1})
	if err := r.collection.FindOne(ctx, bson.M{"code": codeID}, opts).Decode(&verified); err != nil {
		return nil, mapError(err)
	}
	return &verified, nil
}

// FindAll retrieves the whole ledger
func (r *VerifiedCodeRepository) FindAll(ctx context.Context) ([]*models.VerifiedCode, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []*models.VerifiedCode{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByCodeID removes every ledger row of a code
func (r *VerifiedCodeRepository) DeleteByCodeID(ctx context.Context, codeID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"code": codeID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
