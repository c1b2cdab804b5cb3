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

var _ repositories.ClaimablePrizeRepository = (*ClaimablePrizeRepository)(nil)

// ClaimablePrizeRepository handles MongoDB operations for claim records
type ClaimablePrizeRepository struct {
	collection *mongo.Collection
}

// NewClaimablePrizeRepository creates a new ClaimablePrizeRepository
func NewClaimablePrizeRepository(db *mongo.Database) *ClaimablePrizeRepository {
	return &ClaimablePrizeRepository{
		collection: db.Collection(claimablePrizesCollection),
	}
}

// Create inserts a claim record. The unique index on verified_code_id turns
// a concurrent duplicate into ErrDuplicate.
func (r *ClaimablePrizeRepository) Create(ctx context.Context, claim *models.ClaimablePrize) error {
	claim.ID = primitive.NewObjectID()
	claim.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, claim)
	return mapError(err)
}

// FindByID finds a claim record by ID
func (r *ClaimablePrizeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ClaimablePrize, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByVerifiedCodeID finds the claim record of a verification
func (r *ClaimablePrizeRepository) FindByVerifiedCodeID(ctx context.Context, verifiedCodeID primitive.ObjectID) (*models.ClaimablePrize, error) {
	return r.findOne(ctx, bson.M{"verified_code_id": verifiedCodeID})
}

// FindFirstByCodeID finds any claim record of a code
func (r *ClaimablePrizeRepository) FindFirstByCodeID(ctx context.Context, codeID primitive.ObjectID) (*models.ClaimablePrize, error) {
	return r.findOne(ctx, bson.M{"code_id": codeID})
}

// FindByCodeID finds every claim record of a code
func (r *ClaimablePrizeRepository) FindByCodeID(ctx context.Context, codeID primitive.ObjectID) ([]*models.ClaimablePrize, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"code_id": codeID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	claims := []*models.ClaimablePrize{}
	if err := cursor.All(ctx, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *ClaimablePrizeRepository) findOne(ctx context.Context, filter bson.M) (*models.ClaimablePrize, error) {
	var claim models.ClaimablePrize
	if err := r.collection.FindOne(ctx, filter).Decode(&claim); err != nil {
		return nil, mapError(err)
	}
	return &claim, nil
}

// FindAll retrieves all claim records, newest first
func (r *ClaimablePrizeRepository) FindAll(ctx context.Context) ([]*models.ClaimablePrize, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	claims := []*models.ClaimablePrize{}
	if err := cursor.All(ctx, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// MarkClaimed flips status unClaimed -> claimed in one conditional update
func (r *ClaimablePrizeRepository) MarkClaimed(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": models.ClaimStatusUnclaimed}
	update := bson.M{"$set": bson.M{"status": models.ClaimStatusClaimed, "claimed_at": at}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

// DeleteByCodeID removes every claim record of a code
func (r *ClaimablePrizeRepository) DeleteByCodeID(ctx context.Context, codeID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"code_id": codeID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
