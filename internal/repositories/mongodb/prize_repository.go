package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.PrizeRepository = (*PrizeRepository)(nil)

// PrizeRepository handles MongoDB operations for prize assignments
type PrizeRepository struct {
	collection *mongo.Collection
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *mongo.Database) *PrizeRepository {
	return &PrizeRepository{
		collection: db.Collection(prizesCollection),
	}
}

// Upsert assigns defID to codeID with a single upsert keyed on code_id.
// Two racing first assignments can both try to insert; the unique index
// rejects one of them and the retry turns it into an update.
func (r *PrizeRepository) Upsert(ctx context.Context, codeID, defID primitive.ObjectID) (*models.Prize, bool, error) {
	now := time.Now()
	filter := bson.M{"code_id": codeID}
	update := bson.M{
		"$set":         bson.M{"prize_definition_id": defID, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	var result *mongo.UpdateResult
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		result, err = r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, false, mapError(err)
	}

	prize, err := r.FindByCodeID(ctx, codeID)
	if err != nil {
		return nil, false, err
	}
	return prize, result.MatchedCount > 0, nil
}

// FindByCodeID finds the assignment of a code
func (r *PrizeRepository) FindByCodeID(ctx context.Context, codeID primitive.ObjectID) (*models.Prize, error) {
	var prize models.Prize
	if err := r.collection.FindOne(ctx, bson.M{"code_id": codeID}).Decode(&prize); err != nil {
		return nil, mapError(err)
	}
	return &prize, nil
}

// FindAll retrieves all assignments
func (r *PrizeRepository) FindAll(ctx context.Context) ([]*models.Prize, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	prizes := []*models.Prize{}
	if err := cursor.All(ctx, &prizes); err != nil {
		return nil, err
	}
	return prizes, nil
}

// ExistsByDefinitionID reports whether any code is assigned the definition
func (r *PrizeRepository) ExistsByDefinitionID(ctx context.Context, defID primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"prize_definition_id": defID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByCodeID removes the assignment of a code and reports whether one existed
func (r *PrizeRepository) DeleteByCodeID(ctx context.Context, codeID primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"code_id": codeID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
