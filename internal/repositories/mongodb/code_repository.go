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

// Compile-time check to ensure CodeRepository implements the interface
var _ repositories.CodeRepository = (*CodeRepository)(nil)

// CodeRepository handles MongoDB operations for Code
type CodeRepository struct {
	collection *mongo.Collection
}

// NewCodeRepository creates a new CodeRepository
func NewCodeRepository(db *mongo.Database) *CodeRepository {
	return &CodeRepository{
		collection: db.Collection(codesCollection),
	}
}

// Create inserts a new code. The unique index on "code" rejects duplicates.
func (r *CodeRepository) Create(ctx context.Context, code *models.Code) error {
	code.ID = primitive.NewObjectID()
	code.CreatedAt = time.Now()
	code.UpdatedAt = code.CreatedAt
	_, err := r.collection.InsertOne(ctx, code)
	return mapError(err)
}

// FindByID finds a code by ID
func (r *CodeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Code, error) {
	var code models.Code
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&code); err != nil {
		return nil, mapError(err)
	}
	return &code, nil
}

// FindByCode finds a code by its exact string
func (r *CodeRepository) FindByCode(ctx context.Context, value string) (*models.Code, error) {
	var code models.Code
	if err := r.collection.FindOne(ctx, bson.M{"code": value}).Decode(&code); err != nil {
		return nil, mapError(err)
	}
	return &code, nil
}

// FindAll retrieves codes in insertion order
func (r *CodeRepository) FindAll(ctx context.Context, limit int64) ([]*models.Code, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	codes := []*models.Code{}
	if err := cursor.All(ctx, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// Invalidate marks a code as used
func (r *CodeRepository) Invalidate(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isValid": false, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Update replaces the code string and optionally the validity flag
func (r *CodeRepository) Update(ctx context.Context, id primitive.ObjectID, value string, isValid *bool) error {
	set := bson.M{"code": value, "updatedAt": time.Now()}
	if isValid != nil {
		set["isValid"] = *isValid
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return mapError(err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a code by ID
func (r *CodeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
