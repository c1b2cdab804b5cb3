package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.PrizeDefinitionRepository = (*PrizeDefinitionRepository)(nil)

// PrizeDefinitionRepository handles MongoDB operations for PrizeDefinition
type PrizeDefinitionRepository struct {
	collection *mongo.Collection
}

// NewPrizeDefinitionRepository creates a new PrizeDefinitionRepository
func NewPrizeDefinitionRepository(db *mongo.Database) *PrizeDefinitionRepository {
	return &PrizeDefinitionRepository{
		collection: db.Collection(prizeDefinitionsCollection),
	}
}

// Create inserts a new prize definition
func (r *PrizeDefinitionRepository) Create(ctx context.Context, def *models.PrizeDefinition) error {
	def.ID = primitive.NewObjectID()
	def.CreatedAt = time.Now()
	def.UpdatedAt = def.CreatedAt
	_, err := r.collection.InsertOne(ctx, def)
	return mapError(err)
}

// FindByID finds a prize definition by ID
func (r *PrizeDefinitionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PrizeDefinition, error) {
	var def models.PrizeDefinition
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&def); err != nil {
		return nil, mapError(err)
	}
	return &def, nil
}

// FindAll retrieves all prize definitions
func (r *PrizeDefinitionRepository) FindAll(ctx context.Context) ([]*models.PrizeDefinition, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	defs := []*models.PrizeDefinition{}
	if err := cursor.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// Update patches the editable fields of a prize definition
func (r *PrizeDefinitionRepository) Update(ctx context.Context, def *models.PrizeDefinition) error {
	def.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"prize_name":    def.PrizeName,
		"description":   def.Description,
		"requires_cnic": def.RequiresCNIC,
		"updatedAt":     def.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": def.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a prize definition by ID
func (r *PrizeDefinitionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
