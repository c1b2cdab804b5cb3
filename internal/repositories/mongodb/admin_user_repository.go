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

// Ensure adminUserRepository implements repositories.AdminUserRepository
var _ repositories.AdminUserRepository = (*adminUserRepository)(nil)

type adminUserRepository struct {
	collection *mongo.Collection
}

// NewAdminUserRepository creates a new repository for admin users
func NewAdminUserRepository(db *mongo.Database) repositories.AdminUserRepository {
	return &adminUserRepository{
		collection: db.Collection(adminUsersCollection),
	}
}

// Create inserts a new admin user into the database
func (r *adminUserRepository) Create(ctx context.Context, adminUser *models.AdminUser) error {
	adminUser.ID = primitive.NewObjectID()
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = adminUser.CreatedAt
	_, err := r.collection.InsertOne(ctx, adminUser)
	return mapError(err)
}

// FindByID finds an admin user by ID
func (r *adminUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&adminUser); err != nil {
		return nil, mapError(err)
	}
	return &adminUser, nil
}

// FindByUsername finds an admin user by username
func (r *adminUserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&adminUser); err != nil {
		return nil, mapError(err)
	}
	return &adminUser, nil
}

// FindFirst returns the oldest admin account
func (r *adminUserRepository) FindFirst(ctx context.Context) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	opts := options.FindOne().SetSort(bson.M{"_id": 1})
	if err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&adminUser); err != nil {
		return nil, mapError(err)
	}
	return &adminUser, nil
}

// Update replaces the username and password hash of an admin user
func (r *adminUserRepository) Update(ctx context.Context, adminUser *models.AdminUser) error {
	adminUser.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"username":  adminUser.Username,
		"password":  adminUser.Password,
		"updatedAt": adminUser.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": adminUser.ID}, update)
	if err != nil {
		return mapError(err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
