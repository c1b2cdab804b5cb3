package repositories

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a lookup matches no document
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index
	ErrDuplicate = errors.New("duplicate key")
)

// CodeRepository defines the interface for code data operations
type CodeRepository interface {
	Create(ctx context.Context, code *models.Code) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Code, error)
	FindByCode(ctx context.Context, code string) (*models.Code, error)
	// FindAll returns every code when limit <= 0
	FindAll(ctx context.Context, limit int64) ([]*models.Code, error)
	Invalidate(ctx context.Context, id primitive.ObjectID) error
	// Update replaces the code string and, when isValid is non-nil, the validity flag
	Update(ctx context.Context, id primitive.ObjectID, code string, isValid *bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// VerifiedCodeRepository defines the interface for the verification ledger
type VerifiedCodeRepository interface {
	Create(ctx context.Context, verified *models.VerifiedCode) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.VerifiedCode, error)
	FindFirstByCodeID(ctx context.Context, codeID primitive.ObjectID) (*models.VerifiedCode, error)
	FindAll(ctx context.Context) ([]*models.VerifiedCode, error)
	DeleteByCodeID(ctx context.Context, codeID primitive.ObjectID) (int64, error)
}

// PrizeDefinitionRepository defines the interface for the prize catalog
type PrizeDefinitionRepository interface {
	Create(ctx context.Context, def *models.PrizeDefinition) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PrizeDefinition, error)
	FindAll(ctx context.Context) ([]*models.PrizeDefinition, error)
	Update(ctx context.Context, def *models.PrizeDefinition) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PrizeRepository defines the interface for code to prize-definition assignments
type PrizeRepository interface {
	// Upsert links codeID to defID, patching an existing assignment in place.
	// updated reports whether an assignment already existed.
	Upsert(ctx context.Context, codeID, defID primitive.ObjectID) (prize *models.Prize, updated bool, err error)
	FindByCodeID(ctx context.Context, codeID primitive.ObjectID) (*models.Prize, error)
	FindAll(ctx context.Context) ([]*models.Prize, error)
	ExistsByDefinitionID(ctx context.Context, defID primitive.ObjectID) (bool, error)
	DeleteByCodeID(ctx context.Context, codeID primitive.ObjectID) (bool, error)
}

// ClaimablePrizeRepository defines the interface for claim records
type ClaimablePrizeRepository interface {
	// Create returns ErrDuplicate when a claim already exists for the verified code
	Create(ctx context.Context, claim *models.ClaimablePrize) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ClaimablePrize, error)
	FindByVerifiedCodeID(ctx context.Context, verifiedCodeID primitive.ObjectID) (*models.ClaimablePrize, error)
	FindFirstByCodeID(ctx context.Context, codeID primitive.ObjectID) (*models.ClaimablePrize, error)
	FindByCodeID(ctx context.Context, codeID primitive.ObjectID) ([]*models.ClaimablePrize, error)
	FindAll(ctx context.Context) ([]*models.ClaimablePrize, error)
	// MarkClaimed moves an unClaimed record to claimed. It reports false when
	// no unClaimed record with that id exists.
	MarkClaimed(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	DeleteByCodeID(ctx context.Context, codeID primitive.ObjectID) (int64, error)
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	FindFirst(ctx context.Context) (*models.AdminUser, error)
	Update(ctx context.Context, adminUser *models.AdminUser) error
}

// Blob is an opened stored object
type Blob struct {
	io.ReadCloser
	ContentType string
	Length      int64
}

// BlobStore stores uploaded bytes under a stable reference
type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, r io.Reader) (primitive.ObjectID, error)
	Open(ctx context.Context, id primitive.ObjectID) (*Blob, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Store groups the repositories backed by one document database
type Store struct {
	Codes            CodeRepository
	VerifiedCodes    VerifiedCodeRepository
	PrizeDefinitions PrizeDefinitionRepository
	Prizes           PrizeRepository
	ClaimablePrizes  ClaimablePrizeRepository
	AdminUsers       AdminUserRepository
	Blobs            BlobStore
}
