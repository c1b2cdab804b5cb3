package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/ArowuTest/scratchcard-backend/pkg/uploadtoken"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoragePath is the public route prefix that serves stored blobs
const StoragePath = "/api/v1/storage/"

// UploadStatus answers the upload page when it loads
type UploadStatus struct {
	VerifiedCodeID primitive.ObjectID `json:"verifiedCodeId"`
	Eligible       bool               `json:"eligible"`
	HasClaimed     bool               `json:"hasClaimed"`
}

// UploadService bridges the verification step to the identity-document upload
type UploadService struct {
	tokens        *uploadtoken.Cipher
	claims        *ClaimService
	blobs         repositories.BlobStore
	publicBaseURL string
	log           logrus.FieldLogger
}

// NewUploadService creates a new UploadService. publicBaseURL prefixes the
// URLs of stored documents.
func NewUploadService(tokens *uploadtoken.Cipher, claims *ClaimService, blobs repositories.BlobStore, publicBaseURL string, log logrus.FieldLogger) *UploadService {
	return &UploadService{
		tokens:        tokens,
		claims:        claims,
		blobs:         blobs,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

// IssueToken seals a verification id into an upload token
func (s *UploadService) IssueToken(verifiedCodeID primitive.ObjectID) (string, error) {
	token, err := s.tokens.Encrypt(verifiedCodeID.Hex())
	if err != nil {
		return "", fmt.Errorf("failed to issue upload token: %w", err)
	}
	return token, nil
}

// ResolveToken opens an upload token. Any failure is an ErrInvalidToken error.
func (s *UploadService) ResolveToken(token string) (primitive.ObjectID, error) {
	plaintext, err := s.tokens.Decrypt(token)
	if err != nil {
		s.log.WithError(err).Warn("rejected upload token")
		return primitive.NilObjectID, NewError(ErrInvalidToken, "Invalid upload token", err)
	}
	id, err := primitive.ObjectIDFromHex(plaintext)
	if err != nil {
		return primitive.NilObjectID, NewError(ErrInvalidToken, "Invalid upload token", err)
	}
	return id, nil
}

// Status runs the eligibility and claimed checks for the holder of token
func (s *UploadService) Status(ctx context.Context, token string) (*UploadStatus, error) {
	id, err := s.ResolveToken(token)
	if err != nil {
		return nil, err
	}

	eligible, err := s.claims.IsEligibleForUpload(ctx, id)
	if err != nil {
		return nil, err
	}
	claimed, err := s.claims.HasClaimed(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UploadStatus{VerifiedCodeID: id, Eligible: eligible, HasClaimed: claimed}, nil
}

// SubmitDocument stores an identity document and enters the claim with it.
// The stored document is removed again when the claim is not entered.
func (s *UploadService) SubmitDocument(ctx context.Context, token, filename, contentType string, r io.Reader) (ClaimResult, error) {
	id, err := s.ResolveToken(token)
	if err != nil {
		return ClaimResult{}, err
	}

	claimed, err := s.claims.HasClaimed(ctx, id)
	if err != nil {
		return ClaimResult{}, err
	}
	if claimed {
		return ClaimResult{Outcome: ClaimAlreadyClaimed}, nil
	}

	storageID, err := s.blobs.Put(ctx, filename, contentType, r)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &models.ClaimDocument{StorageID: storageID, URL: s.ObjectURL(storageID)}
	result, err := s.claims.EnterClaim(ctx, id, doc)
	if err != nil || !result.OK() {
		if delErr := s.blobs.Delete(ctx, storageID); delErr != nil {
			s.log.WithError(delErr).WithField("storage_id", storageID.Hex()).Error("failed to delete orphaned document")
		}
	}
	return result, err
}

// ObjectURL returns the public URL of a stored blob
func (s *UploadService) ObjectURL(id primitive.ObjectID) string {
	return s.publicBaseURL + StoragePath + id.Hex()
}

// OpenDocument opens a stored blob for streaming. The caller closes it.
func (s *UploadService) OpenDocument(ctx context.Context, id primitive.ObjectID) (*repositories.Blob, error) {
	blob, err := s.blobs.Open(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NewError(ErrNotFound, "File not found", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return blob, nil
}
