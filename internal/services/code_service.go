package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultImportBatchSize bounds the codes handled per import step
const DefaultImportBatchSize = 100

// CodeService owns the lifecycle of redemption codes
type CodeService struct {
	store     *repositories.Store
	batchSize int
	log       logrus.FieldLogger
}

// NewCodeService creates a new CodeService. batchSize <= 0 selects DefaultImportBatchSize.
func NewCodeService(store *repositories.Store, batchSize int, log logrus.FieldLogger) *CodeService {
	if batchSize <= 0 {
		batchSize = DefaultImportBatchSize
	}
	return &CodeService{store: store, batchSize: batchSize, log: log}
}

// LookupByCode finds a code by exact string. A missing code is (nil, nil).
func (s *CodeService) LookupByCode(ctx context.Context, value string) (*models.Code, error) {
	code, err := s.store.Codes.FindByCode(ctx, value)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}
	return code, nil
}

// GetCode finds a code by ID. A missing code is (nil, nil).
func (s *CodeService) GetCode(ctx context.Context, id primitive.ObjectID) (*models.Code, error) {
	code, err := s.store.Codes.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get code: %w", err)
	}
	return code, nil
}

// Invalidate marks a code as used. Invalidating a used code is a no-op.
func (s *CodeService) Invalidate(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.Codes.Invalidate(ctx, id); err != nil {
		return fmt.Errorf("failed to invalidate code %s: %w", id.Hex(), err)
	}
	return nil
}

// ImportBatch inserts every new, non-blank code as valid. Blank and already
// present codes are skipped; per-code store failures are collected in Errors.
// It never fails as a whole.
func (s *CodeService) ImportBatch(ctx context.Context, codes []string) *models.ImportResult {
	result := &models.ImportResult{Success: true, Total: len(codes)}

	for start := 0; start < len(codes); start += s.batchSize {
		end := start + s.batchSize
		if end > len(codes) {
			end = len(codes)
		}
		for _, raw := range codes[start:end] {
			s.importOne(ctx, strings.TrimSpace(raw), result)
		}
		s.log.WithFields(logrus.Fields{"processed": end, "total": len(codes)}).Debug("code import batch done")
	}

	s.log.WithFields(logrus.Fields{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   len(result.Errors),
	}).Info("code import finished")
	return result
}

func (s *CodeService) importOne(ctx context.Context, value string, result *models.ImportResult) {
	if value == "" {
		result.Skipped++
		return
	}

	existing, err := s.LookupByCode(ctx, value)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to import code: %s", value))
		return
	}
	if existing != nil {
		result.Skipped++
		return
	}

	err = s.store.Codes.Create(ctx, &models.Code{Code: value, IsValid: true})
	switch {
	case err == nil:
		result.Imported++
	case errors.Is(err, repositories.ErrDuplicate):
		// inserted concurrently since the lookup
		result.Skipped++
	default:
		s.log.WithError(err).WithField("code", value).Error("failed to import code")
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to import code: %s", value))
	}
}

// UpdateCode replaces the code string and optionally forces validity
func (s *CodeService) UpdateCode(ctx context.Context, id primitive.ObjectID, value string, isValid *bool) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return NewError(ErrInvalidInput, "Code must not be empty", nil)
	}

	err := s.store.Codes.Update(ctx, id, value, isValid)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrDuplicate):
		return NewError(ErrDuplicateCode, "A code with this value already exists", nil)
	case errors.Is(err, repositories.ErrNotFound):
		return NewError(ErrNotFound, "Code not found", nil)
	default:
		return fmt.Errorf("failed to update code: %w", err)
	}
}

// DeleteCodes deletes each code together with its claims, their stored
// documents, its assignment and its ledger rows
func (s *CodeService) DeleteCodes(ctx context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		if err := s.deleteClaimDocuments(ctx, id); err != nil {
			return err
		}
		if _, err := s.store.ClaimablePrizes.DeleteByCodeID(ctx, id); err != nil {
			return fmt.Errorf("failed to delete claims of code %s: %w", id.Hex(), err)
		}
		if _, err := s.store.Prizes.DeleteByCodeID(ctx, id); err != nil {
			return fmt.Errorf("failed to delete prize of code %s: %w", id.Hex(), err)
		}
		if _, err := s.store.VerifiedCodes.DeleteByCodeID(ctx, id); err != nil {
			return fmt.Errorf("failed to delete verifications of code %s: %w", id.Hex(), err)
		}
		if err := s.store.Codes.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete code %s: %w", id.Hex(), err)
		}
	}
	s.log.WithField("count", len(ids)).Info("codes deleted")
	return nil
}

func (s *CodeService) deleteClaimDocuments(ctx context.Context, codeID primitive.ObjectID) error {
	claims, err := s.store.ClaimablePrizes.FindByCodeID(ctx, codeID)
	if err != nil {
		return fmt.Errorf("failed to list claims of code %s: %w", codeID.Hex(), err)
	}
	for _, claim := range claims {
		if claim.StorageID == nil {
			continue
		}
		err := s.store.Blobs.Delete(ctx, *claim.StorageID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to delete document %s: %w", claim.StorageID.Hex(), err)
		}
	}
	return nil
}

// GetCodeStatus reports whether a code exists, is still valid and has been verified
func (s *CodeService) GetCodeStatus(ctx context.Context, value string) (*models.CodeStatus, error) {
	code, err := s.LookupByCode(ctx, value)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return &models.CodeStatus{}, nil
	}

	status := &models.CodeStatus{Exists: true, IsValid: code.IsValid, CodeID: &code.ID}
	verified, err := s.firstVerification(ctx, code.ID)
	if err != nil {
		return nil, err
	}
	if verified != nil {
		status.Verified = true
		status.VerifiedDetails = &models.VerifierDetails{Name: verified.Name, Phone: verified.Phone}
	}
	return status, nil
}

// ListCodes returns codes with their verification and prize details. limit <= 0 returns all.
func (s *CodeService) ListCodes(ctx context.Context, limit int64) ([]*models.CodeSummary, error) {
	codes, err := s.store.Codes.FindAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}

	out := make([]*models.CodeSummary, 0, len(codes))
	for _, code := range codes {
		summary := &models.CodeSummary{ID: code.ID, Code: code.Code, IsValid: code.IsValid}

		verified, err := s.firstVerification(ctx, code.ID)
		if err != nil {
			return nil, err
		}
		if verified != nil {
			summary.Verified = true
			summary.VerifiedDetails = &models.VerifierDetails{Name: verified.Name, Phone: verified.Phone}
		}

		if summary.PrizeName, err = prizeNameForCode(ctx, s.store, code.ID); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *CodeService) firstVerification(ctx context.Context, codeID primitive.ObjectID) (*models.VerifiedCode, error) {
	verified, err := s.store.VerifiedCodes.FindFirstByCodeID(ctx, codeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up verification: %w", err)
	}
	return verified, nil
}

// prizeNameForCode resolves the name of the prize assigned to a code, if any
func prizeNameForCode(ctx context.Context, store *repositories.Store, codeID primitive.ObjectID) (*string, error) {
	_, def, err := assignmentForCode(ctx, store, codeID)
	if err != nil || def == nil {
		return nil, err
	}
	name := def.PrizeName
	return &name, nil
}

// assignmentForCode resolves the assignment of a code and its definition.
// Either may be nil; a dangling definition id yields a nil definition.
func assignmentForCode(ctx context.Context, store *repositories.Store, codeID primitive.ObjectID) (*models.Prize, *models.PrizeDefinition, error) {
	prize, err := store.Prizes.FindByCodeID(ctx, codeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up prize: %w", err)
	}

	def, err := definitionOrNil(ctx, store, prize.PrizeDefinitionID)
	if err != nil {
		return nil, nil, err
	}
	return prize, def, nil
}

func definitionOrNil(ctx context.Context, store *repositories.Store, id primitive.ObjectID) (*models.PrizeDefinition, error) {
	def, err := store.PrizeDefinitions.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up prize definition: %w", err)
	}
	return def, nil
}
