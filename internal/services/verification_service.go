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

// Verification messages shown to the end user
const (
	MessageInvalidCode = "Invalid Code"
	MessageCodeValid   = "The Code is Valid"
	MessageCodeUsed    = "The Code is Already used."
)

// VerifyRequest is a code submission from the public redemption form
type VerifyRequest struct {
	Code  string `json:"code" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// VerifyResult reports what the code is worth. ID is the new ledger row and
// is absent only when the code does not exist.
type VerifyResult struct {
	ID           *primitive.ObjectID     `json:"id"`
	Success      bool                    `json:"success"`
	IsValid      bool                    `json:"isValid"`
	HasPrize     bool                    `json:"hasPrize"`
	PrizeInfo    *models.PrizeDefinition `json:"prize_info"`
	PrizeClaimed bool                    `json:"prizeClaimed"`
	Message      string                  `json:"message"`
}

// VerificationService records code verifications in the ledger
type VerificationService struct {
	store *repositories.Store
	codes *CodeService
	log   logrus.FieldLogger
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(store *repositories.Store, codes *CodeService, log logrus.FieldLogger) *VerificationService {
	return &VerificationService{store: store, codes: codes, log: log}
}

// VerifyCode records a verification attempt and invalidates the code.
// The submitted code is trimmed before the exact lookup; name and phone are
// stored as given. Used codes are recorded too; IsValid reports the state
// before this call. HasPrize follows the assignment, so PrizeInfo is nil when
// the assigned definition no longer exists.
// Two concurrent first verifications may both observe IsValid.
func (s *VerificationService) VerifyCode(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	value := strings.TrimSpace(req.Code)
	code, err := s.codes.LookupByCode(ctx, value)
	if err != nil {
		return nil, err
	}
	if code == nil {
		s.log.WithField("code", value).Info("verification of unknown code")
		return &VerifyResult{Message: MessageInvalidCode}, nil
	}

	result := &VerifyResult{Success: true, IsValid: code.IsValid}

	prize, def, err := assignmentForCode(ctx, s.store, code.ID)
	if err != nil {
		return nil, err
	}
	if prize != nil {
		result.HasPrize = true
		result.PrizeInfo = def
		claim, err := s.store.ClaimablePrizes.FindFirstByCodeID(ctx, code.ID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up claim: %w", err)
		}
		result.PrizeClaimed = claim != nil
	}

	verified := &models.VerifiedCode{
		CodeID: code.ID,
		Name:   req.Name,
		Phone:  req.Phone,
	}
	if err := s.store.VerifiedCodes.Create(ctx, verified); err != nil {
		return nil, fmt.Errorf("failed to record verification: %w", err)
	}
	if err := s.codes.Invalidate(ctx, code.ID); err != nil {
		return nil, err
	}
	result.ID = &verified.ID

	if code.IsValid {
		result.Message = MessageCodeValid
	} else {
		result.Message = MessageCodeUsed
	}

	s.log.WithFields(logrus.Fields{
		"code_id":          code.ID.Hex(),
		"verified_code_id": verified.ID.Hex(),
		"first_use":        code.IsValid,
		"has_prize":        result.HasPrize,
	}).Info("code verified")
	return result, nil
}

// GetVerifiedCodeByCodeID returns the first verification of a code, or nil
func (s *VerificationService) GetVerifiedCodeByCodeID(ctx context.Context, codeID primitive.ObjectID) (*models.VerifiedCodeDetails, error) {
	verified, err := s.codes.firstVerification(ctx, codeID)
	if err != nil || verified == nil {
		return nil, err
	}
	return &models.VerifiedCodeDetails{Name: verified.Name, Phone: verified.Phone, CodeID: verified.CodeID}, nil
}

// ListVerifiedCodes returns every ledger row joined with its code and prize
func (s *VerificationService) ListVerifiedCodes(ctx context.Context) ([]*models.VerifiedCodeSummary, error) {
	rows, err := s.store.VerifiedCodes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified codes: %w", err)
	}

	out := make([]*models.VerifiedCodeSummary, 0, len(rows))
	for _, row := range rows {
		summary := &models.VerifiedCodeSummary{
			ID:     row.ID,
			Name:   row.Name,
			Phone:  row.Phone,
			CodeID: row.CodeID,
		}

		code, err := s.codes.GetCode(ctx, row.CodeID)
		if err != nil {
			return nil, err
		}
		if code != nil {
			value := code.Code
			summary.Code = &value
			summary.IsValid = code.IsValid
		}

		if summary.PrizeName, err = prizeNameForCode(ctx, s.store, row.CodeID); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}
