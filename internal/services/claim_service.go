package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimOutcome is the result of trying to enter a prize into the claim queue
type ClaimOutcome int

const (
	ClaimEntered ClaimOutcome = iota
	ClaimNotVerified
	ClaimCodeNotFound
	ClaimAlreadyClaimed
	ClaimDocumentRequired
)

var claimOutcomeMessages = map[ClaimOutcome]string{
	ClaimEntered:          "entered",
	ClaimNotVerified:      "Not Verified",
	ClaimCodeNotFound:     "code not found",
	ClaimAlreadyClaimed:   "already Claimed",
	ClaimDocumentRequired: "document required",
}

func (o ClaimOutcome) String() string {
	if msg, ok := claimOutcomeMessages[o]; ok {
		return msg
	}
	return fmt.Sprintf("ClaimOutcome(%d)", int(o))
}

// ClaimResult is the tagged result of EnterClaim. ClaimableID is set only
// when Outcome is ClaimEntered.
type ClaimResult struct {
	Outcome     ClaimOutcome
	ClaimableID primitive.ObjectID
}

// OK reports whether a claim record was created
func (r ClaimResult) OK() bool {
	return r.Outcome == ClaimEntered
}

// ClaimService drives claimable prizes from entry to fulfilment
type ClaimService struct {
	store *repositories.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewClaimService creates a new ClaimService
func NewClaimService(store *repositories.Store, log logrus.FieldLogger) *ClaimService {
	return &ClaimService{store: store, log: log, now: time.Now}
}

// EnterClaim creates the unClaimed record for a verification. doc must be
// set when the assigned prize requires an identity document.
func (s *ClaimService) EnterClaim(ctx context.Context, verifiedCodeID primitive.ObjectID, doc *models.ClaimDocument) (ClaimResult, error) {
	logger := s.log.WithField("verified_code_id", verifiedCodeID.Hex())

	verified, err := s.store.VerifiedCodes.FindByID(ctx, verifiedCodeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ClaimResult{Outcome: ClaimNotVerified}, nil
	}
	if err != nil {
		return ClaimResult{}, fmt.Errorf("failed to look up verification: %w", err)
	}

	code, err := s.store.Codes.FindByID(ctx, verified.CodeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ClaimResult{Outcome: ClaimCodeNotFound}, nil
	}
	if err != nil {
		return ClaimResult{}, fmt.Errorf("failed to look up code: %w", err)
	}

	claimed, err := s.HasClaimed(ctx, verifiedCodeID)
	if err != nil {
		return ClaimResult{}, err
	}
	if claimed {
		logger.Info("claim already entered")
		return ClaimResult{Outcome: ClaimAlreadyClaimed}, nil
	}

	prize, def, err := assignmentForCode(ctx, s.store, code.ID)
	if err != nil {
		return ClaimResult{}, err
	}
	if prize == nil {
		return ClaimResult{Outcome: ClaimCodeNotFound}, nil
	}
	if def != nil && def.RequiresCNIC && doc == nil {
		logger.Info("claim needs an identity document")
		return ClaimResult{Outcome: ClaimDocumentRequired}, nil
	}

	claim := &models.ClaimablePrize{
		PrizeID:        prize.ID,
		CodeID:         code.ID,
		VerifiedCodeID: verified.ID,
		Status:         models.ClaimStatusUnclaimed,
	}
	if doc != nil {
		storageID := doc.StorageID
		claim.StorageID = &storageID
		claim.CNICImageURL = doc.URL
	}

	err = s.store.ClaimablePrizes.Create(ctx, claim)
	if errors.Is(err, repositories.ErrDuplicate) {
		// lost a race with a concurrent submission
		logger.Info("claim already entered")
		return ClaimResult{Outcome: ClaimAlreadyClaimed}, nil
	}
	if err != nil {
		return ClaimResult{}, fmt.Errorf("failed to enter claim: %w", err)
	}

	logger.WithField("claimable_prize_id", claim.ID.Hex()).Info("claim entered")
	return ClaimResult{Outcome: ClaimEntered, ClaimableID: claim.ID}, nil
}

// MarkClaimed moves an unClaimed record to claimed. It never reverts.
func (s *ClaimService) MarkClaimed(ctx context.Context, claimableID primitive.ObjectID) error {
	ok, err := s.store.ClaimablePrizes.MarkClaimed(ctx, claimableID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark prize as claimed: %w", err)
	}
	if ok {
		s.log.WithField("claimable_prize_id", claimableID.Hex()).Info("prize marked as claimed")
		return nil
	}

	_, err = s.store.ClaimablePrizes.FindByID(ctx, claimableID)
	if errors.Is(err, repositories.ErrNotFound) {
		return NewError(ErrNotFound, "Claimable Prize not found", nil)
	}
	if err != nil {
		return fmt.Errorf("failed to look up claimable prize: %w", err)
	}
	return NewError(ErrAlreadyClaimed, "Prize has already been claimed", nil)
}

// HasClaimed reports whether a claim record exists for the verification
func (s *ClaimService) HasClaimed(ctx context.Context, verifiedCodeID primitive.ObjectID) (bool, error) {
	_, err := s.store.ClaimablePrizes.FindByVerifiedCodeID(ctx, verifiedCodeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up claim: %w", err)
	}
	return true, nil
}

// IsEligibleForUpload reports whether the verification exists and has no claim yet
func (s *ClaimService) IsEligibleForUpload(ctx context.Context, verifiedCodeID primitive.ObjectID) (bool, error) {
	_, err := s.store.VerifiedCodes.FindByID(ctx, verifiedCodeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up verification: %w", err)
	}

	claimed, err := s.HasClaimed(ctx, verifiedCodeID)
	if err != nil {
		return false, err
	}
	return !claimed, nil
}

// ListClaimablePrizes returns every claim joined with its code, claimant and prize
func (s *ClaimService) ListClaimablePrizes(ctx context.Context) ([]*models.ClaimablePrizeSummary, error) {
	claims, err := s.store.ClaimablePrizes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list claimable prizes: %w", err)
	}

	out := make([]*models.ClaimablePrizeSummary, 0, len(claims))
	for _, claim := range claims {
		summary := &models.ClaimablePrizeSummary{
			ClaimablePrizeID: claim.ID,
			CNICImageURL:     claim.CNICImageURL,
			Status:           claim.Status,
			ClaimedAt:        claim.ClaimedAt,
		}

		code, err := s.store.Codes.FindByID(ctx, claim.CodeID)
		switch {
		case err == nil:
			value := code.Code
			summary.Code = &value
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("failed to look up code: %w", err)
		}

		verified, err := s.store.VerifiedCodes.FindByID(ctx, claim.VerifiedCodeID)
		switch {
		case err == nil:
			summary.User = &models.VerifierDetails{Name: verified.Name, Phone: verified.Phone}
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("failed to look up verification: %w", err)
		}

		_, def, err := assignmentForCode(ctx, s.store, claim.CodeID)
		if err != nil {
			return nil, err
		}
		summary.PrizeDefinition = models.NewPrizeDefinitionRef(def)
		out = append(out, summary)
	}
	return out, nil
}
