package services

import (
	"context"
	"fmt"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeService links codes to prize definitions
type PrizeService struct {
	store *repositories.Store
	codes *CodeService
	log   logrus.FieldLogger
}

// NewPrizeService creates a new PrizeService
func NewPrizeService(store *repositories.Store, codes *CodeService, log logrus.FieldLogger) *PrizeService {
	return &PrizeService{store: store, codes: codes, log: log}
}

// AssignPrize links a code to a definition. An existing assignment is
// repointed in place. Neither id is checked for existence.
func (s *PrizeService) AssignPrize(ctx context.Context, codeID, defID primitive.ObjectID) (*models.AssignResult, error) {
	prize, updated, err := s.store.Prizes.Upsert(ctx, codeID, defID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign prize: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"code_id":             codeID.Hex(),
		"prize_definition_id": defID.Hex(),
		"updated":             updated,
	}).Info("prize assigned")

	if updated {
		return &models.AssignResult{Success: true, Updated: true}, nil
	}
	return &models.AssignResult{Success: true, ID: &prize.ID}, nil
}

// RemovePrize deletes the assignment of a code. A missing assignment is
// reported in the result, not as an error.
func (s *PrizeService) RemovePrize(ctx context.Context, codeID primitive.ObjectID) (*models.RemoveResult, error) {
	deleted, err := s.store.Prizes.DeleteByCodeID(ctx, codeID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove prize: %w", err)
	}
	if !deleted {
		return &models.RemoveResult{Success: false, Error: "Prize not found"}, nil
	}
	return &models.RemoveResult{Success: true}, nil
}

// BulkAssignPrize assigns one definition to many codes. Failures are
// collected per code and never stop the batch.
func (s *PrizeService) BulkAssignPrize(ctx context.Context, codeIDs []primitive.ObjectID, defID primitive.ObjectID) *models.BulkAssignResult {
	result := &models.BulkAssignResult{}
	for _, codeID := range codeIDs {
		res, err := s.AssignPrize(ctx, codeID, defID)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", codeID.Hex(), err))
		case res.Updated:
			result.Updated++
		default:
			result.Assigned++
		}
	}
	return result
}

// GetPrizeByCode returns the assignment of a code with its definition, or nil
// when the code has no assignment or its definition is gone
func (s *PrizeService) GetPrizeByCode(ctx context.Context, codeID primitive.ObjectID) (*models.CodePrize, error) {
	prize, def, err := assignmentForCode(ctx, s.store, codeID)
	if err != nil || prize == nil || def == nil {
		return nil, err
	}
	return &models.CodePrize{PrizeID: prize.ID, PrizeDefinition: models.NewPrizeDefinitionRef(def)}, nil
}

// ListPrizes returns every assignment joined with its code and definition
func (s *PrizeService) ListPrizes(ctx context.Context) ([]*models.PrizeSummary, error) {
	prizes, err := s.store.Prizes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes: %w", err)
	}

	defs := map[primitive.ObjectID]*models.PrizeDefinition{}
	out := make([]*models.PrizeSummary, 0, len(prizes))
	for _, prize := range prizes {
		summary := &models.PrizeSummary{PrizeID: prize.ID, CodeID: prize.CodeID}

		code, err := s.codes.GetCode(ctx, prize.CodeID)
		if err != nil {
			return nil, err
		}
		if code != nil {
			value := code.Code
			summary.Code = &value
		}

		def, ok := defs[prize.PrizeDefinitionID]
		if !ok {
			if def, err = definitionOrNil(ctx, s.store, prize.PrizeDefinitionID); err != nil {
				return nil, err
			}
			defs[prize.PrizeDefinitionID] = def
		}
		summary.PrizeDefinition = models.NewPrizeDefinitionRef(def)
		out = append(out, summary)
	}
	return out, nil
}
