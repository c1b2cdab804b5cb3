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

// PrizeDefinitionService manages the prize catalog
type PrizeDefinitionService struct {
	store *repositories.Store
	log   logrus.FieldLogger
}

// NewPrizeDefinitionService creates a new PrizeDefinitionService
func NewPrizeDefinitionService(store *repositories.Store, log logrus.FieldLogger) *PrizeDefinitionService {
	return &PrizeDefinitionService{store: store, log: log}
}

func normalizeDefinition(input models.PrizeDefinitionInput) (models.PrizeDefinitionInput, error) {
	input.PrizeName = strings.TrimSpace(input.PrizeName)
	input.Description = strings.TrimSpace(input.Description)
	if input.PrizeName == "" {
		return input, NewError(ErrInvalidInput, "Prize name is required", nil)
	}
	return input, nil
}

// CreatePrizeDefinition adds a prize definition to the catalog
func (s *PrizeDefinitionService) CreatePrizeDefinition(ctx context.Context, input models.PrizeDefinitionInput) (*models.PrizeDefinition, error) {
	input, err := normalizeDefinition(input)
	if err != nil {
		return nil, err
	}

	def := &models.PrizeDefinition{
		PrizeName:    input.PrizeName,
		Description:  input.Description,
		RequiresCNIC: input.RequiresCNIC,
	}
	if err := s.store.PrizeDefinitions.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("failed to create prize definition: %w", err)
	}
	s.log.WithField("prize_definition_id", def.ID.Hex()).Info("prize definition created")
	return def, nil
}

// GetPrizeDefinition returns a definition by ID, or nil
func (s *PrizeDefinitionService) GetPrizeDefinition(ctx context.Context, id primitive.ObjectID) (*models.PrizeDefinition, error) {
	def, err := s.store.PrizeDefinitions.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prize definition: %w", err)
	}
	return def, nil
}

// ListPrizeDefinitions returns the whole catalog
func (s *PrizeDefinitionService) ListPrizeDefinitions(ctx context.Context) ([]*models.PrizeDefinition, error) {
	defs, err := s.store.PrizeDefinitions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prize definitions: %w", err)
	}
	return defs, nil
}

// UpdatePrizeDefinition replaces the editable fields of a definition
func (s *PrizeDefinitionService) UpdatePrizeDefinition(ctx context.Context, id primitive.ObjectID, input models.PrizeDefinitionInput) (*models.PrizeDefinition, error) {
	input, err := normalizeDefinition(input)
	if err != nil {
		return nil, err
	}

	def, err := s.GetPrizeDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, NewError(ErrNotFound, "Prize definition not found", nil)
	}

	def.PrizeName = input.PrizeName
	def.Description = input.Description
	def.RequiresCNIC = input.RequiresCNIC
	if err := s.store.PrizeDefinitions.Update(ctx, def); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewError(ErrNotFound, "Prize definition not found", nil)
		}
		return nil, fmt.Errorf("failed to update prize definition: %w", err)
	}
	return def, nil
}

// DeletePrizeDefinition removes a definition no assignment refers to
func (s *PrizeDefinitionService) DeletePrizeDefinition(ctx context.Context, id primitive.ObjectID) error {
	referenced, err := s.store.Prizes.ExistsByDefinitionID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check prize assignments: %w", err)
	}
	if referenced {
		s.log.WithField("prize_definition_id", id.Hex()).Warn("refused to delete assigned prize definition")
		return NewError(ErrReferencedByAssignment, "Cannot delete prize definition. It is assigned to one or more codes.", nil)
	}

	err = s.store.PrizeDefinitions.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return NewError(ErrNotFound, "Prize definition not found", nil)
	}
	if err != nil {
		return fmt.Errorf("failed to delete prize definition: %w", err)
	}
	return nil
}
