package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeDefinition is a named, reusable prize category
type PrizeDefinition struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PrizeName    string             `bson:"prize_name" json:"prize_name"`
	Description  string             `bson:"description" json:"description"`
	RequiresCNIC bool               `bson:"requires_cnic" json:"requires_cnic"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Prize links one code to one prize definition. At most one exists per code.
type Prize struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CodeID            primitive.ObjectID `bson:"code_id" json:"code_id"`
	PrizeDefinitionID primitive.ObjectID `bson:"prize_definition_id" json:"prize_definition_id"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PrizeDefinitionInput carries the editable fields of a prize definition
type PrizeDefinitionInput struct {
	PrizeName    string `json:"prize_name" binding:"required"`
	Description  string `json:"description"`
	RequiresCNIC bool   `json:"requires_cnic"`
}

// PrizeDefinitionRef is the definition as embedded in prize read models
type PrizeDefinitionRef struct {
	ID           primitive.ObjectID `json:"id"`
	PrizeName    string             `json:"prize_name"`
	Description  string             `json:"description"`
	RequiresCNIC bool               `json:"requires_cnic"`
}

// NewPrizeDefinitionRef projects a definition for read models
func NewPrizeDefinitionRef(def *PrizeDefinition) *PrizeDefinitionRef {
	if def == nil {
		return nil
	}
	return &PrizeDefinitionRef{
		ID:           def.ID,
		PrizeName:    def.PrizeName,
		Description:  def.Description,
		RequiresCNIC: def.RequiresCNIC,
	}
}

// CodePrize answers getPrizeByCodeId
type CodePrize struct {
	PrizeID         primitive.ObjectID  `json:"prize_id"`
	PrizeDefinition *PrizeDefinitionRef `json:"prize_definition"`
}

// PrizeSummary is a row of the admin prize assignment list
type PrizeSummary struct {
	PrizeID         primitive.ObjectID  `json:"prize_id"`
	CodeID          primitive.ObjectID  `json:"code_id"`
	Code            *string             `json:"code"`
	PrizeDefinition *PrizeDefinitionRef `json:"prize_definition"`
}

// AssignResult reports the outcome of assigning a prize to a code
type AssignResult struct {
	Success bool                `json:"success"`
	ID      *primitive.ObjectID `json:"id,omitempty"`
	Updated bool                `json:"updated,omitempty"`
}

// RemoveResult reports the outcome of removing a prize from a code.
// A missing assignment is a value, not an error.
type RemoveResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkAssignResult folds AssignResult over many codes
type BulkAssignResult struct {
	Assigned int      `json:"assigned"`
	Updated  int      `json:"updated"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
