package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Code is a single-use string printed under a scratch-off panel.
// IsValid stays true until the code is first verified.
type Code struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code      string             `bson:"code" json:"code"`
	IsValid   bool               `bson:"isValid" json:"isValid"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VerifiedCode is one ledger row per verification of a code
type VerifiedCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CodeID    primitive.ObjectID `bson:"code" json:"codeId"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// VerifierDetails is the identity submitted with a verification
type VerifierDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ImportResult summarises a code import run
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors,omitempty"`
}

// CodeStatus answers getCodeStatus
type CodeStatus struct {
	Exists          bool                `json:"exists"`
	IsValid         bool                `json:"isValid"`
	Verified        bool                `json:"verified"`
	CodeID          *primitive.ObjectID `json:"codeId"`
	VerifiedDetails *VerifierDetails    `json:"verifiedDetails"`
}

// CodeSummary is a code row in the admin code list
type CodeSummary struct {
	ID              primitive.ObjectID `json:"id"`
	Code            string             `json:"code"`
	IsValid         bool               `json:"isValid"`
	Verified        bool               `json:"verified"`
	VerifiedDetails *VerifierDetails   `json:"verifiedDetails"`
	PrizeName       *string            `json:"prizeName"`
}

// VerifiedCodeSummary is a ledger row in the admin verification list
type VerifiedCodeSummary struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Phone     string             `json:"phone"`
	Code      *string            `json:"code"`
	CodeID    primitive.ObjectID `json:"codeId"`
	IsValid   bool               `json:"isValid"`
	PrizeName *string            `json:"prizeName"`
}

// VerifiedCodeDetails answers getVerifiedCodeByCodeId
type VerifiedCodeDetails struct {
	Name   string             `json:"name"`
	Phone  string             `json:"phone"`
	CodeID primitive.ObjectID `json:"codeId"`
}
