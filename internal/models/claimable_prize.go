package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimStatus is the fulfilment state of a claimable prize
type ClaimStatus string

const (
	ClaimStatusUnclaimed ClaimStatus = "unClaimed"
	ClaimStatusClaimed   ClaimStatus = "claimed"
)

// ClaimablePrize tracks a won prize from submission to fulfilment.
// At most one exists per verified code.
type ClaimablePrize struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	PrizeID        primitive.ObjectID  `bson:"prize_id" json:"prize_id"`
	CodeID         primitive.ObjectID  `bson:"code_id" json:"code_id"`
	VerifiedCodeID primitive.ObjectID  `bson:"verified_code_id" json:"verified_code_id"`
	CNICImageURL   string              `bson:"cnic_image_url,omitempty" json:"cnic_image_url,omitempty"`
	StorageID      *primitive.ObjectID `bson:"storageId,omitempty" json:"storageId,omitempty"`
	Status         ClaimStatus         `bson:"status" json:"status"`
	ClaimedAt      *time.Time          `bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// ClaimDocument is the stored identity-document reference attached to a claim
type ClaimDocument struct {
	StorageID primitive.ObjectID
	URL       string
}

// ClaimablePrizeSummary is a row of the admin prize-winner list
type ClaimablePrizeSummary struct {
	ClaimablePrizeID primitive.ObjectID  `json:"claimable_prize_id"`
	Code             *string             `json:"code"`
	User             *VerifierDetails    `json:"user"`
	PrizeDefinition  *PrizeDefinitionRef `json:"prize_definition"`
	CNICImageURL     string              `json:"cnic_image_url"`
	Status           ClaimStatus         `json:"status"`
	ClaimedAt        *time.Time          `json:"claimed_at,omitempty"`
}
