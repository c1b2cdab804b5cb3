package services

import (
	"context"
)

// RedemptionResult is the verification result plus what happened next
type RedemptionResult struct {
	*VerifyResult
	ClaimEntered bool   `json:"claimEntered"`
	UploadToken  string `json:"uploadToken,omitempty"`
}

// RedemptionService runs the end-user flow behind the public verify form
type RedemptionService struct {
	verifications *VerificationService
	claims        *ClaimService
	uploads       *UploadService
}

// NewRedemptionService creates a new RedemptionService
func NewRedemptionService(verifications *VerificationService, claims *ClaimService, uploads *UploadService) *RedemptionService {
	return &RedemptionService{verifications: verifications, claims: claims, uploads: uploads}
}

// Redeem verifies a code, then either enters its prize straight into the
// claim queue or issues an upload token when an identity document is needed
func (s *RedemptionService) Redeem(ctx context.Context, req VerifyRequest) (*RedemptionResult, error) {
	verified, err := s.verifications.VerifyCode(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &RedemptionResult{VerifyResult: verified}
	if !verified.HasPrize || verified.PrizeClaimed || verified.ID == nil {
		return result, nil
	}

	if verified.PrizeInfo != nil && verified.PrizeInfo.RequiresCNIC {
		if result.UploadToken, err = s.uploads.IssueToken(*verified.ID); err != nil {
			return nil, err
		}
		return result, nil
	}

	claim, err := s.claims.EnterClaim(ctx, *verified.ID, nil)
	if err != nil {
		return nil, err
	}
	result.ClaimEntered = claim.OK()
	return result, nil
}
