package services

import (
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/ArowuTest/scratchcard-backend/pkg/jwt"
	"github.com/ArowuTest/scratchcard-backend/pkg/uploadtoken"
	"github.com/sirupsen/logrus"
)

// Options configures the services built by New
type Options struct {
	ImportBatchSize int
	PublicBaseURL   string
	UploadTokens    *uploadtoken.Cipher
	AdminTokens     *jwt.AdminTokenService
	Logger          logrus.FieldLogger
}

// Services is the full set of services over one store
type Services struct {
	Codes            *CodeService
	Verifications    *VerificationService
	PrizeDefinitions *PrizeDefinitionService
	Prizes           *PrizeService
	Claims           *ClaimService
	Uploads          *UploadService
	Redemptions      *RedemptionService
	Auth             *AuthService
}

// New wires every service over store
func New(store *repositories.Store, opts Options) *Services {
	log := opts.Logger
	s := &Services{}
	s.Codes = NewCodeService(store, opts.ImportBatchSize, log.WithField("service", "codes"))
	s.Verifications = NewVerificationService(store, s.Codes, log.WithField("service", "verifications"))
	s.PrizeDefinitions = NewPrizeDefinitionService(store, log.WithField("service", "prize_definitions"))
	s.Prizes = NewPrizeService(store, s.Codes, log.WithField("service", "prizes"))
	s.Claims = NewClaimService(store, log.WithField("service", "claims"))
	s.Uploads = NewUploadService(opts.UploadTokens, s.Claims, store.Blobs, opts.PublicBaseURL, log.WithField("service", "uploads"))
	s.Redemptions = NewRedemptionService(s.Verifications, s.Claims, s.Uploads)
	s.Auth = NewAuthService(store.AdminUsers, opts.AdminTokens, log.WithField("service", "auth"))
	return s
}
