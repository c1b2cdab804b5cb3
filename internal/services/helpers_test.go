package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories/memory"
	"github.com/ArowuTest/scratchcard-backend/pkg/logger"
	"github.com/ArowuTest/scratchcard-backend/pkg/uploadtoken"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testEnv struct {
	store       *repositories.Store
	codes       *CodeService
	verify      *VerificationService
	definitions *PrizeDefinitionService
	prizes      *PrizeService
	claims      *ClaimService
	uploads     *UploadService
	redemptions *RedemptionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Discard()
	store := memory.NewStore()

	tokens, err := uploadtoken.New("test-secret")
	require.NoError(t, err)

	env := &testEnv{store: store}
	env.codes = NewCodeService(store, 2, log)
	env.verify = NewVerificationService(store, env.codes, log)
	env.definitions = NewPrizeDefinitionService(store, log)
	env.prizes = NewPrizeService(store, env.codes, log)
	env.claims = NewClaimService(store, log)
	env.uploads = NewUploadService(tokens, env.claims, store.Blobs, "http://files.test/", log)
	env.redemptions = NewRedemptionService(env.verify, env.claims, env.uploads)
	return env
}

func (e *testEnv) seedCode(t *testing.T, value string) *models.Code {
	t.Helper()
	res := e.codes.ImportBatch(context.Background(), []string{value})
	require.Equal(t, 1, res.Imported)
	code, err := e.codes.LookupByCode(context.Background(), value)
	require.NoError(t, err)
	require.NotNil(t, code)
	return code
}

func (e *testEnv) seedPrize(t *testing.T, code *models.Code, name string, requiresCNIC bool) *models.PrizeDefinition {
	t.Helper()
	ctx := context.Background()
	def, err := e.definitions.CreatePrizeDefinition(ctx, models.PrizeDefinitionInput{PrizeName: name, RequiresCNIC: requiresCNIC})
	require.NoError(t, err)
	_, err = e.prizes.AssignPrize(ctx, code.ID, def.ID)
	require.NoError(t, err)
	return def
}

func (e *testEnv) verifyCode(t *testing.T, value string) primitive.ObjectID {
	t.Helper()
	res, err := e.verify.VerifyCode(context.Background(), VerifyRequest{Code: value, Name: "Ali", Phone: "03001234567"})
	require.NoError(t, err)
	require.NotNil(t, res.ID)
	return *res.ID
}
