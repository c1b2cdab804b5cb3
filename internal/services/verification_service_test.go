package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVerifyCodeFirstUseWithoutPrize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.seedCode(t, "ABC123")

	res, err := env.verify.VerifyCode(ctx, VerifyRequest{Code: "ABC123", Name: "Sara", Phone: "0300"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.IsValid)
	assert.False(t, res.HasPrize)
	assert.Nil(t, res.PrizeInfo)
	assert.Equal(t, MessageCodeValid, res.Message)
	require.NotNil(t, res.ID)

	after, err := env.codes.GetCode(ctx, code.ID)
	require.NoError(t, err)
	assert.False(t, after.IsValid)
}

func TestVerifyCodeReuseRecordsAnotherRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCode(t, "ABC123")
	first := env.verifyCode(t, "ABC123")

	res, err := env.verify.VerifyCode(ctx, VerifyRequest{Code: "ABC123", Name: "Sara", Phone: "0300"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.IsValid)
	assert.Equal(t, MessageCodeUsed, res.Message)
	require.NotNil(t, res.ID)
	assert.NotEqual(t, first, *res.ID)

	rows, err := env.verify.ListVerifiedCodes(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestVerifyCodeUnknown(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.verify.VerifyCode(context.Background(), VerifyRequest{Code: "NOPE", Name: "x", Phone: "y"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.False(t, res.IsValid)
	assert.Nil(t, res.ID)
	assert.Equal(t, MessageInvalidCode, res.Message)

	rows, err := env.verify.ListVerifiedCodes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestVerifyCodeReportsPrize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.seedCode(t, "WIN1")
	def := env.seedPrize(t, code, "Phone", false)

	res, err := env.verify.VerifyCode(ctx, VerifyRequest{Code: "WIN1", Name: "Sara", Phone: "0300"})
	require.NoError(t, err)
	assert.True(t, res.HasPrize)
	require.NotNil(t, res.PrizeInfo)
	assert.Equal(t, def.ID, res.PrizeInfo.ID)
	assert.False(t, res.PrizeClaimed)

	claim, err := env.claims.EnterClaim(ctx, *res.ID, nil)
	require.NoError(t, err)
	require.True(t, claim.OK())

	again, err := env.verify.VerifyCode(ctx, VerifyRequest{Code: "WIN1", Name: "Sara", Phone: "0300"})
	require.NoError(t, err)
	assert.True(t, again.PrizeClaimed)
}

func TestVerifyCodeWithDanglingDefinition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.seedCode(t, "ORPHAN1")
	_, err := env.prizes.AssignPrize(ctx, code.ID, primitive.NewObjectID())
	require.NoError(t, err)

	res, err := env.verify.VerifyCode(ctx, VerifyRequest{Code: "ORPHAN1", Name: "Sara", Phone: "0300"})
	require.NoError(t, err)
	assert.True(t, res.HasPrize)
	assert.Nil(t, res.PrizeInfo)
	assert.False(t, res.PrizeClaimed)

	claim, err := env.claims.EnterClaim(ctx, *res.ID, nil)
	require.NoError(t, err)
	require.Equal(t, ClaimEntered, claim.Outcome)

	again, err := env.verify.VerifyCode(ctx, VerifyRequest{Code: "ORPHAN1", Name: "Sara", Phone: "0300"})
	require.NoError(t, err)
	assert.True(t, again.HasPrize)
	assert.True(t, again.PrizeClaimed)
}

func TestVerifyCodeTrimsCodeOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.seedCode(t, "TRIM1")

	res, err := env.verify.VerifyCode(ctx, VerifyRequest{Code: "  TRIM1 ", Name: " Ali ", Phone: " 0300 "})
	require.NoError(t, err)
	assert.True(t, res.Success)

	details, err := env.verify.GetVerifiedCodeByCodeID(ctx, code.ID)
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, " Ali ", details.Name)
	assert.Equal(t, " 0300 ", details.Phone)
}

func TestListVerifiedCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.seedCode(t, "LV1")
	env.seedPrize(t, code, "Cap", false)
	env.verifyCode(t, "LV1")

	rows, err := env.verify.ListVerifiedCodes(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Code)
	assert.Equal(t, "LV1", *rows[0].Code)
	assert.False(t, rows[0].IsValid)
	require.NotNil(t, rows[0].PrizeName)
	assert.Equal(t, "Cap", *rows[0].PrizeName)

	details, err := env.verify.GetVerifiedCodeByCodeID(ctx, code.ID)
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "Ali", details.Name)
	assert.Equal(t, code.ID, details.CodeID)
}
