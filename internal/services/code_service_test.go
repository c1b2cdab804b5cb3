package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestImportBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedCode(t, "EXIST1")
	res := env.codes.ImportBatch(ctx, []string{" NEW1 ", "", "   ", "EXIST1", "NEW2", "NEW1"})

	assert.True(t, res.Success)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 4, res.Skipped)
	assert.Empty(t, res.Errors)

	code, err := env.codes.LookupByCode(ctx, "NEW1")
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.True(t, code.IsValid)
}

func TestLookupByCodeAbsent(t *testing.T) {
	env := newTestEnv(t)
	code, err := env.codes.LookupByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, code)
}

func TestUpdateCodeRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCode(t, "AAA")
	b := env.seedCode(t, "BBB")

	err := env.codes.UpdateCode(ctx, b.ID, "AAA", nil)
	assert.True(t, IsKind(err, ErrDuplicateCode))

	valid := false
	require.NoError(t, env.codes.UpdateCode(ctx, b.ID, "CCC", &valid))
	got, err := env.codes.GetCode(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "CCC", got.Code)
	assert.False(t, got.IsValid)

	err = env.codes.UpdateCode(ctx, primitive.NewObjectID(), "DDD", nil)
	assert.True(t, IsKind(err, ErrNotFound))
}

func TestDeleteCodesCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.seedCode(t, "GONE")
	keep := env.seedCode(t, "KEEP")
	env.seedPrize(t, code, "Mug", false)
	verifiedID := env.verifyCode(t, "GONE")
	res, err := env.claims.EnterClaim(ctx, verifiedID, nil)
	require.NoError(t, err)
	require.True(t, res.OK())

	require.NoError(t, env.codes.DeleteCodes(ctx, []primitive.ObjectID{code.ID}))

	got, err := env.codes.GetCode(ctx, code.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	prize, err := env.prizes.GetPrizeByCode(ctx, code.ID)
	require.NoError(t, err)
	assert.Nil(t, prize)

	details, err := env.verify.GetVerifiedCodeByCodeID(ctx, code.ID)
	require.NoError(t, err)
	assert.Nil(t, details)

	claims, err := env.claims.ListClaimablePrizes(ctx)
	require.NoError(t, err)
	assert.Empty(t, claims)

	got, err = env.codes.GetCode(ctx, keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestDeleteCodesRemovesClaimDocuments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.seedCode(t, "DOCGONE")
	env.seedPrize(t, code, "Gold", true)
	verifiedID := env.verifyCode(t, "DOCGONE")
	token, err := env.uploads.IssueToken(verifiedID)
	require.NoError(t, err)
	res, err := env.uploads.SubmitDocument(ctx, token, "cnic.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.True(t, res.OK())
	record, err := env.store.ClaimablePrizes.FindByID(ctx, res.ClaimableID)
	require.NoError(t, err)
	require.NotNil(t, record.StorageID)

	require.NoError(t, env.codes.DeleteCodes(ctx, []primitive.ObjectID{code.ID}))

	_, err = env.store.Blobs.Open(ctx, *record.StorageID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeleteCodesIgnoresMissingDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	code := env.seedCode(t, "DOCLOST")
	env.seedPrize(t, code, "Gold", true)
	verifiedID := env.verifyCode(t, "DOCLOST")
	res, err := env.claims.EnterClaim(ctx, verifiedID, &models.ClaimDocument{StorageID: primitive.NewObjectID()})
	require.NoError(t, err)
	require.True(t, res.OK())

	require.NoError(t, env.codes.DeleteCodes(ctx, []primitive.ObjectID{code.ID}))

	got, err := env.codes.GetCode(ctx, code.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetCodeStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status, err := env.codes.GetCodeStatus(ctx, "MISSING")
	require.NoError(t, err)
	assert.False(t, status.Exists)

	code := env.seedCode(t, "STAT1")
	status, err = env.codes.GetCodeStatus(ctx, "STAT1")
	require.NoError(t, err)
	assert.True(t, status.Exists)
	assert.True(t, status.IsValid)
	assert.False(t, status.Verified)
	assert.Equal(t, code.ID, *status.CodeID)

	env.verifyCode(t, "STAT1")
	status, err = env.codes.GetCodeStatus(ctx, "STAT1")
	require.NoError(t, err)
	assert.False(t, status.IsValid)
	assert.True(t, status.Verified)
	require.NotNil(t, status.VerifiedDetails)
	assert.Equal(t, "Ali", status.VerifiedDetails.Name)
}

func TestListCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.seedCode(t, "L1")
	env.seedCode(t, "L2")
	env.seedCode(t, "L3")
	env.seedPrize(t, a, "Bike", false)

	all, err := env.codes.ListCodes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "L1", all[0].Code)
	require.NotNil(t, all[0].PrizeName)
	assert.Equal(t, "Bike", *all[0].PrizeName)
	assert.Nil(t, all[1].PrizeName)

	limited, err := env.codes.ListCodes(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
