package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/config"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories/memory"
	"github.com/ArowuTest/scratchcard-backend/internal/services"
	"github.com/ArowuTest/scratchcard-backend/pkg/jwt"
	"github.com/ArowuTest/scratchcard-backend/pkg/logger"
	"github.com/ArowuTest/scratchcard-backend/pkg/uploadtoken"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{AllowedHosts: []string{"*"}},
		Storage: config.StorageConfig{PublicBaseURL: "http://api.test", MaxUploadSize: 1 << 20},
	}
	log := logger.Discard()
	cipher, err := uploadtoken.New("upload-secret")
	require.NoError(t, err)
	tokens := jwt.NewAdminTokenService("jwt-secret", time.Hour)

	svc := services.New(memory.NewStore(), services.Options{
		ImportBatchSize: 10,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		UploadTokens:    cipher,
		AdminTokens:     tokens,
		Logger:          log,
	})
	require.NoError(t, svc.Auth.EnsureDefaultAdmin(context.Background(), "admin", "admin123"))

	return &testServer{t: t, router: SetupRouter(cfg, NewHandlerDependencies(cfg, svc, tokens, log))}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *testServer) login() {
	s.t.Helper()
	w, env := s.json(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp services.LoginResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &resp))
	s.token = resp.Token
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.json(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	w, env := s.json(http.MethodGet, "/api/v1/admin/codes", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = s.json(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login()
	w, env = s.json(http.MethodGet, "/api/v1/admin/codes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestVerifyAndClaimWithoutDocument(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w, env := s.json(http.MethodPost, "/api/v1/admin/codes/import", gin.H{"codes": []string{"ABC123", "MUG1", ""}})
	require.Equal(t, http.StatusOK, w.Code)
	var imported struct{ Imported, Skipped, Total int }
	decode(t, env.Data, &imported)
	assert.Equal(t, 2, imported.Imported)
	assert.Equal(t, 1, imported.Skipped)

	w, env = s.json(http.MethodGet, "/api/v1/codes/status/MUG1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		CodeID string `json:"codeId"`
	}
	decode(t, env.Data, &status)

	w, env = s.json(http.MethodPost, "/api/v1/admin/prize-definitions", gin.H{"prize_name": " Mug ", "requires_cnic": false})
	require.Equal(t, http.StatusCreated, w.Code)
	var def struct {
		ID        string `json:"id"`
		PrizeName string `json:"prize_name"`
	}
	decode(t, env.Data, &def)
	assert.Equal(t, "Mug", def.PrizeName)

	w, _ = s.json(http.MethodPost, "/api/v1/admin/prizes", gin.H{"code_id": status.CodeID, "prize_definition_id": def.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.json(http.MethodDelete, "/api/v1/admin/prize-definitions/"+def.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	s.token = ""
	w, _ = s.json(http.MethodPost, "/api/v1/verify", gin.H{"code": "ABC123", "name": "Sara", "phone": "0300"})
	require.Equal(t, http.StatusOK, w.Code)
	var plain services.RedemptionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plain))
	assert.True(t, plain.IsValid)
	assert.False(t, plain.HasPrize)
	assert.Equal(t, services.MessageCodeValid, plain.Message)

	w, _ = s.json(http.MethodPost, "/api/v1/verify", gin.H{"code": "MUG1", "name": "Sara", "phone": "0300"})
	require.Equal(t, http.StatusOK, w.Code)
	var won services.RedemptionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &won))
	assert.True(t, won.HasPrize)
	assert.True(t, won.ClaimEntered)
	assert.Empty(t, won.UploadToken)

	w, _ = s.json(http.MethodPost, "/api/v1/verify", gin.H{"code": "nope", "name": "Sara", "phone": "0300"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), services.MessageInvalidCode)

	w, _ = s.json(http.MethodPost, "/api/v1/verify", gin.H{"code": "MUG1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.login()
	w, env = s.json(http.MethodGet, "/api/v1/admin/claimable-prizes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var claims []struct {
		ID     string `json:"claimable_prize_id"`
		Status string `json:"status"`
	}
	decode(t, env.Data, &claims)
	require.Len(t, claims, 1)
	assert.Equal(t, "unClaimed", claims[0].Status)

	w, _ = s.json(http.MethodPost, "/api/v1/admin/claimable-prizes/"+claims[0].ID+"/claim", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.json(http.MethodPost, "/api/v1/admin/claimable-prizes/"+claims[0].ID+"/claim", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Prize has already been claimed", env.Error)

	w, env = s.json(http.MethodPost, "/api/v1/admin/claimable-prizes", gin.H{"verifiedCodeId": *won.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already Claimed", env.Error)
}

func TestVerifyWithDocumentUpload(t *testing.T) {
	s := newTestServer(t)
	s.login()

	_, env := s.json(http.MethodPost, "/api/v1/admin/codes/import", gin.H{"codes": []string{"WIN999"}})
	require.True(t, env.Success)
	_, env = s.json(http.MethodGet, "/api/v1/codes/status/WIN999", nil)
	var status struct {
		CodeID string `json:"codeId"`
	}
	decode(t, env.Data, &status)
	_, env = s.json(http.MethodPost, "/api/v1/admin/prize-definitions", gin.H{"prize_name": "Gold", "requires_cnic": true})
	var def struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &def)
	w, _ := s.json(http.MethodPost, "/api/v1/admin/prizes", gin.H{"code_id": status.CodeID, "prize_definition_id": def.ID})
	require.Equal(t, http.StatusOK, w.Code)

	s.token = ""
	w, _ = s.json(http.MethodPost, "/api/v1/verify", gin.H{"code": "WIN999", "name": "Sara", "phone": "0300"})
	var won services.RedemptionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &won))
	require.NotEmpty(t, won.UploadToken)
	assert.False(t, won.ClaimEntered)

	w, env = s.json(http.MethodGet, "/api/v1/uploads/"+won.UploadToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var upload services.UploadStatus
	decode(t, env.Data, &upload)
	assert.True(t, upload.Eligible)
	assert.False(t, upload.HasClaimed)

	w, _ = s.json(http.MethodGet, "/api/v1/uploads/garbage", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(won.UploadToken, "text/plain", []byte("nope"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(won.UploadToken, "image/png", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.upload(won.UploadToken, "image/png", []byte("png-bytes"))
	assert.Equal(t, http.StatusConflict, w.Code)

	s.login()
	_, env = s.json(http.MethodGet, "/api/v1/admin/claimable-prizes", nil)
	var claims []struct {
		CNICImageURL string `json:"cnic_image_url"`
	}
	decode(t, env.Data, &claims)
	require.Len(t, claims, 1)
	require.Contains(t, claims[0].CNICImageURL, "http://api.test/api/v1/storage/")

	path := claims[0].CNICImageURL[len("http://api.test"):]
	w = s.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func (s *testServer) upload(token, contentType string, data []byte) *httptest.ResponseRecorder {
	s.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="cnic.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(s.t, err)
	_, err = part.Write(data)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/"+token, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func TestImportCodesFile(t *testing.T) {
	s := newTestServer(t)
	s.login()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "codes.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("code\nF1\nF2\nF1\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/codes/import/file", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var res struct{ Imported, Skipped, Total int }
	decode(t, env.Data, &res)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 3, res.Total)
}

func TestUpdateAndDeleteCodes(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.json(http.MethodPost, "/api/v1/admin/codes/import", gin.H{"codes": []string{"U1", "U2"}})

	_, env := s.json(http.MethodGet, "/api/v1/admin/codes", nil)
	var codes []struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	decode(t, env.Data, &codes)
	require.Len(t, codes, 2)

	w, env := s.json(http.MethodPut, "/api/v1/admin/codes/"+codes[1].ID, gin.H{"code": "U1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "A code with this value already exists", env.Error)

	w, _ = s.json(http.MethodPut, "/api/v1/admin/codes/bad-id", gin.H{"code": "U3"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.json(http.MethodPost, "/api/v1/admin/codes/delete", gin.H{"ids": []string{codes[0].ID}})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.json(http.MethodGet, "/api/v1/admin/codes/"+codes[0].ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCredentials(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w, _ := s.json(http.MethodPut, "/api/v1/admin/credentials", gin.H{"username": "boss", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.json(http.MethodPut, "/api/v1/admin/credentials", gin.H{"username": "boss", "password": "longer-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	s.token = ""
	w, _ = s.json(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "boss", "password": "longer-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateCredentialsTwiceWithOneToken(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w, _ := s.json(http.MethodPut, "/api/v1/admin/credentials", gin.H{"username": "boss", "password": "longer-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.json(http.MethodPut, "/api/v1/admin/credentials", gin.H{"username": "chief", "password": "longest-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	s.token = ""
	w, _ = s.json(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "chief", "password": "longest-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
}
