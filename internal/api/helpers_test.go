package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allertrack/backend/internal/api"
	"github.com/pageza/allertrack/backend/internal/middleware"
	"github.com/pageza/allertrack/backend/internal/mocks"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/pageza/allertrack/backend/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	generator *mocks.MockGenerator
	ocr       *mocks.MockImageOCR
	mailer    *mocks.MockMailer
}

type envOption func(*api.Dependencies)

func withOracleTimeout(d time.Duration) envOption {
	return func(deps *api.Dependencies) { deps.OracleTimeout = d }
}

func setupTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	logger := testhelpers.Logger()
	creds := service.NewCredentialService(service.WithBcryptCost(bcrypt.MinCost))

	env := &testEnv{
		db:        db,
		generator: &mocks.MockGenerator{},
		ocr:       &mocks.MockImageOCR{},
		mailer:    &mocks.MockMailer{},
	}

	deps := api.Dependencies{
		DB:        db,
		Auth:      service.NewAuthService(db, creds, testSecret, time.Hour),
		Allergies: service.NewAllergyService(db),
		Resets:    service.NewPasswordResetService(db, creds, env.mailer, testSecret, "http://app.test", logger),
		Profiles:  service.NewProfileService(db),
		Oracle:    service.NewOracleService(env.generator, logger),
		Documents: service.NewDocumentService(env.ocr, logger),
		TokenTTL:  time.Hour,
		Logger:    logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))
	api.RegisterRoutes(router, deps)
	env.router = router
	return env
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) upload(t *testing.T, path, filename string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// registerAndLogin creates a user and returns an access token
func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	rr := e.do(http.MethodPost, "/auth/register", map[string]string{
		"email":    username + "@x.com",
		"username": username,
		"password": "pw123",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = e.do(http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": "pw123",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}
