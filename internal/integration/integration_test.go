package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/allertrack/backend/config"
	"github.com/pageza/allertrack/backend/internal/api"
	"github.com/pageza/allertrack/backend/internal/mocks"
	"github.com/pageza/allertrack/backend/internal/server"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/pageza/allertrack/backend/internal/testhelpers"
)

// fakeOracle answers like a chat completions endpoint
func fakeOracle(t *testing.T) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req service.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		reply := "- Peanuts\n- Milk"
		if strings.Contains(req.Messages[0].Content, "Verdict:") {
			reply = "Verdict: Unsafe\nExplanation: Contains peanut."
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

type stack struct {
	url    string
	client *http.Client
	mailer *mocks.MockMailer
}

func newStack(t *testing.T, db *gorm.DB) *stack {
	t.Helper()
	t.Setenv("ENV", "test")

	logger := testhelpers.Logger()
	oracle := fakeOracle(t)

	ocr := &mocks.MockImageOCR{}
	ocr.On("ExtractImageText", mock.Anything, mock.Anything, "image/png").
		Return("INGREDIENTS: ROASTED PEANUTS, MILK CHOCOLATE", nil)

	mailer := &mocks.MockMailer{}

	cfg := &config.Config{
		ServerHost:    "127.0.0.1",
		ServerPort:    "0",
		JWTSecret:     "integration-secret",
		OracleTimeout: 5 * time.Second,
		CORSOrigins:   []string{"http://app.test"},
	}
	creds := service.NewCredentialService()
	generator := service.NewChatCompletionGenerator("dummy", oracle.URL, "deepseek-chat", oracle.Client())

	srv := server.New(cfg, api.Dependencies{
		DB:        db,
		Auth:      service.NewAuthService(db, creds, cfg.JWTSecret, time.Hour),
		Allergies: service.NewAllergyService(db),
		Resets:    service.NewPasswordResetService(db, creds, mailer, cfg.JWTSecret, "http://app.test", logger),
		Profiles:  service.NewProfileService(db),
		Oracle:    service.NewOracleService(generator, logger),
		Documents: service.NewDocumentService(ocr, logger),
		TokenTTL:  time.Hour,
		Logger:    logger,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &stack{url: ts.URL, client: &http.Client{Jar: jar}, mailer: mailer}
}

func (s *stack) postJSON(t *testing.T, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := s.client.Post(s.url+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return readResponse(t, resp)
}

func (s *stack) get(t *testing.T, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := s.client.Get(s.url + path)
	require.NoError(t, err)
	return readResponse(t, resp)
}

func (s *stack) upload(t *testing.T, path, filename string, data []byte) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, err := s.client.Post(s.url+path, w.FormDataContentType(), &buf)
	require.NoError(t, err)
	return readResponse(t, resp)
}

func readResponse(t *testing.T, resp *http.Response) (int, map[string]interface{}) {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// runAllergyFlow drives a full session through the cookie the login sets
func runAllergyFlow(t *testing.T, s *stack) {
	code, body := s.postJSON(t, "/auth/register", map[string]string{
		"email": "alice@example.com", "username": "alice", "password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = s.postJSON(t, "/auth/login", map[string]string{"username": "alice", "password": "correct horse"})
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.upload(t, "/allergy/upload", "label.png", testhelpers.PNG(t))
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, []interface{}{"Peanuts", "Milk"}, body["allergens"])

	code, body = s.postJSON(t, "/allergy/save", map[string][]string{"allergies": {"Peanuts"}})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, []interface{}{"peanut"}, body["added"])

	code, body = s.postJSON(t, "/allergy/add", map[string]string{"allergy": "peanuts"})
	assert.Equal(t, http.StatusConflict, code, body)

	code, body = s.get(t, "/allergy/")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"peanut"}, body["allergies"])

	code, body = s.postJSON(t, "/allergy/check_product", map[string]string{"product_name": "Snickers"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Unsafe", body["verdict"])
	assert.Equal(t, "Contains peanut.", body["explanation"])

	code, _ = s.postJSON(t, "/auth/logout", map[string]string{})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.get(t, "/allergy/")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func runResetFlow(t *testing.T, s *stack) {
	var link string
	s.mailer.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { link = args.String(2) }).
		Return(nil).Once()

	code, _ := s.postJSON(t, "/reset", map[string]string{"email": "ALICE@example.com"})
	require.Equal(t, http.StatusOK, code)
	require.True(t, strings.HasPrefix(link, "http://app.test/reset_token/"), link)

	path := strings.TrimPrefix(link, "http://app.test")
	code, body := s.postJSON(t, path, map[string]string{"password": "battery staple"})
	require.Equal(t, http.StatusOK, code, body)

	code, _ = s.postJSON(t, path, map[string]string{"password": "third time"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.postJSON(t, "/auth/login", map[string]string{"username": "alice", "password": "battery staple"})
	assert.Equal(t, http.StatusOK, code)
}

func TestIntegrationSQLite(t *testing.T) {
	s := newStack(t, testhelpers.SetupTestDB(t))
	runAllergyFlow(t, s)
	runResetFlow(t, s)
}

func TestIntegrationPostgres(t *testing.T) {
	s := newStack(t, testhelpers.SetupPostgresContainer(t))
	runAllergyFlow(t, s)
	runResetFlow(t, s)

	code, body := s.get(t, "/health")
	assert.Equal(t, http.StatusOK, code, fmt.Sprint(body))
}
