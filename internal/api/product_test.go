package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckProduct(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/allergy/add", map[string]string{"allergy": "peanuts"}, token).Code)

	env.generator.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "peanut") && strings.Contains(p, "Snickers")
	})).Return("Verdict: Unsafe\nExplanation: Contains peanuts.", nil).Once()

	rr := env.do(http.MethodPost, "/allergy/check_product", map[string]string{"product_name": " Snickers "}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"product_name":"Snickers","verdict":"Unsafe","explanation":"Contains peanuts."}`, rr.Body.String())
	env.generator.AssertExpectations(t)
}

func TestCheckProductUnknownVerdict(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")
	env.generator.On("Generate", mock.Anything, mock.Anything).Return("Hard to say.", nil).Once()

	rr := env.do(http.MethodPost, "/allergy/check_product", map[string]string{"product_name": "Mystery bar"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "Unknown", body["verdict"])
	assert.Equal(t, "Hard to say.", body["explanation"])
}

func TestCheckProductOracleFailure(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")
	env.generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("upstream exploded")).Once()

	rr := env.do(http.MethodPost, "/allergy/check_product", map[string]string{"product_name": "Snickers"}, token)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "upstream exploded")
}

func TestCheckProductTimeout(t *testing.T) {
	env := setupTestEnv(t, withOracleTimeout(20*time.Millisecond))
	token := env.registerAndLogin(t, "alice")

	env.generator.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded).Once()

	rr := env.do(http.MethodPost, "/allergy/check_product", map[string]string{"product_name": "Snickers"}, token)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCheckProductValidation(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	rr := env.do(http.MethodPost, "/allergy/check_product", map[string]string{"product_name": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/allergy/check_product", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
