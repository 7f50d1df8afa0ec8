package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetFlow(t *testing.T) {
	env := setupTestEnv(t)
	env.registerAndLogin(t, "alice")

	var link string
	env.mailer.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { link = args.String(2) }).
		Return(nil).Once()

	rr := env.do(http.MethodPost, "/reset", map[string]string{"email": "alice@x.com"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	generic := rr.Body.String()

	token := strings.TrimPrefix(link, "http://app.test/reset_token/")
	require.NotEqual(t, link, token)

	rr = env.do(http.MethodPost, "/reset_token/"+token, map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/reset_token/"+token, map[string]string{"password": "newpass"}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "pw123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = env.do(http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "newpass"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodPost, "/reset_token/"+token, map[string]string{"password": "again"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown addresses get the same answer.
	rr = env.do(http.MethodPost, "/reset", map[string]string{"email": "ghost@x.com"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, generic, rr.Body.String())
	env.mailer.AssertNumberOfCalls(t, "SendPasswordReset", 1)
}

func TestResetTokenInvalid(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(http.MethodPost, "/reset_token/garbage", map[string]string{"password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/reset", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResetRequestHidesMailFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.registerAndLogin(t, "alice")
	env.mailer.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp: connection refused")).Once()

	known := env.do(http.MethodPost, "/reset", map[string]string{"email": "alice@x.com"}, "")
	unknown := env.do(http.MethodPost, "/reset", map[string]string{"email": "ghost@x.com"}, "")

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, unknown.Code, known.Code)
	assert.Equal(t, unknown.Body.String(), known.Body.String())
	env.mailer.AssertExpectations(t)
}
