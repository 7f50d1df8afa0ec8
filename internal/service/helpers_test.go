package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/allertrack/backend/internal/models"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/pageza/allertrack/backend/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newCredentials() *service.CredentialService {
	return service.NewCredentialService(service.WithBcryptCost(bcrypt.MinCost))
}

func newAuth(db *gorm.DB) *service.AuthService {
	return service.NewAuthService(db, newCredentials(), testSecret, time.Hour)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user, err := newAuth(db).Register(context.Background(), username+"@x.com", username, "pw123")
	require.NoError(t, err)
	return user
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testhelpers.SetupTestDB(t)
}
