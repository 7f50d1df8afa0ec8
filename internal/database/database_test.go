package database_test

import (
	"path/filepath"
	"testing"

	"github.com/pageza/allertrack/backend/config"
	"github.com/pageza/allertrack/backend/internal/database"
	"github.com/pageza/allertrack/backend/internal/models"
	"github.com/pageza/allertrack/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := database.New(cfg, testhelpers.Logger())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.NoError(t, database.HealthCheck(db))
}

func TestCompositeUniqueIndex(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	alice := models.User{Email: "alice@x.com", Username: "alice", PasswordHash: "h"}
	bob := models.User{Email: "bob@x.com", Username: "bob", PasswordHash: "h"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	require.NoError(t, db.Create(&models.Allergy{UserID: alice.ID, Name: "peanut"}).Error)
	require.NoError(t, db.Create(&models.Allergy{UserID: bob.ID, Name: "peanut"}).Error)

	err := db.Create(&models.Allergy{UserID: alice.ID, Name: "peanut"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDeletingUserCascadesAllergies(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	user := models.User{Email: "carol@x.com", Username: "carol", PasswordHash: "h"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Allergy{UserID: user.ID, Name: "soy"}).Error)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	var count int64
	require.NoError(t, db.Model(&models.Allergy{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostgresMigrations(t *testing.T) {
	db := testhelpers.SetupPostgresContainer(t)

	user := models.User{Email: "dave@x.com", Username: "dave", PasswordHash: "h"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Allergy{UserID: user.ID, Name: "milk"}).Error)

	err := db.Create(&models.Allergy{UserID: user.ID, Name: "milk"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
