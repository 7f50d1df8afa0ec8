package service_test

import (
	"context"
	"testing"

	"github.com/pageza/allertrack/backend/internal/models"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileGetAndUpdate(t *testing.T) {
	db := setupDB(t)
	profiles := service.NewProfileService(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")

	got, err := profiles.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)

	updated, err := profiles.UpdateProfile(ctx, alice.ID, "alicia", "Alicia@X.com")
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.Equal(t, "alicia@x.com", updated.Email)

	_, err = profiles.UpdateProfile(ctx, alice.ID, "bob", "alicia@x.com")
	assert.ErrorIs(t, err, service.ErrUserExists)

	_, err = profiles.UpdateProfile(ctx, alice.ID, "alicia", "bob@x.com")
	assert.ErrorIs(t, err, service.ErrUserExists)

	// Keeping your own values is not a conflict.
	_, err = profiles.UpdateProfile(ctx, alice.ID, "alicia", "alicia@x.com")
	assert.NoError(t, err)

	_, err = profiles.GetProfile(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestDeleteAccountRemovesAllergies(t *testing.T) {
	db := setupDB(t)
	profiles := service.NewProfileService(db)
	allergies := service.NewAllergyService(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := allergies.AddBatch(ctx, alice.ID, []string{"soy", "milk"})
	require.NoError(t, err)
	_, err = allergies.Add(ctx, bob.ID, "soy")
	require.NoError(t, err)

	require.NoError(t, profiles.DeleteAccount(ctx, alice.ID))

	var count int64
	require.NoError(t, db.Model(&models.Allergy{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.Zero(t, count)

	names, err := allergies.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"soy"}, names)

	assert.ErrorIs(t, profiles.DeleteAccount(ctx, alice.ID), service.ErrUserNotFound)
}
