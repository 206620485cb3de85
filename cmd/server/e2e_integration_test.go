//go:build integration

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/places-api/internal/client"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEnd_PlaceLifecycle(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.ResetTables(t, db)
	log, _ := logger.NewTestLogger(t)

	app, err := newApplication(context.Background(), testConfig(t), log, db)
	require.NoError(t, err)
	t.Cleanup(app.releaseCollaborators)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(srv.URL+"/api", client.WithLogger(log))
	scope := c.NewScope(ctx)
	defer scope.Close()

	avatar := &client.Image{
		Filename: "me.png",
		Data:     append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...),
	}
	signed, err := scope.SignUp(ctx, "Max", "Max@Example.com", "secret1", avatar)
	require.NoError(t, err)
	assert.Equal(t, "max@example.com", signed.Email)

	_, err = scope.SignUp(ctx, "Other", "max@example.com", "secret2", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, client.StatusOf(err))

	_, err = scope.Login(ctx, "max@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnprocessableEntity, client.StatusOf(err))

	logged, err := scope.Login(ctx, "MAX@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, signed.UserID, logged.UserID)

	_, err = scope.CreatePlace(ctx, "Empire State", "Tall building", "20 W 34th St", nil)
	assert.Equal(t, http.StatusUnauthorized, client.StatusOf(err))

	c.SetToken(logged.Token)
	place, err := scope.CreatePlace(ctx, "Empire State", "Tall building", "20 W 34th St", nil)
	require.NoError(t, err)
	assert.Equal(t, signed.UserID, place.Creator)
	assert.InDelta(t, 40.7484, place.Location.Lat, 1e-9)

	users, err := scope.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Contains(t, users[0].Places, place.ID)
	assert.NotEmpty(t, users[0].Image)

	updated, err := scope.UpdatePlace(ctx, place.ID, "Empire State Building", "Very tall building")
	require.NoError(t, err)
	assert.Equal(t, "Empire State Building", updated.Title)
	assert.Equal(t, "20 W 34th St", updated.Address)

	listed, err := scope.ListPlacesByUser(ctx, signed.UserID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	fetched, err := scope.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := scope.GetPlace(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, fetched, again, "reads must not change the place")
	}

	require.NoError(t, scope.DeletePlace(ctx, place.ID))

	_, err = scope.GetPlace(ctx, place.ID)
	assert.Equal(t, http.StatusNotFound, client.StatusOf(err))
	_, err = scope.ListPlacesByUser(ctx, signed.UserID)
	assert.Equal(t, http.StatusNotFound, client.StatusOf(err))

	users, err = scope.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users[0].Places)
}
