package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/postgres"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "name", "email", "hashed_password", "image_ref", "created_at", "updated_at"}

// These tests run the real Postgres stores against sqlmock so the exact
// statements inside the transaction, and the absence of a COMMIT, are checked.
func newAtomicityFixture(t *testing.T) (PlaceService, sqlmock.Sqlmock, *MockGeocoder) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	geocoder := &MockGeocoder{}
	geocoder.On("Geocode", mock.Anything, mock.Anything).Return(googleplex, nil)

	svc, err := NewPlaceService(
		db,
		postgres.NewPostgresPlaceStore(db, nil),
		postgres.NewPostgresUserStore(db, nil),
		geocoder,
		&MockAssetStore{},
		store.RetryPolicy{
			MaxRetries:  1,
			BaseBackoff: time.Millisecond,
			Retryable:   postgres.IsRetryableError,
			Timeout:     5 * time.Second,
		},
		nil,
	)
	require.NoError(t, err)
	return svc, sqlMock, geocoder
}

func expectCreatorLookup(sqlMock sqlmock.Sqlmock, user *domain.User, places ...uuid.UUID) {
	owned := sqlmock.NewRows([]string{"place_id"})
	for _, id := range places {
		owned.AddRow(id.String())
	}
	sqlMock.ExpectQuery("FROM users").
		WithArgs(user.ID).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			user.ID.String(), user.Name, user.Email, user.HashedPassword, user.ImageRef, user.CreatedAt, user.UpdatedAt))
	sqlMock.ExpectQuery("FROM user_places").
		WithArgs(user.ID).
		WillReturnRows(owned)
}

func TestCreatePlace_OwnerWriteFailureLeavesNoPlace(t *testing.T) {
	svc, sqlMock, _ := newAtomicityFixture(t)
	user := testUser(t)

	expectCreatorLookup(sqlMock, user)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO places").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("UPDATE users").WillReturnError(errors.New("injected failure"))
	sqlMock.ExpectRollback()

	_, err := svc.CreatePlace(context.Background(), validInput(user.ID))

	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	// No ExpectCommit was registered: a commit would fail ExpectationsWereMet.
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreatePlace_SetInsertFailureLeavesNoPlace(t *testing.T) {
	svc, sqlMock, _ := newAtomicityFixture(t)
	user := testUser(t)

	expectCreatorLookup(sqlMock, user)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO places").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("INSERT INTO user_places").WillReturnError(errors.New("injected failure"))
	sqlMock.ExpectRollback()

	_, err := svc.CreatePlace(context.Background(), validInput(user.ID))

	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreatePlace_SerializationFailureIsRetried(t *testing.T) {
	svc, sqlMock, _ := newAtomicityFixture(t)
	user := testUser(t)

	expectCreatorLookup(sqlMock, user)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO places").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("UPDATE users").WillReturnError(&pgconn.PgError{Code: "40001"})
	sqlMock.ExpectRollback()
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO places").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("INSERT INTO user_places").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	place, err := svc.CreatePlace(context.Background(), validInput(user.ID))

	require.NoError(t, err)
	assert.Equal(t, user.ID, place.Creator)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeletePlace_OwnerWriteFailureKeepsPlace(t *testing.T) {
	svc, sqlMock, _ := newAtomicityFixture(t)
	user := testUser(t)
	place := testPlaceFor(t, user.ID)

	expectPlaceLookup(sqlMock, place)
	expectCreatorLookup(sqlMock, user, place.ID)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("DELETE FROM places").WithArgs(place.ID).WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("UPDATE users").WillReturnError(errors.New("injected failure"))
	sqlMock.ExpectRollback()

	err := svc.DeletePlace(context.Background(), place.ID, user.ID)

	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func expectPlaceLookup(sqlMock sqlmock.Sqlmock, place *domain.Place) {
	sqlMock.ExpectQuery("FROM places WHERE id").
		WithArgs(place.ID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "address", "lat", "lng", "image_ref", "creator_id", "created_at", "updated_at",
		}).AddRow(place.ID.String(), place.Title, place.Description, place.Address, place.Location.Lat,
			place.Location.Lng, place.ImageRef, place.Creator.String(), place.CreatedAt, place.UpdatedAt))
}

func TestCreatePlace_ClientGoneMidTransactionStillCommits(t *testing.T) {
	svc, sqlMock, _ := newAtomicityFixture(t)
	user := testUser(t)

	expectCreatorLookup(sqlMock, user)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO places").
		WillDelayFor(100 * time.Millisecond).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("INSERT INTO user_places").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(20*time.Millisecond, cancel)

	place, err := svc.CreatePlace(ctx, validInput(user.ID))

	require.NoError(t, err)
	assert.Equal(t, user.ID, place.Creator)
	assert.ErrorIs(t, ctx.Err(), context.Canceled, "the caller left before the insert finished")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeletePlace_ClientGoneMidTransactionStillCommits(t *testing.T) {
	svc, sqlMock, _ := newAtomicityFixture(t)
	user := testUser(t)
	place := testPlaceFor(t, user.ID)
	place.ImageRef = ""

	expectPlaceLookup(sqlMock, place)
	expectCreatorLookup(sqlMock, user, place.ID)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("DELETE FROM places").
		WillDelayFor(100 * time.Millisecond).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("DELETE FROM user_places").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(20*time.Millisecond, cancel)

	require.NoError(t, svc.DeletePlace(ctx, place.ID, user.ID))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreatePlace_CreatorDeletedBeforeInsertIsNotFound(t *testing.T) {
	svc, sqlMock, _ := newAtomicityFixture(t)
	user := testUser(t)

	expectCreatorLookup(sqlMock, user)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO places").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "places_creator_id_fkey"})
	sqlMock.ExpectRollback()

	_, err := svc.CreatePlace(context.Background(), validInput(user.ID))

	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, msgUserNotFound, domain.MessageOf(err, ""))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeletePlace_PlaceMissingFromOwnerSetDeletesRowOnly(t *testing.T) {
	svc, sqlMock, _ := newAtomicityFixture(t)
	user := testUser(t)
	place := testPlaceFor(t, user.ID)
	place.ImageRef = ""

	expectPlaceLookup(sqlMock, place)
	expectCreatorLookup(sqlMock, user)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("DELETE FROM places").WithArgs(place.ID).WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	require.NoError(t, svc.DeletePlace(context.Background(), place.ID, user.ID))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
