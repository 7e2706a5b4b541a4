package account

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasquest/internal/identity/models"
	id "tasquest/pkg/domain"
	"tasquest/pkg/platform/sentinel"
	"tasquest/pkg/testutil"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresStore_CreateIfEmailAvailable(t *testing.T) {
	account, err := models.NewAccount(id.NewAccountID(), "jane@example.com", "hash", testutil.FixedTime)
	require.NoError(t, err)

	t.Run("inserts the account", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
			WithArgs(account.ID.String(), "jane@example.com", "hash", sql.NullString{}, testutil.FixedTime, testutil.FixedTime).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.CreateIfEmailAvailable(context.Background(), account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation becomes ErrConflict", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
			WillReturnError(&pq.Error{Code: uniqueViolation})

		err := store.CreateIfEmailAvailable(context.Background(), account)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})
}

func TestPostgresStore_FindByEmail(t *testing.T) {
	accountID := id.NewAccountID()

	t.Run("scans the row including the avatar", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "avatar_ref", "created_at", "updated_at"}).
			AddRow(accountID.String(), "jane@example.com", "hash", "avatars/jane.png", testutil.FixedTime, testutil.FixedTime)
		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE lower(email) = lower($1)")).
			WithArgs("jane@example.com").
			WillReturnRows(rows)

		found, err := store.FindByEmail(context.Background(), "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, accountID, found.ID)
		require.NotNil(t, found.AvatarRef)
		assert.Equal(t, "avatars/jane.png", *found.AvatarRef)
	})

	t.Run("no rows is ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE lower(email)")).
			WillReturnError(sql.ErrNoRows)

		_, err := store.FindByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestPostgresStore_Execute(t *testing.T) {
	accountID := id.NewAccountID()
	ref := "avatars/new.png"

	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(accountID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "avatar_ref", "created_at", "updated_at"}).
			AddRow(accountID.String(), "jane@example.com", "hash", nil, testutil.FixedTime, testutil.FixedTime))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET avatar_ref")).
		WithArgs(accountID.String(), sql.NullString{String: ref, Valid: true}, testutil.FixedTime).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := store.Execute(context.Background(), accountID,
		func(*models.Account) error { return nil },
		func(a *models.Account) { a.ApplyAvatar(&ref, testutil.FixedTime) },
	)
	require.NoError(t, err)
	assert.Equal(t, ref, *updated.AvatarRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}
