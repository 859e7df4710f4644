package sqlitestore

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/pkg/repo"
)

type location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (l location) EntityID() string { return l.ID }

func TestStore_RoundTripThroughCollection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "console.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)

	c, err := repo.OpenCollection[location](ctx, "locations", store)
	require.NoError(t, err)
	_, err = c.Create(ctx, location{ID: "plant-1", Name: "Plant 1"})
	require.NoError(t, err)
	_, err = c.Create(ctx, location{ID: "plant-2", Name: "Plant 2"})
	require.NoError(t, err)
	_, err = c.Delete(ctx, "plant-1")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	c2, err := repo.OpenCollection[location](ctx, "locations", reopened)
	require.NoError(t, err)
	list, err := c2.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []location{{ID: "plant-2", Name: "Plant 2"}}, list)

	other, err := reopened.Load(ctx, "users")
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestStore_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Save(ctx, "roles", []json.RawMessage{json.RawMessage(`{"id":"r1"}`)}))
	got, err := store.Load(ctx, "roles")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.JSONEq(t, `{"id":"r1"}`, string(got[0]))
}

func TestStore_SaveRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS collection_items")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collection_items")).
		WithArgs("roles").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO collection_items")).
		WithArgs("roles", 0, `{"id":"r1"}`).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	store, err := New(context.Background(), db)
	require.NoError(t, err)

	err = store.Save(context.Background(), "roles", []json.RawMessage{json.RawMessage(`{"id":"r1"}`)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insert item")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadPropagatesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM collection_items")).
		WithArgs("users").
		WillReturnError(errors.New("database is locked"))

	store, err := New(context.Background(), db)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "users")
	require.ErrorContains(t, err, "database is locked")
	require.NoError(t, mock.ExpectationsWereMet())
}
