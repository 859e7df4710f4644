package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/modules/core/domain/entities/user"
)

type mapPersister map[string][]json.RawMessage

func (m mapPersister) Load(_ context.Context, name string) ([]json.RawMessage, error) {
	return m[name], nil
}

func (m mapPersister) Save(_ context.Context, name string, items []json.RawMessage) error {
	m[name] = items
	return nil
}

func TestOpen_LoadsPersistedUsers(t *testing.T) {
	t.Parallel()
	p := mapPersister{UsersCollection: {json.RawMessage(`{"id":"1","name":"Ada","email":"ada@example.com"}`)}}

	repos, err := Open(context.Background(), p)
	require.NoError(t, err)
	users, err := repos.Users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Name)

	_, err = repos.Users.Create(context.Background(), user.User{ID: "2", Name: "Ben"})
	require.NoError(t, err)
	assert.Len(t, p[UsersCollection], 2)
}

func TestOpen_InMemory(t *testing.T) {
	t.Parallel()
	repos, err := Open(context.Background(), nil)
	require.NoError(t, err)
	roles, err := repos.Roles.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, roles)
}
