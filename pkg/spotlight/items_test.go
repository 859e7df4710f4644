package spotlight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type denyModules map[string]bool

func (d denyModules) Can(_ context.Context, module, _ string) bool {
	return !d[module]
}

func staticSource(items ...Item) DataSource {
	return DataSourceFunc(func(context.Context) ([]Item, error) {
		return items, nil
	})
}

func TestSpotlight_Find(t *testing.T) {
	t.Parallel()
	s := New(nil)
	s.Register(
		staticSource(
			Item{Kind: "user", ID: "1", Label: "Alice Johnson"},
			Item{Kind: "user", ID: "2", Label: "Bob Stone"},
		),
		staticSource(Item{Kind: "role", ID: "r1", Label: "Administrator"}),
	)

	got, err := s.Find(context.Background(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got, err = s.Find(context.Background(), "o", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.Find(context.Background(), "  ", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSpotlight_HidesDeniedModules(t *testing.T) {
	t.Parallel()
	s := New(denyModules{"records": true})
	s.Register(staticSource(
		Item{Kind: "record", ID: "rec", Label: "Incident report", Module: "records"},
		Item{Kind: "user", ID: "u", Label: "Incident manager", Module: "orgchart"},
	))

	got, err := s.Find(context.Background(), "incident", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u", got[0].ID)
}

func TestSpotlight_SourceError(t *testing.T) {
	t.Parallel()
	s := New(nil)
	s.Register(DataSourceFunc(func(context.Context) ([]Item, error) {
		return nil, errors.New("offline")
	}))
	_, err := s.Find(context.Background(), "x", 0)
	require.Error(t, err)
}
