package application

import (
	"context"
	"errors"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/pkg/types"
)

type fakeController struct{ key string }

func (c *fakeController) Register(*mux.Router) {}
func (c *fakeController) Key() string          { return c.key }

type greeter struct{ name string }

type fakeModule struct {
	name string
	err  error
}

func (m *fakeModule) Name() string { return m.name }

func (m *fakeModule) Register(app Application) error {
	if m.err != nil {
		return m.err
	}
	app.RegisterControllers(&fakeController{key: m.name})
	return nil
}

func TestApplication_Registry(t *testing.T) {
	t.Parallel()
	app := New(&ApplicationOptions{Logger: logrus.New()})

	app.RegisterServices(&greeter{name: "hi"})
	svc, ok := app.Service(greeter{}).(*greeter)
	require.True(t, ok)
	assert.Equal(t, "hi", svc.name)
	assert.Panics(t, func() { app.Service(fakeModule{}) })

	require.NoError(t, LoadModules(app, &fakeModule{name: "b"}, &fakeModule{name: "a"}))
	keys := []string{}
	for _, c := range app.Controllers() {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"a", "b"}, keys)

	err := LoadModules(app, &fakeModule{name: "broken", err: errors.New("boom")})
	require.ErrorContains(t, err, "module broken")
	assert.NotNil(t, app.EventPublisher())
}

func TestApplication_NavItemsWithoutAuthz(t *testing.T) {
	t.Parallel()
	app := New(&ApplicationOptions{})
	app.RegisterNavItems(types.Modules()...)
	assert.Len(t, app.NavItems(context.Background()), len(types.Modules()))
}

func TestSeeder(t *testing.T) {
	t.Parallel()
	app := New(&ApplicationOptions{})
	var calls []int
	s := NewSeeder()
	s.Register(
		func(context.Context, Application) error { calls = append(calls, 1); return nil },
		func(context.Context, Application) error { calls = append(calls, 2); return nil },
	)
	require.NoError(t, s.Seed(context.Background(), app))
	assert.Equal(t, []int{1, 2}, calls)
}
