package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (w widget) EntityID() string { return w.ID }

type memoryPersister struct {
	data    map[string][]json.RawMessage
	saveErr error
	saves   int
}

func (m *memoryPersister) Load(_ context.Context, name string) ([]json.RawMessage, error) {
	return m.data[name], nil
}

func (m *memoryPersister) Save(_ context.Context, name string, items []json.RawMessage) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.data == nil {
		m.data = map[string][]json.RawMessage{}
	}
	m.data[name] = items
	return nil
}

func TestCollection_WritesReturnCanonicalSnapshot(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[widget]("widgets")

	items, err := c.Create(ctx, widget{ID: "a", Name: "A"})
	require.NoError(t, err)
	require.Equal(t, []widget{{ID: "a", Name: "A"}}, items)

	items, err = c.Create(ctx, widget{ID: "b", Name: "B"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items[0].Name = "mutated by caller"
	got, err := c.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "A", got.Name)

	items, err = c.Update(ctx, widget{ID: "a", Name: "A2"})
	require.NoError(t, err)
	require.Equal(t, "A2", items[0].Name)

	items, err = c.Delete(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []widget{{ID: "b", Name: "B"}}, items)
	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, items, list)
}

func TestCollection_Errors(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[widget]("widgets")
	_, err := c.Create(ctx, widget{ID: "a"})
	require.NoError(t, err)

	_, err = c.Create(ctx, widget{ID: "a"})
	require.ErrorIs(t, err, ErrDuplicateID)

	_, err = c.Create(ctx, widget{ID: "  "})
	require.ErrorIs(t, err, ErrEmptyID)

	_, err = c.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.Update(ctx, widget{ID: "missing"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.Delete(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.Replace(ctx, []widget{{ID: "x"}, {ID: "x"}})
	require.ErrorIs(t, err, ErrDuplicateID)
	list, _ := c.List(ctx)
	require.Len(t, list, 1, "failed replace must not change state")
}

func TestCollection_FindKeepsOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[widget]("widgets")
	_, err := c.Replace(ctx, []widget{{ID: "1", Name: "x"}, {ID: "2", Name: "y"}, {ID: "3", Name: "x"}})
	require.NoError(t, err)

	got := c.Find(ctx, func(w widget) bool { return w.Name == "x" })
	require.Equal(t, []widget{{ID: "1", Name: "x"}, {ID: "3", Name: "x"}}, got)
}

func TestOpenCollection_LoadsAndPersists(t *testing.T) {
	ctx := context.Background()
	p := &memoryPersister{data: map[string][]json.RawMessage{
		"widgets": {json.RawMessage(`{"id":"a","name":"A"}`)},
	}}

	c, err := OpenCollection[widget](ctx, "widgets", p)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	_, err = c.Create(ctx, widget{ID: "b", Name: "B"})
	require.NoError(t, err)
	require.Len(t, p.data["widgets"], 2)
	require.JSONEq(t, `{"id":"b","name":"B"}`, string(p.data["widgets"][1]))
}

func TestCollection_FailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	p := &memoryPersister{}
	c, err := OpenCollection[widget](ctx, "widgets", p)
	require.NoError(t, err)

	p.saveErr = errors.New("disk full")
	_, err = c.Create(ctx, widget{ID: "a"})
	require.Error(t, err)
	require.Equal(t, 0, c.Len())

	_, err = c.GetByID(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenCollection_RejectsCorruptSnapshot(t *testing.T) {
	p := &memoryPersister{data: map[string][]json.RawMessage{
		"widgets": {json.RawMessage(`{"id":"a"}`), json.RawMessage(`{"id":"a"}`)},
	}}
	_, err := OpenCollection[widget](context.Background(), "widgets", p)
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestToggleID(t *testing.T) {
	in := []string{"a", "b"}

	added := ToggleID(in, "c")
	require.Equal(t, []string{"a", "b", "c"}, added)

	removed := ToggleID(in, "a")
	require.Equal(t, []string{"b"}, removed)

	require.Equal(t, []string{"a", "b"}, in, "input must not be mutated")
	require.Equal(t, []string{"x"}, ToggleID(nil, "x"))
}
