package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type allowList map[string]bool

func (a allowList) Can(_ context.Context, module, _ string) bool {
	return a[module]
}

func TestVisibleItems(t *testing.T) {
	t.Parallel()
	items := Modules()
	got := VisibleItems(context.Background(), items, allowList{ModuleOrgChart: true, ModuleRecords: true})

	keys := make([]string, 0, len(got))
	for _, it := range got {
		keys = append(keys, it.Key)
	}
	assert.Equal(t, []string{ModuleRecords, ModuleOrgChart}, keys)
	assert.Len(t, items, 7)
}

func TestVisibleItems_NilChecker(t *testing.T) {
	t.Parallel()
	assert.Len(t, VisibleItems(context.Background(), Modules(), nil), 7)
}

func TestVisibleItems_Children(t *testing.T) {
	t.Parallel()
	items := []NavigationItem{{
		Key:  "parent",
		Name: "Parent",
		Children: []NavigationItem{
			{Key: "a", AuthzObject: "a", AuthzAction: "view"},
			{Key: "b", AuthzObject: "b", AuthzAction: "view"},
		},
	}}
	got := VisibleItems(context.Background(), items, allowList{"b": true})
	if assert.Len(t, got, 1) {
		assert.Len(t, got[0].Children, 1)
		assert.Equal(t, "b", got[0].Children[0].Key)
	}
	assert.Len(t, items[0].Children, 2)
}

func TestIsModule(t *testing.T) {
	t.Parallel()
	assert.True(t, IsModule("kpis"))
	assert.False(t, IsModule("billing"))
}
