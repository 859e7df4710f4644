package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
)

func p(id, name, role, manager string) hierarchy.Person {
	return hierarchy.Person{ID: id, Name: name, RoleLabel: role, ManagerID: hierarchy.Ref(manager)}
}

func sample() []*hierarchy.Node {
	return hierarchy.BuildForest([]hierarchy.Person{
		p("1", "Alice", "CEO", ""),
		p("2", "Bob", "CTO", "1"),
		p("3", "Carla", "CFO", "1"),
		p("4", "Dan", "Engineer", "2"),
		p("5", "Eve", "", "2"),
	})
}

func TestText(t *testing.T) {
	t.Parallel()
	want := strings.Join([]string{
		"Alice — CEO",
		"├── Bob — CTO",
		"│   ├── Dan — Engineer",
		"│   └── Eve",
		"└── Carla — CFO",
		"",
	}, "\n")
	assert.Equal(t, want, Text(sample(), Options{}))
}

func TestText_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "No results\n", Text(nil, Options{}))
}

func TestText_MultipleRootsAndDecoration(t *testing.T) {
	t.Parallel()
	forest := hierarchy.BuildForest([]hierarchy.Person{p("a", "A", "", ""), p("b", "B", "", "")})
	out := Text(forest, Options{Root: func(s string) string { return "[" + s + "]" }})
	assert.Equal(t, "[A]\n\n[B]\n", out)
}

func TestText_MaxDepth(t *testing.T) {
	t.Parallel()
	want := strings.Join([]string{
		"Alice — CEO",
		"├── Bob — CTO",
		"│   └── …",
		"└── Carla — CFO",
		"",
	}, "\n")
	assert.Equal(t, want, Text(sample(), Options{MaxDepth: 2}))
	assert.Equal(t, "Alice — CEO\n└── …\n", Text(sample(), Options{MaxDepth: 1}))
}

func TestText_CycleDrawnOnce(t *testing.T) {
	t.Parallel()
	forest := sample()
	bob := forest[0].Children[0]
	bob.Children = append(bob.Children, forest[0])
	out := Text(forest, Options{})
	assert.Equal(t, 1, strings.Count(out, "Alice"))
}
