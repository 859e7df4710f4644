package render

import (
	"strings"

	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
)

const NoResults = "No results"

type Options struct {
	// MaxDepth truncates deeper subtrees with an ellipsis line. Zero means unlimited.
	MaxDepth int
	// Label formats a person's line. Defaults to Line.
	Label func(p hierarchy.Person) string
	// Root decorates root labels, e.g. with terminal styles.
	Root func(s string) string
}

// Line is the default "Name — Role" label.
func Line(p hierarchy.Person) string {
	if p.RoleLabel == "" {
		return p.Name
	}
	return p.Name + " — " + p.RoleLabel
}

// Text draws the forest with box connectors. Every node is drawn once even
// when the forest contains a cycle.
func Text(forest []*hierarchy.Node, opts Options) string {
	if len(forest) == 0 {
		return NoResults + "\n"
	}
	label := opts.Label
	if label == nil {
		label = Line
	}
	var b strings.Builder
	visited := make(map[*hierarchy.Node]struct{})

	var draw func(n *hierarchy.Node, prefix string, last bool, depth int)
	draw = func(n *hierarchy.Node, prefix string, last bool, depth int) {
		if _, seen := visited[n]; seen {
			return
		}
		visited[n] = struct{}{}

		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix + connector + label(n.Person) + "\n")

		if opts.MaxDepth > 0 && depth+1 >= opts.MaxDepth && len(n.Children) > 0 {
			b.WriteString(childPrefix + "└── …\n")
			return
		}
		for i, c := range n.Children {
			draw(c, childPrefix, i == len(n.Children)-1, depth+1)
		}
	}

	for i, root := range forest {
		if i > 0 {
			b.WriteString("\n")
		}
		visited[root] = struct{}{}
		line := label(root.Person)
		if opts.Root != nil {
			line = opts.Root(line)
		}
		b.WriteString(line + "\n")
		if opts.MaxDepth == 1 && len(root.Children) > 0 {
			b.WriteString("└── …\n")
			continue
		}
		for j, c := range root.Children {
			draw(c, "", j == len(root.Children)-1, 1)
		}
	}
	return b.String()
}
