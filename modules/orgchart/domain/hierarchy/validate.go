package hierarchy

import (
	"strings"

	"github.com/simple-lms/console/pkg/serrors"
)

var (
	ErrDuplicateID  = serrors.NewError("HIERARCHY_DUPLICATE_ID", "duplicate person id", "OrgChart.Errors.DuplicateID")
	ErrManagerCycle = serrors.NewError("HIERARCHY_MANAGER_CYCLE", "manager chain forms a cycle", "OrgChart.Errors.ManagerCycle")
)

const (
	white = iota
	gray
	black
)

// Validate rejects inputs BuildForest accepts but consumers should not see:
// duplicate ids and manager chains that loop, self references included.
// Dangling manager ids are allowed.
func Validate(people []Person) error {
	managerOf := make(map[string]string, len(people))
	order := make([]string, 0, len(people))
	for _, p := range people {
		if _, dup := managerOf[p.ID]; dup {
			return serrors.Wrapf(ErrDuplicateID, "%q", p.ID).
				WithTemplateData(map[string]string{"id": p.ID})
		}
		mgr := ""
		if p.ManagerID != nil {
			mgr = *p.ManagerID
		}
		managerOf[p.ID] = mgr
		order = append(order, p.ID)
	}

	color := make(map[string]int, len(people))
	for _, start := range order {
		if color[start] != white {
			continue
		}
		var path []string
		id := start
		for {
			if _, known := managerOf[id]; !known {
				break
			}
			if color[id] == black {
				break
			}
			if color[id] == gray {
				cycle := cycleFrom(path, id)
				return serrors.Wrapf(ErrManagerCycle, "%s", strings.Join(cycle, " -> ")).
					WithTemplateData(map[string]string{"cycle": strings.Join(cycle, " -> ")})
			}
			color[id] = gray
			path = append(path, id)
			next := managerOf[id]
			if next == "" {
				break
			}
			id = next
		}
		for _, p := range path {
			color[p] = black
		}
	}
	return nil
}

func cycleFrom(path []string, id string) []string {
	for i, p := range path {
		if p == id {
			out := append([]string{}, path[i:]...)
			return append(out, id)
		}
	}
	return []string{id}
}
