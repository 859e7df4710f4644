package hierarchy

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Filter selects people before the forest is built. Zero fields match all.
type Filter struct {
	LocationID    string   `form:"location" json:"location,omitempty"`
	DepartmentIDs []string `form:"department" json:"departments,omitempty"`
	Query         string   `form:"q" json:"q,omitempty"`
}

func (f Filter) IsZero() bool {
	return f.LocationID == "" && len(f.DepartmentIDs) == 0 && strings.TrimSpace(f.Query) == ""
}

// Apply keeps matching people in input order. A kept person whose manager is
// dropped becomes a root in the built forest.
func (f Filter) Apply(people []Person) []Person {
	out := make([]Person, 0, len(people))
	q := strings.TrimSpace(f.Query)
	for _, p := range people {
		if f.LocationID != "" && (p.LocationID == nil || *p.LocationID != f.LocationID) {
			continue
		}
		if len(f.DepartmentIDs) > 0 && !inDepartments(p.DepartmentID, f.DepartmentIDs) {
			continue
		}
		if q != "" && !fuzzy.MatchNormalizedFold(q, p.Name) && !fuzzy.MatchNormalizedFold(q, p.RoleLabel) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func inDepartments(id *string, ids []string) bool {
	if id == nil {
		return false
	}
	for _, d := range ids {
		if d == *id {
			return true
		}
	}
	return false
}
