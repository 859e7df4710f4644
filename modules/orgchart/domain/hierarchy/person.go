package hierarchy

// Person is the read-only input to the builder.
type Person struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	RoleLabel    string  `json:"roleLabel"`
	ManagerID    *string `json:"managerId,omitempty"`
	LocationID   *string `json:"locationId,omitempty"`
	DepartmentID *string `json:"departmentId,omitempty"`
}

// Node is one person in a built forest.
type Node struct {
	Person   Person  `json:"person"`
	Children []*Node `json:"children"`
}

// Entry is a person at a depth in a flattened forest.
type Entry struct {
	Depth  int
	Person Person
}

func strPtr(s string) *string {
	return &s
}

// Ref returns a pointer to id, or nil for an empty id.
func Ref(id string) *string {
	if id == "" {
		return nil
	}
	return strPtr(id)
}
