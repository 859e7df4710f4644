package repo

import (
	"slices"

	"github.com/google/uuid"
)

// ToggleID returns a copy of ids with id removed if present, appended otherwise.
func ToggleID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return append(slices.Clone(ids), id)
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}
