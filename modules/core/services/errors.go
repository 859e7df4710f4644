package services

import (
	"context"
	"strconv"
	"sync"

	"github.com/simple-lms/console/pkg/serrors"
)

var (
	ErrInUse            = serrors.NewError("CORE_IN_USE", "entity is still referenced", "Core.Errors.InUse")
	ErrUnknownModule    = serrors.NewError("CORE_UNKNOWN_MODULE", "unknown module", "Core.Errors.UnknownModule")
	ErrInvalidPatch     = serrors.NewError("CORE_INVALID_PATCH", "invalid merge patch", "Core.Errors.InvalidPatch")
	ErrUnknownReference = serrors.NewError("CORE_UNKNOWN_REFERENCE", "unknown reference", "Core.Errors.UnknownReference")
)

// ReferenceCounter counts entities that still point at id.
type ReferenceCounter func(ctx context.Context, id string) (int, error)

// References is the set of counters consulted before an entity is deleted.
type References struct {
	mu       sync.RWMutex
	counters []ReferenceCounter
}

func NewReferences() *References {
	return &References{}
}

func (r *References) Add(counters ...ReferenceCounter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = append(r.counters, counters...)
}

// Check returns ErrInUse when any counter reports references to id.
func (r *References) Check(ctx context.Context, entity, id string) error {
	r.mu.RLock()
	counters := r.counters
	r.mu.RUnlock()

	total := 0
	for _, count := range counters {
		n, err := count(ctx, id)
		if err != nil {
			return err
		}
		total += n
	}
	if total == 0 {
		return nil
	}
	return serrors.Wrapf(ErrInUse, "%s %q has %d reference(s)", entity, id, total).
		WithTemplateData(map[string]string{"entity": entity, "count": strconv.Itoa(total)})
}

func unknownReference(field, id string) error {
	return serrors.Wrapf(ErrUnknownReference, "%s %q", field, id).
		WithTemplateData(map[string]string{"field": field, "id": id})
}
