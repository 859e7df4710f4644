package services

import (
	"context"
	"slices"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	coreservices "github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/pkg/serrors"
)

func unknownReference(field, id string) error {
	return serrors.Wrapf(coreservices.ErrUnknownReference, "%s %q", field, id).
		WithTemplateData(map[string]string{"field": field, "id": id})
}

func checkDepartments(ctx context.Context, departments department.Repository, ids []string) error {
	if departments == nil {
		return nil
	}
	for _, id := range ids {
		if _, err := departments.GetByID(ctx, id); err != nil {
			return unknownReference("departmentId", id)
		}
	}
	return nil
}

func countWhere[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
