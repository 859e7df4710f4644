package services

import (
	"context"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/validation"
)

type DepartmentService struct {
	repo       department.Repository
	locations  location.Repository
	publisher  eventbus.EventBus
	authorizer Authorizer
	refs       *References
}

func NewDepartmentService(
	repo department.Repository,
	locations location.Repository,
	publisher eventbus.EventBus,
	authorizer Authorizer,
) *DepartmentService {
	return &DepartmentService{
		repo:       repo,
		locations:  locations,
		publisher:  publisher,
		authorizer: authorizer,
		refs:       NewReferences(),
	}
}

// RegisterReferences adds counters consulted before a department is deleted.
func (s *DepartmentService) RegisterReferences(counters ...ReferenceCounter) {
	s.refs.Add(counters...)
}

// CountByLocation is a ReferenceCounter for locations.
func (s *DepartmentService) CountByLocation(ctx context.Context, locationID string) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, d := range all {
		if d.LocationID == locationID {
			n++
		}
	}
	return n, nil
}

func (s *DepartmentService) GetAll(ctx context.Context) ([]department.Department, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *DepartmentService) GetByID(ctx context.Context, id string) (department.Department, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "view"); err != nil {
		return department.Department{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *DepartmentService) checkLocation(ctx context.Context, id string) error {
	if id == "" || s.locations == nil {
		return nil
	}
	if _, err := s.locations.GetByID(ctx, id); err != nil {
		return unknownReference("locationId", id)
	}
	return nil
}

func (s *DepartmentService) Create(ctx context.Context, dto *department.CreateDTO) (department.Department, []department.Department, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "create"); err != nil {
		return department.Department{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return department.Department{}, nil, err
	}
	if err := s.checkLocation(ctx, dto.LocationID); err != nil {
		return department.Department{}, nil, err
	}
	entity := dto.ToEntity()
	all, err := s.repo.Create(ctx, entity)
	if err != nil {
		return department.Department{}, nil, err
	}
	s.publisher.Publish(&department.CreatedEvent{Result: entity})
	return entity, all, nil
}

func (s *DepartmentService) Update(ctx context.Context, id string, dto *department.UpdateDTO) (department.Department, []department.Department, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "update"); err != nil {
		return department.Department{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return department.Department{}, nil, err
	}
	if err := s.checkLocation(ctx, dto.LocationID); err != nil {
		return department.Department{}, nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return department.Department{}, nil, err
	}
	updated := dto.Apply(current)
	all, err := s.repo.Update(ctx, updated)
	if err != nil {
		return department.Department{}, nil, err
	}
	s.publisher.Publish(&department.UpdatedEvent{Data: current, Result: updated})
	return updated, all, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id string) ([]department.Department, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "delete"); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refs.Check(ctx, "department", id); err != nil {
		return nil, err
	}
	all, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&department.DeletedEvent{Result: current})
	return all, nil
}

func (s *DepartmentService) Seed(ctx context.Context, items []department.Department) ([]department.Department, error) {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	return s.repo.Replace(ctx, items)
}
