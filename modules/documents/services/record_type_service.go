package services

import (
	"context"
	"slices"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	coreservices "github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/modules/documents/domain/entities/recordtype"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/repo"
	"github.com/simple-lms/console/pkg/validation"
)

type RecordTypeService struct {
	repo        recordtype.Repository
	departments department.Repository
	publisher   eventbus.EventBus
	authorizer  coreservices.Authorizer
	refs        *coreservices.References
}

func NewRecordTypeService(
	repo recordtype.Repository,
	departments department.Repository,
	publisher eventbus.EventBus,
	authorizer coreservices.Authorizer,
) *RecordTypeService {
	return &RecordTypeService{
		repo:        repo,
		departments: departments,
		publisher:   publisher,
		authorizer:  authorizer,
		refs:        coreservices.NewReferences(),
	}
}

// RegisterReferences adds counters consulted before a record type is deleted.
func (s *RecordTypeService) RegisterReferences(counters ...coreservices.ReferenceCounter) {
	s.refs.Add(counters...)
}

func (s *RecordTypeService) GetAll(ctx context.Context) ([]recordtype.RecordType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *RecordTypeService) GetByID(ctx context.Context, id string) (recordtype.RecordType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "view"); err != nil {
		return recordtype.RecordType{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// CountByDepartment is a ReferenceCounter for departments.
func (s *RecordTypeService) CountByDepartment(ctx context.Context, id string) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return countWhere(all, func(r recordtype.RecordType) bool { return slices.Contains(r.DepartmentIDs, id) }), nil
}

func (s *RecordTypeService) Create(ctx context.Context, dto *recordtype.CreateDTO) (recordtype.RecordType, []recordtype.RecordType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "create"); err != nil {
		return recordtype.RecordType{}, nil, err
	}
	dto.Normalize()
	dto.DepartmentIDs = dedupe(dto.DepartmentIDs)
	if err := validation.Struct(dto); err != nil {
		return recordtype.RecordType{}, nil, err
	}
	if err := checkDepartments(ctx, s.departments, dto.DepartmentIDs); err != nil {
		return recordtype.RecordType{}, nil, err
	}
	entity := dto.ToEntity()
	all, err := s.repo.Create(ctx, entity)
	if err != nil {
		return recordtype.RecordType{}, nil, err
	}
	s.publisher.Publish(&recordtype.CreatedEvent{Result: entity})
	return entity, all, nil
}

func (s *RecordTypeService) Update(ctx context.Context, id string, dto *recordtype.UpdateDTO) (recordtype.RecordType, []recordtype.RecordType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "update"); err != nil {
		return recordtype.RecordType{}, nil, err
	}
	dto.Normalize()
	dto.DepartmentIDs = dedupe(dto.DepartmentIDs)
	if err := validation.Struct(dto); err != nil {
		return recordtype.RecordType{}, nil, err
	}
	if err := checkDepartments(ctx, s.departments, dto.DepartmentIDs); err != nil {
		return recordtype.RecordType{}, nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return recordtype.RecordType{}, nil, err
	}
	return s.save(ctx, current, dto.Apply(current))
}

// ToggleDepartment adds the department to the type, or removes it when present.
func (s *RecordTypeService) ToggleDepartment(ctx context.Context, id, departmentID string) (recordtype.RecordType, []recordtype.RecordType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "toggle"); err != nil {
		return recordtype.RecordType{}, nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return recordtype.RecordType{}, nil, err
	}
	if !slices.Contains(current.DepartmentIDs, departmentID) {
		if err := checkDepartments(ctx, s.departments, []string{departmentID}); err != nil {
			return recordtype.RecordType{}, nil, err
		}
	}
	updated := current
	updated.DepartmentIDs = repo.ToggleID(current.DepartmentIDs, departmentID)
	return s.save(ctx, current, updated)
}

func (s *RecordTypeService) save(ctx context.Context, current, updated recordtype.RecordType) (recordtype.RecordType, []recordtype.RecordType, error) {
	all, err := s.repo.Update(ctx, updated)
	if err != nil {
		return recordtype.RecordType{}, nil, err
	}
	s.publisher.Publish(&recordtype.UpdatedEvent{Data: current, Result: updated})
	return updated, all, nil
}

func (s *RecordTypeService) Delete(ctx context.Context, id string) ([]recordtype.RecordType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "delete"); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refs.Check(ctx, "record type", id); err != nil {
		return nil, err
	}
	all, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&recordtype.DeletedEvent{Result: current})
	return all, nil
}

func (s *RecordTypeService) Seed(ctx context.Context, items []recordtype.RecordType) ([]recordtype.RecordType, error) {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	return s.repo.Replace(ctx, items)
}
