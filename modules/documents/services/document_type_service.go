package services

import (
	"context"
	"slices"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	coreservices "github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/modules/documents/domain/entities/doctype"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/repo"
	"github.com/simple-lms/console/pkg/validation"
)

type DocumentTypeService struct {
	repo        doctype.Repository
	departments department.Repository
	publisher   eventbus.EventBus
	authorizer  coreservices.Authorizer
}

func NewDocumentTypeService(
	repo doctype.Repository,
	departments department.Repository,
	publisher eventbus.EventBus,
	authorizer coreservices.Authorizer,
) *DocumentTypeService {
	return &DocumentTypeService{
		repo:        repo,
		departments: departments,
		publisher:   publisher,
		authorizer:  authorizer,
	}
}

func (s *DocumentTypeService) GetAll(ctx context.Context) ([]doctype.DocumentType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *DocumentTypeService) GetByID(ctx context.Context, id string) (doctype.DocumentType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "view"); err != nil {
		return doctype.DocumentType{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// CountByDepartment is a ReferenceCounter for departments.
func (s *DocumentTypeService) CountByDepartment(ctx context.Context, id string) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return countWhere(all, func(d doctype.DocumentType) bool { return slices.Contains(d.DepartmentIDs, id) }), nil
}

func (s *DocumentTypeService) Create(ctx context.Context, dto *doctype.CreateDTO) (doctype.DocumentType, []doctype.DocumentType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "create"); err != nil {
		return doctype.DocumentType{}, nil, err
	}
	dto.Normalize()
	dto.DepartmentIDs = dedupe(dto.DepartmentIDs)
	if err := validation.Struct(dto); err != nil {
		return doctype.DocumentType{}, nil, err
	}
	if err := checkDepartments(ctx, s.departments, dto.DepartmentIDs); err != nil {
		return doctype.DocumentType{}, nil, err
	}
	entity := dto.ToEntity()
	all, err := s.repo.Create(ctx, entity)
	if err != nil {
		return doctype.DocumentType{}, nil, err
	}
	s.publisher.Publish(&doctype.CreatedEvent{Result: entity})
	return entity, all, nil
}

func (s *DocumentTypeService) Update(ctx context.Context, id string, dto *doctype.UpdateDTO) (doctype.DocumentType, []doctype.DocumentType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "update"); err != nil {
		return doctype.DocumentType{}, nil, err
	}
	dto.Normalize()
	dto.DepartmentIDs = dedupe(dto.DepartmentIDs)
	if err := validation.Struct(dto); err != nil {
		return doctype.DocumentType{}, nil, err
	}
	if err := checkDepartments(ctx, s.departments, dto.DepartmentIDs); err != nil {
		return doctype.DocumentType{}, nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return doctype.DocumentType{}, nil, err
	}
	return s.save(ctx, current, dto.Apply(current))
}

// ToggleDepartment adds the department to the type, or removes it when present.
func (s *DocumentTypeService) ToggleDepartment(ctx context.Context, id, departmentID string) (doctype.DocumentType, []doctype.DocumentType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "toggle"); err != nil {
		return doctype.DocumentType{}, nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return doctype.DocumentType{}, nil, err
	}
	if !slices.Contains(current.DepartmentIDs, departmentID) {
		if err := checkDepartments(ctx, s.departments, []string{departmentID}); err != nil {
			return doctype.DocumentType{}, nil, err
		}
	}
	updated := current
	updated.DepartmentIDs = repo.ToggleID(current.DepartmentIDs, departmentID)
	return s.save(ctx, current, updated)
}

func (s *DocumentTypeService) save(ctx context.Context, current, updated doctype.DocumentType) (doctype.DocumentType, []doctype.DocumentType, error) {
	all, err := s.repo.Update(ctx, updated)
	if err != nil {
		return doctype.DocumentType{}, nil, err
	}
	s.publisher.Publish(&doctype.UpdatedEvent{Data: current, Result: updated})
	return updated, all, nil
}

func (s *DocumentTypeService) Delete(ctx context.Context, id string) ([]doctype.DocumentType, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "delete"); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&doctype.DeletedEvent{Result: current})
	return all, nil
}

func (s *DocumentTypeService) Seed(ctx context.Context, items []doctype.DocumentType) ([]doctype.DocumentType, error) {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	return s.repo.Replace(ctx, items)
}
