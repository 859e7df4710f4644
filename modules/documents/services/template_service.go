package services

import (
	"context"

	coreservices "github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/modules/documents/domain/entities/recordtype"
	"github.com/simple-lms/console/modules/documents/domain/entities/template"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/validation"
)

type TemplateService struct {
	repo        template.Repository
	recordTypes recordtype.Repository
	publisher   eventbus.EventBus
	authorizer  coreservices.Authorizer
}

func NewTemplateService(
	repo template.Repository,
	recordTypes recordtype.Repository,
	publisher eventbus.EventBus,
	authorizer coreservices.Authorizer,
) *TemplateService {
	return &TemplateService{
		repo:        repo,
		recordTypes: recordTypes,
		publisher:   publisher,
		authorizer:  authorizer,
	}
}

func (s *TemplateService) GetAll(ctx context.Context) ([]template.Template, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *TemplateService) GetByID(ctx context.Context, id string) (template.Template, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "view"); err != nil {
		return template.Template{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// CountByRecordType is a ReferenceCounter for record types.
func (s *TemplateService) CountByRecordType(ctx context.Context, id string) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return countWhere(all, func(t template.Template) bool { return t.RecordTypeID == id }), nil
}

func (s *TemplateService) checkRecordType(ctx context.Context, id string) error {
	if s.recordTypes == nil {
		return nil
	}
	if _, err := s.recordTypes.GetByID(ctx, id); err != nil {
		return unknownReference("recordTypeId", id)
	}
	return nil
}

func (s *TemplateService) Create(ctx context.Context, dto *template.CreateDTO) (template.Template, []template.Template, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "create"); err != nil {
		return template.Template{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return template.Template{}, nil, err
	}
	if err := s.checkRecordType(ctx, dto.RecordTypeID); err != nil {
		return template.Template{}, nil, err
	}
	entity := dto.ToEntity()
	all, err := s.repo.Create(ctx, entity)
	if err != nil {
		return template.Template{}, nil, err
	}
	s.publisher.Publish(&template.CreatedEvent{Result: entity})
	return entity, all, nil
}

func (s *TemplateService) Update(ctx context.Context, id string, dto *template.UpdateDTO) (template.Template, []template.Template, error) {
	if err := authorizeDocuments(ctx, s.authorizer, DocumentsAuthzObject, "update"); err != nil {
		return template.Template{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return template.Template{}, nil, err
	}
	if err := s.checkRecordType(ctx, dto.RecordTypeID); err != nil {
		return template.Template{}, nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return template.Template{}, nil, err
	}
	updated := dto.Apply(current)
	all, err := s.repo.Update(ctx, updated)
	if err != nil {
		return template.Template{}, nil, err
	}
	s.publisher.Publish(&template.UpdatedEvent{Data: current, Result: updated})
	return updated, all, nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) ([]template.Template, error) {
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
	s.publisher.Publish(&template.DeletedEvent{Result: current})
	return all, nil
}

func (s *TemplateService) Seed(ctx context.Context, items []template.Template) ([]template.Template, error) {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	return s.repo.Replace(ctx, items)
}
