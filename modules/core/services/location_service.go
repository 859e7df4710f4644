package services

import (
	"context"

	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/validation"
)

type LocationService struct {
	repo       location.Repository
	publisher  eventbus.EventBus
	authorizer Authorizer
	refs       *References
}

func NewLocationService(repo location.Repository, publisher eventbus.EventBus, authorizer Authorizer) *LocationService {
	return &LocationService{
		repo:       repo,
		publisher:  publisher,
		authorizer: authorizer,
		refs:       NewReferences(),
	}
}

// RegisterReferences adds counters consulted before a location is deleted.
func (s *LocationService) RegisterReferences(counters ...ReferenceCounter) {
	s.refs.Add(counters...)
}

func (s *LocationService) GetAll(ctx context.Context) ([]location.Location, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *LocationService) GetByID(ctx context.Context, id string) (location.Location, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "view"); err != nil {
		return location.Location{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *LocationService) Create(ctx context.Context, dto *location.CreateDTO) (location.Location, []location.Location, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "create"); err != nil {
		return location.Location{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return location.Location{}, nil, err
	}
	entity := dto.ToEntity()
	all, err := s.repo.Create(ctx, entity)
	if err != nil {
		return location.Location{}, nil, err
	}
	s.publisher.Publish(&location.CreatedEvent{Result: entity})
	return entity, all, nil
}

func (s *LocationService) Update(ctx context.Context, id string, dto *location.UpdateDTO) (location.Location, []location.Location, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "update"); err != nil {
		return location.Location{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return location.Location{}, nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return location.Location{}, nil, err
	}
	updated := dto.Apply(current)
	all, err := s.repo.Update(ctx, updated)
	if err != nil {
		return location.Location{}, nil, err
	}
	s.publisher.Publish(&location.UpdatedEvent{Data: current, Result: updated})
	return updated, all, nil
}

func (s *LocationService) Delete(ctx context.Context, id string) ([]location.Location, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "delete"); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refs.Check(ctx, "location", id); err != nil {
		return nil, err
	}
	all, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&location.DeletedEvent{Result: current})
	return all, nil
}

// Seed fills an empty repository with items; a populated one is left alone.
func (s *LocationService) Seed(ctx context.Context, items []location.Location) ([]location.Location, error) {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	return s.repo.Replace(ctx, items)
}
