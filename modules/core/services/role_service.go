package services

import (
	"context"
	"strings"

	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/repo"
	"github.com/simple-lms/console/pkg/serrors"
	"github.com/simple-lms/console/pkg/types"
	"github.com/simple-lms/console/pkg/validation"
)

type RoleService struct {
	repo       role.Repository
	publisher  eventbus.EventBus
	authorizer Authorizer
	refs       *References
}

func NewRoleService(repo role.Repository, publisher eventbus.EventBus, authorizer Authorizer) *RoleService {
	return &RoleService{
		repo:       repo,
		publisher:  publisher,
		authorizer: authorizer,
		refs:       NewReferences(),
	}
}

// RegisterReferences adds counters consulted before a role is deleted.
func (s *RoleService) RegisterReferences(counters ...ReferenceCounter) {
	s.refs.Add(counters...)
}

func (s *RoleService) GetAll(ctx context.Context) ([]role.Role, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *RoleService) GetByID(ctx context.Context, id string) (role.Role, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "view"); err != nil {
		return role.Role{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func checkModules(modules []string) error {
	for _, m := range modules {
		if m == "*" || types.IsModule(m) {
			continue
		}
		return serrors.Wrapf(ErrUnknownModule, "%q", m).
			WithTemplateData(map[string]string{"module": m})
	}
	return nil
}

func (s *RoleService) Create(ctx context.Context, dto *role.CreateDTO) (role.Role, []role.Role, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "create"); err != nil {
		return role.Role{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return role.Role{}, nil, err
	}
	if err := checkModules(dto.Modules); err != nil {
		return role.Role{}, nil, err
	}
	entity := dto.ToEntity()
	all, err := s.repo.Create(ctx, entity)
	if err != nil {
		return role.Role{}, nil, err
	}
	s.publisher.Publish(&role.CreatedEvent{Result: entity})
	return entity, all, nil
}

func (s *RoleService) Update(ctx context.Context, id string, dto *role.UpdateDTO) (role.Role, []role.Role, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "update"); err != nil {
		return role.Role{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return role.Role{}, nil, err
	}
	if err := checkModules(dto.Modules); err != nil {
		return role.Role{}, nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return role.Role{}, nil, err
	}
	return s.save(ctx, current, dto.Apply(current))
}

// ToggleModule grants module to the role if missing and revokes it otherwise.
func (s *RoleService) ToggleModule(ctx context.Context, id, module string) (role.Role, []role.Role, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "toggle"); err != nil {
		return role.Role{}, nil, err
	}
	module = strings.ToLower(strings.TrimSpace(module))
	if !types.IsModule(module) {
		return role.Role{}, nil, serrors.Wrapf(ErrUnknownModule, "%q", module).
			WithTemplateData(map[string]string{"module": module})
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return role.Role{}, nil, err
	}
	updated := current
	updated.Modules = repo.ToggleID(current.Modules, module)
	return s.save(ctx, current, updated)
}

func (s *RoleService) save(ctx context.Context, current, updated role.Role) (role.Role, []role.Role, error) {
	all, err := s.repo.Update(ctx, updated)
	if err != nil {
		return role.Role{}, nil, err
	}
	s.publisher.Publish(&role.UpdatedEvent{Data: current, Result: updated})
	return updated, all, nil
}

func (s *RoleService) Delete(ctx context.Context, id string) ([]role.Role, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "delete"); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refs.Check(ctx, "role", id); err != nil {
		return nil, err
	}
	all, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&role.DeletedEvent{Result: current})
	return all, nil
}

func (s *RoleService) Seed(ctx context.Context, items []role.Role) ([]role.Role, error) {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	return s.repo.Replace(ctx, items)
}
