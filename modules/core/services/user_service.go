package services

import (
	"context"
	"encoding/json"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/validation"
)

// UserLookups resolves the ids a user refers to. Nil repositories are not checked.
type UserLookups struct {
	Roles       role.Repository
	Departments department.Repository
	Locations   location.Repository
}

type UserService struct {
	repo       user.Repository
	lookups    UserLookups
	publisher  eventbus.EventBus
	authorizer Authorizer
	// mu keeps the manager-chain check and the write atomic.
	mu sync.Mutex
}

func NewUserService(
	repo user.Repository,
	lookups UserLookups,
	publisher eventbus.EventBus,
	authorizer Authorizer,
) *UserService {
	return &UserService{
		repo:       repo,
		lookups:    lookups,
		publisher:  publisher,
		authorizer: authorizer,
	}
}

func (s *UserService) GetAll(ctx context.Context) ([]user.User, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (user.User, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "view"); err != nil {
		return user.User{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// CountByRole, CountByDepartment and CountByLocation are ReferenceCounters.
func (s *UserService) CountByRole(ctx context.Context, id string) (int, error) {
	return s.count(ctx, func(u user.User) bool { return u.RoleID == id })
}

func (s *UserService) CountByDepartment(ctx context.Context, id string) (int, error) {
	return s.count(ctx, func(u user.User) bool { return u.DepartmentID == id })
}

func (s *UserService) CountByLocation(ctx context.Context, id string) (int, error) {
	return s.count(ctx, func(u user.User) bool { return u.LocationID == id })
}

func (s *UserService) count(ctx context.Context, pred func(user.User) bool) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, u := range all {
		if pred(u) {
			n++
		}
	}
	return n, nil
}

func (s *UserService) Create(ctx context.Context, dto *user.CreateDTO) (user.User, []user.User, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "create"); err != nil {
		return user.User{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return user.User{}, nil, err
	}
	entity := dto.ToEntity()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRefs(ctx, entity); err != nil {
		return user.User{}, nil, err
	}
	all, err := s.repo.Create(ctx, entity)
	if err != nil {
		return user.User{}, nil, err
	}
	s.publisher.Publish(&user.CreatedEvent{Result: entity})
	return entity, all, nil
}

func (s *UserService) Update(ctx context.Context, id string, dto *user.UpdateDTO) (user.User, []user.User, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "update"); err != nil {
		return user.User{}, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, nil, err
	}
	return s.update(ctx, current, dto)
}

// Patch applies an RFC 7396 merge patch to the user's editable fields.
func (s *UserService) Patch(ctx context.Context, id string, patch []byte) (user.User, []user.User, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "update"); err != nil {
		return user.User{}, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, nil, err
	}
	original, err := json.Marshal(user.UpdateDTOFrom(current))
	if err != nil {
		return user.User{}, nil, err
	}
	merged, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		return user.User{}, nil, ErrInvalidPatch.WithCause(err)
	}
	var dto user.UpdateDTO
	if err := json.Unmarshal(merged, &dto); err != nil {
		return user.User{}, nil, ErrInvalidPatch.WithCause(err)
	}
	return s.update(ctx, current, &dto)
}

// update validates and stores dto over current. Callers hold s.mu.
func (s *UserService) update(ctx context.Context, current user.User, dto *user.UpdateDTO) (user.User, []user.User, error) {
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return user.User{}, nil, err
	}
	updated := dto.Apply(current)
	if err := s.checkRefs(ctx, updated); err != nil {
		return user.User{}, nil, err
	}
	all, err := s.repo.Update(ctx, updated)
	if err != nil {
		return user.User{}, nil, err
	}
	s.publisher.Publish(&user.UpdatedEvent{Data: current, Result: updated})
	return updated, all, nil
}

func (s *UserService) Delete(ctx context.Context, id string) ([]user.User, error) {
	if err := authorizeCore(ctx, s.authorizer, CoreAuthzObject, "delete"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&user.DeletedEvent{Result: current})
	return all, nil
}

func (s *UserService) Seed(ctx context.Context, items []user.User) ([]user.User, error) {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	return s.repo.Replace(ctx, items)
}

func (s *UserService) checkRefs(ctx context.Context, u user.User) error {
	if u.RoleID != "" && s.lookups.Roles != nil {
		if _, err := s.lookups.Roles.GetByID(ctx, u.RoleID); err != nil {
			return unknownReference("roleId", u.RoleID)
		}
	}
	if u.DepartmentID != "" && s.lookups.Departments != nil {
		if _, err := s.lookups.Departments.GetByID(ctx, u.DepartmentID); err != nil {
			return unknownReference("departmentId", u.DepartmentID)
		}
	}
	if u.LocationID != "" && s.lookups.Locations != nil {
		if _, err := s.lookups.Locations.GetByID(ctx, u.LocationID); err != nil {
			return unknownReference("locationId", u.LocationID)
		}
	}
	if u.ManagerID == "" {
		return nil
	}
	return s.checkManager(ctx, u)
}

// checkManager rejects unknown managers and assignments that would close a loop.
func (s *UserService) checkManager(ctx context.Context, u user.User) error {
	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	people := make([]hierarchy.Person, 0, len(all)+1)
	known := u.ManagerID == u.ID
	replaced := false
	for _, existing := range all {
		if existing.ID == u.ManagerID {
			known = true
		}
		if existing.ID == u.ID {
			existing = u
			replaced = true
		}
		people = append(people, ToPerson(existing, ""))
	}
	if !replaced {
		people = append(people, ToPerson(u, ""))
	}
	if !known {
		return unknownReference("managerId", u.ManagerID)
	}
	return hierarchy.Validate(people)
}

// ToPerson maps a user onto the org chart model. roleLabel is used when the
// user has no job title.
func ToPerson(u user.User, roleLabel string) hierarchy.Person {
	label := u.JobTitle
	if label == "" {
		label = roleLabel
	}
	return hierarchy.Person{
		ID:           u.ID,
		Name:         u.Name,
		RoleLabel:    label,
		ManagerID:    hierarchy.Ref(u.ManagerID),
		LocationID:   hierarchy.Ref(u.LocationID),
		DepartmentID: hierarchy.Ref(u.DepartmentID),
	}
}
