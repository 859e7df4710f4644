package services

import (
	"context"
	"sync"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/pkg/repo"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []any
}

func (s *stubPublisher) Publish(args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, args...)
}
func (s *stubPublisher) Subscribe(handler any)   {}
func (s *stubPublisher) Unsubscribe(handler any) {}
func (s *stubPublisher) Clear()                  {}
func (s *stubPublisher) SubscribersCount() int   { return 0 }

func (s *stubPublisher) last() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return nil
	}
	return s.events[len(s.events)-1]
}

type fixture struct {
	users       *repo.Collection[user.User]
	roles       *repo.Collection[role.Role]
	departments *repo.Collection[department.Department]
	locations   *repo.Collection[location.Location]
	publisher   *stubPublisher

	userSvc       *UserService
	roleSvc       *RoleService
	departmentSvc *DepartmentService
	locationSvc   *LocationService
}

func newFixture() *fixture {
	ctx := context.Background()
	f := &fixture{
		users:       repo.NewCollection[user.User]("users"),
		roles:       repo.NewCollection[role.Role]("roles"),
		departments: repo.NewCollection[department.Department]("departments"),
		locations:   repo.NewCollection[location.Location]("locations"),
		publisher:   &stubPublisher{},
	}
	_, _ = f.locations.Replace(ctx, []location.Location{{ID: "plant-1", Name: "Plant 1"}})
	_, _ = f.departments.Replace(ctx, []department.Department{{ID: "qa", Name: "Quality", LocationID: "plant-1"}})
	_, _ = f.roles.Replace(ctx, []role.Role{{ID: "admin", Name: "Admin", Modules: []string{"orgchart"}}})
	_, _ = f.users.Replace(ctx, []user.User{
		{ID: "1", Name: "Ada", Email: "ada@example.com", RoleID: "admin", DepartmentID: "qa", LocationID: "plant-1"},
		{ID: "2", Name: "Ben", Email: "ben@example.com", ManagerID: "1"},
		{ID: "3", Name: "Cy", Email: "cy@example.com", ManagerID: "2"},
	})

	f.userSvc = NewUserService(f.users, UserLookups{
		Roles:       f.roles,
		Departments: f.departments,
		Locations:   f.locations,
	}, f.publisher, nil)
	f.roleSvc = NewRoleService(f.roles, f.publisher, nil)
	f.departmentSvc = NewDepartmentService(f.departments, f.locations, f.publisher, nil)
	f.locationSvc = NewLocationService(f.locations, f.publisher, nil)

	f.roleSvc.RegisterReferences(f.userSvc.CountByRole)
	f.departmentSvc.RegisterReferences(f.userSvc.CountByDepartment)
	f.locationSvc.RegisterReferences(f.userSvc.CountByLocation, f.departmentSvc.CountByLocation)
	return f
}
