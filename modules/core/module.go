package core

import (
	"context"
	"net/http"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/modules/core/infrastructure/persistence"
	"github.com/simple-lms/console/modules/core/presentation/controllers"
	"github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
	"github.com/simple-lms/console/pkg/application"
	"github.com/simple-lms/console/pkg/httpapi"
	"github.com/simple-lms/console/pkg/types"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

// Authorizer returns app's authz service, or a nil interface when authz is off.
func Authorizer(app application.Application) services.Authorizer {
	if az := app.Authz(); az != nil {
		return az
	}
	return nil
}

// Checker is the nil-safe permission checker counterpart of Authorizer.
func Checker(app application.Application) types.PermissionChecker {
	if az := app.Authz(); az != nil {
		return az
	}
	return nil
}

func (m *Module) Register(app application.Application) error {
	repos, err := persistence.Open(context.Background(), app.Persister())
	if err != nil {
		return err
	}
	bus := app.EventPublisher()
	az := Authorizer(app)

	locationService := services.NewLocationService(repos.Locations, bus, az)
	departmentService := services.NewDepartmentService(repos.Departments, repos.Locations, bus, az)
	roleService := services.NewRoleService(repos.Roles, bus, az)
	userService := services.NewUserService(repos.Users, services.UserLookups{
		Roles:       repos.Roles,
		Departments: repos.Departments,
		Locations:   repos.Locations,
	}, bus, az)

	roleService.RegisterReferences(userService.CountByRole)
	departmentService.RegisterReferences(userService.CountByDepartment)
	locationService.RegisterReferences(userService.CountByLocation, departmentService.CountByLocation)

	searchService := services.NewSearchService(Checker(app))
	searchService.Register(services.CoreSources(repos.Users, repos.Roles, repos.Departments)...)

	var store services.PolicyStore
	if az := app.Authz(); az != nil {
		store = az
	}
	policySync := services.NewPolicySync(repos.Users, repos.Roles, store, app.Logger())
	if store != nil {
		policySync.Subscribe(bus)
	}

	if app.Hub() != nil {
		broadcastChanges(app)
	}

	app.RegisterServices(
		repos,
		locationService,
		departmentService,
		roleService,
		userService,
		searchService,
		policySync,
	)
	app.RegisterNavItems(NavItems...)
	app.RegisterControllers(
		controllers.NewCoreAPIController(app, searchService),
		controllers.NewWebSocketController(app),
	)

	httpapi.RegisterStatus(services.ErrInUse.Code, http.StatusConflict)
	httpapi.RegisterStatus(services.ErrUnknownModule.Code, http.StatusBadRequest)
	httpapi.RegisterStatus(services.ErrInvalidPatch.Code, http.StatusBadRequest)
	httpapi.RegisterStatus(services.ErrUnknownReference.Code, http.StatusUnprocessableEntity)
	httpapi.RegisterStatus(hierarchy.ErrDuplicateID.Code, http.StatusUnprocessableEntity)
	httpapi.RegisterStatus(hierarchy.ErrManagerCycle.Code, http.StatusUnprocessableEntity)
	return nil
}

func (m *Module) Name() string {
	return "core"
}

func broadcastChanges(app application.Application) {
	hub := app.Hub()
	bus := app.EventPublisher()
	send := func(typ, entity, id string) {
		hub.Broadcast(application.ChangeMessage{Type: typ, Entity: entity, ID: id})
	}

	bus.Subscribe(func(e *user.CreatedEvent) { send("created", "user", e.Result.ID) })
	bus.Subscribe(func(e *user.UpdatedEvent) { send("updated", "user", e.Result.ID) })
	bus.Subscribe(func(e *user.DeletedEvent) { send("deleted", "user", e.Result.ID) })
	bus.Subscribe(func(e *role.CreatedEvent) { send("created", "role", e.Result.ID) })
	bus.Subscribe(func(e *role.UpdatedEvent) { send("updated", "role", e.Result.ID) })
	bus.Subscribe(func(e *role.DeletedEvent) { send("deleted", "role", e.Result.ID) })
	bus.Subscribe(func(e *department.CreatedEvent) { send("created", "department", e.Result.ID) })
	bus.Subscribe(func(e *department.UpdatedEvent) { send("updated", "department", e.Result.ID) })
	bus.Subscribe(func(e *department.DeletedEvent) { send("deleted", "department", e.Result.ID) })
	bus.Subscribe(func(e *location.CreatedEvent) { send("created", "location", e.Result.ID) })
	bus.Subscribe(func(e *location.UpdatedEvent) { send("updated", "location", e.Result.ID) })
	bus.Subscribe(func(e *location.DeletedEvent) { send("deleted", "location", e.Result.ID) })
}
