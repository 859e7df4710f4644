package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/pkg/application"
	"github.com/simple-lms/console/pkg/composables"
	"github.com/simple-lms/console/pkg/httpapi"
	"github.com/simple-lms/console/pkg/spotlight"
)

const defaultSearchLimit = 20

type CoreAPIController struct {
	app         application.Application
	users       *services.UserService
	roles       *services.RoleService
	departments *services.DepartmentService
	locations   *services.LocationService
	spotlight   spotlight.Spotlight
	apiPrefix   string
}

func NewCoreAPIController(app application.Application, sl spotlight.Spotlight) application.Controller {
	return &CoreAPIController{
		app:         app,
		users:       app.Service(services.UserService{}).(*services.UserService),
		roles:       app.Service(services.RoleService{}).(*services.RoleService),
		departments: app.Service(services.DepartmentService{}).(*services.DepartmentService),
		locations:   app.Service(services.LocationService{}).(*services.LocationService),
		spotlight:   sl,
		apiPrefix:   "/core/api",
	}
}

func (c *CoreAPIController) Key() string {
	return c.apiPrefix
}

func (c *CoreAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/navigation", c.Navigation).Methods(http.MethodGet)
	api.HandleFunc("/search", c.Search).Methods(http.MethodGet)

	api.HandleFunc("/users", c.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", c.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", c.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", c.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", c.PatchUser).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id}", c.DeleteUser).Methods(http.MethodDelete)

	api.HandleFunc("/roles", c.ListRoles).Methods(http.MethodGet)
	api.HandleFunc("/roles", c.CreateRole).Methods(http.MethodPost)
	api.HandleFunc("/roles/{id}", c.GetRole).Methods(http.MethodGet)
	api.HandleFunc("/roles/{id}", c.UpdateRole).Methods(http.MethodPut)
	api.HandleFunc("/roles/{id}", c.DeleteRole).Methods(http.MethodDelete)
	api.HandleFunc("/roles/{id}/modules/{module}:toggle", c.ToggleRoleModule).Methods(http.MethodPost)

	api.HandleFunc("/departments", c.ListDepartments).Methods(http.MethodGet)
	api.HandleFunc("/departments", c.CreateDepartment).Methods(http.MethodPost)
	api.HandleFunc("/departments/{id}", c.GetDepartment).Methods(http.MethodGet)
	api.HandleFunc("/departments/{id}", c.UpdateDepartment).Methods(http.MethodPut)
	api.HandleFunc("/departments/{id}", c.DeleteDepartment).Methods(http.MethodDelete)

	api.HandleFunc("/locations", c.ListLocations).Methods(http.MethodGet)
	api.HandleFunc("/locations", c.CreateLocation).Methods(http.MethodPost)
	api.HandleFunc("/locations/{id}", c.GetLocation).Methods(http.MethodGet)
	api.HandleFunc("/locations/{id}", c.UpdateLocation).Methods(http.MethodPut)
	api.HandleFunc("/locations/{id}", c.DeleteLocation).Methods(http.MethodDelete)
}

func (c *CoreAPIController) Navigation(w http.ResponseWriter, r *http.Request) {
	httpapi.OK(w, httpapi.NewList(c.app.NavItems(r.Context())))
}

type searchQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}

func (c *CoreAPIController) Search(w http.ResponseWriter, r *http.Request) {
	q, err := composables.UseQuery(&searchQuery{}, r)
	if err != nil {
		httpapi.BadRequest(w, r, err.Error())
		return
	}
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}
	items, err := c.spotlight.Find(r.Context(), q.Q, q.Limit)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *CoreAPIController) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := c.users.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *CoreAPIController) GetUser(w http.ResponseWriter, r *http.Request) {
	item, err := c.users.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, item)
}

func (c *CoreAPIController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto user.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.users.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[user.User]{Item: item, Items: items})
}

func (c *CoreAPIController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var dto user.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.users.Update(r.Context(), mux.Vars(r)["id"], &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[user.User]{Item: item, Items: items})
}

func (c *CoreAPIController) PatchUser(w http.ResponseWriter, r *http.Request) {
	patch, err := httpapi.ReadBody(r)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.users.Patch(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[user.User]{Item: item, Items: items})
}

func (c *CoreAPIController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	items, err := c.users.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *CoreAPIController) ListRoles(w http.ResponseWriter, r *http.Request) {
	items, err := c.roles.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *CoreAPIController) GetRole(w http.ResponseWriter, r *http.Request) {
	item, err := c.roles.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, item)
}

func (c *CoreAPIController) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto role.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.roles.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[role.Role]{Item: item, Items: items})
}

func (c *CoreAPIController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var dto role.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.roles.Update(r.Context(), mux.Vars(r)["id"], &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[role.Role]{Item: item, Items: items})
}

func (c *CoreAPIController) ToggleRoleModule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	item, items, err := c.roles.ToggleModule(r.Context(), vars["id"], vars["module"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[role.Role]{Item: item, Items: items})
}

func (c *CoreAPIController) DeleteRole(w http.ResponseWriter, r *http.Request) {
	items, err := c.roles.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *CoreAPIController) ListDepartments(w http.ResponseWriter, r *http.Request) {
	items, err := c.departments.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *CoreAPIController) GetDepartment(w http.ResponseWriter, r *http.Request) {
	item, err := c.departments.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, item)
}

func (c *CoreAPIController) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto department.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.departments.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[department.Department]{Item: item, Items: items})
}

func (c *CoreAPIController) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto department.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.departments.Update(r.Context(), mux.Vars(r)["id"], &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[department.Department]{Item: item, Items: items})
}

func (c *CoreAPIController) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	items, err := c.departments.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *CoreAPIController) ListLocations(w http.ResponseWriter, r *http.Request) {
	items, err := c.locations.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *CoreAPIController) GetLocation(w http.ResponseWriter, r *http.Request) {
	item, err := c.locations.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, item)
}

func (c *CoreAPIController) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var dto location.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.locations.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[location.Location]{Item: item, Items: items})
}

func (c *CoreAPIController) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var dto location.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.locations.Update(r.Context(), mux.Vars(r)["id"], &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[location.Location]{Item: item, Items: items})
}

func (c *CoreAPIController) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	items, err := c.locations.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}
