package orgchart

import (
	"github.com/simple-lms/console/modules/core"
	corepersistence "github.com/simple-lms/console/modules/core/infrastructure/persistence"
	"github.com/simple-lms/console/modules/orgchart/presentation/controllers"
	"github.com/simple-lms/console/modules/orgchart/services"
	"github.com/simple-lms/console/pkg/application"
)

func NewModule(opts services.Options) application.Module {
	return &Module{opts: opts}
}

// Module depends on the core module being registered first.
type Module struct {
	opts services.Options
}

func (m *Module) Register(app application.Application) error {
	repos := app.Service(corepersistence.Repositories{}).(*corepersistence.Repositories)
	app.RegisterServices(
		services.NewOrgChartService(repos.Users, repos.Roles, repos.Locations, core.Authorizer(app), m.opts, app.Logger()),
	)
	app.RegisterControllers(
		controllers.NewOrgChartAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "orgchart"
}
