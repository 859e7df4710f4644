package application

import (
	"context"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/repo"
	"github.com/simple-lms/console/pkg/types"
)

type Controller interface {
	Register(r *mux.Router)
	Key() string
}

type Module interface {
	Name() string
	Register(app Application) error
}

type SeedFunc func(ctx context.Context, app Application) error

type Seeder interface {
	Seed(ctx context.Context, app Application) error
	Register(seedFuncs ...SeedFunc)
}

// Application with a dynamically extendable service registry
type Application interface {
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger
	Authz() *authz.Service
	Persister() repo.Persister
	Hub() Huber
	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	NavItems(ctx context.Context) []types.NavigationItem
	RegisterNavItems(items ...types.NavigationItem)
	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
}
