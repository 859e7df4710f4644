package seed

import (
	"context"

	"github.com/go-faster/errors"

	coreservices "github.com/simple-lms/console/modules/core/services"
	docservices "github.com/simple-lms/console/modules/documents/services"
	"github.com/simple-lms/console/pkg/application"
)

// Func seeds data through the registered services. Collections that already
// hold entities are left as they are.
func Func(data *Data) application.SeedFunc {
	return func(ctx context.Context, app application.Application) error {
		logger := app.Logger().WithField("component", "seed")
		steps := []struct {
			name string
			run  func(ctx context.Context) (int, error)
		}{
			{"locations", func(ctx context.Context) (int, error) {
				items, err := app.Service(coreservices.LocationService{}).(*coreservices.LocationService).Seed(ctx, data.Locations)
				return len(items), err
			}},
			{"departments", func(ctx context.Context) (int, error) {
				items, err := app.Service(coreservices.DepartmentService{}).(*coreservices.DepartmentService).Seed(ctx, data.Departments)
				return len(items), err
			}},
			{"roles", func(ctx context.Context) (int, error) {
				items, err := app.Service(coreservices.RoleService{}).(*coreservices.RoleService).Seed(ctx, data.Roles)
				return len(items), err
			}},
			{"users", func(ctx context.Context) (int, error) {
				items, err := app.Service(coreservices.UserService{}).(*coreservices.UserService).Seed(ctx, data.Users)
				return len(items), err
			}},
			{"document types", func(ctx context.Context) (int, error) {
				items, err := app.Service(docservices.DocumentTypeService{}).(*docservices.DocumentTypeService).Seed(ctx, data.DocumentTypes)
				return len(items), err
			}},
			{"record types", func(ctx context.Context) (int, error) {
				items, err := app.Service(docservices.RecordTypeService{}).(*docservices.RecordTypeService).Seed(ctx, data.RecordTypes)
				return len(items), err
			}},
			{"templates", func(ctx context.Context) (int, error) {
				items, err := app.Service(docservices.TemplateService{}).(*docservices.TemplateService).Seed(ctx, data.Templates)
				return len(items), err
			}},
			{"records", func(ctx context.Context) (int, error) {
				items, err := app.Service(docservices.RecordService{}).(*docservices.RecordService).Seed(ctx, data.Records)
				return len(items), err
			}},
		}
		for _, step := range steps {
			n, err := step.run(ctx)
			if err != nil {
				return errors.Wrapf(err, "seed %s", step.name)
			}
			logger.WithField("collection", step.name).Debugf("%d entities", n)
		}
		sync := app.Service(coreservices.PolicySync{}).(*coreservices.PolicySync)
		if err := sync.Sync(ctx); err != nil {
			return errors.Wrap(err, "sync policies")
		}
		return nil
	}
}
