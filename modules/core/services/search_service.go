package services

import (
	"context"
	"net/url"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/pkg/spotlight"
	"github.com/simple-lms/console/pkg/types"
)

// SearchService is the console quick search. Modules register their sources.
type SearchService struct {
	spotlight.Spotlight
}

func NewSearchService(checker types.PermissionChecker) *SearchService {
	return &SearchService{Spotlight: spotlight.New(checker)}
}

// CoreSources returns search sources over people, roles and departments.
func CoreSources(users user.Repository, roles role.Repository, departments department.Repository) []spotlight.DataSource {
	return []spotlight.DataSource{
		spotlight.DataSourceFunc(func(ctx context.Context) ([]spotlight.Item, error) {
			all, err := users.List(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]spotlight.Item, 0, len(all))
			for _, u := range all {
				items = append(items, spotlight.Item{
					Kind:   "user",
					ID:     u.ID,
					Label:  u.Name,
					Link:   "/orgchart?q=" + url.QueryEscape(u.Name),
					Module: types.ModuleOrgChart,
				})
			}
			return items, nil
		}),
		spotlight.DataSourceFunc(func(ctx context.Context) ([]spotlight.Item, error) {
			all, err := roles.List(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]spotlight.Item, 0, len(all))
			for _, r := range all {
				items = append(items, spotlight.Item{
					Kind:   "role",
					ID:     r.ID,
					Label:  r.Name,
					Link:   "/system-config/roles/" + r.ID,
					Module: types.ModuleSystemConfig,
				})
			}
			return items, nil
		}),
		spotlight.DataSourceFunc(func(ctx context.Context) ([]spotlight.Item, error) {
			all, err := departments.List(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]spotlight.Item, 0, len(all))
			for _, d := range all {
				items = append(items, spotlight.Item{
					Kind:   "department",
					ID:     d.ID,
					Label:  d.Name,
					Link:   "/system-config/departments/" + d.ID,
					Module: types.ModuleSystemConfig,
				})
			}
			return items, nil
		}),
	}
}
