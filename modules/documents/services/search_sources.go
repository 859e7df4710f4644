package services

import (
	"context"

	"github.com/simple-lms/console/modules/documents/domain/entities/doctype"
	"github.com/simple-lms/console/modules/documents/domain/entities/record"
	"github.com/simple-lms/console/modules/documents/domain/entities/template"
	"github.com/simple-lms/console/pkg/spotlight"
	"github.com/simple-lms/console/pkg/types"
)

// SearchSources returns quick search sources over document types, templates
// and records.
func SearchSources(docTypes doctype.Repository, templates template.Repository, records record.Repository) []spotlight.DataSource {
	return []spotlight.DataSource{
		spotlight.DataSourceFunc(func(ctx context.Context) ([]spotlight.Item, error) {
			all, err := docTypes.List(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]spotlight.Item, 0, len(all))
			for _, d := range all {
				items = append(items, spotlight.Item{
					Kind:   "document-type",
					ID:     d.ID,
					Label:  d.Prefix + " " + d.Name,
					Link:   "/documents/types/" + d.ID,
					Module: types.ModuleDocuments,
				})
			}
			return items, nil
		}),
		spotlight.DataSourceFunc(func(ctx context.Context) ([]spotlight.Item, error) {
			all, err := templates.List(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]spotlight.Item, 0, len(all))
			for _, t := range all {
				items = append(items, spotlight.Item{
					Kind:   "template",
					ID:     t.ID,
					Label:  t.Name,
					Link:   "/records/templates/" + t.ID,
					Module: types.ModuleRecords,
				})
			}
			return items, nil
		}),
		spotlight.DataSourceFunc(func(ctx context.Context) ([]spotlight.Item, error) {
			all, err := records.List(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]spotlight.Item, 0, len(all))
			for _, r := range all {
				items = append(items, spotlight.Item{
					Kind:   "record",
					ID:     r.ID,
					Label:  r.Title,
					Link:   "/records/" + r.ID,
					Module: types.ModuleRecords,
				})
			}
			return items, nil
		}),
	}
}
