package modules

import (
	"github.com/simple-lms/console/modules/core"
	"github.com/simple-lms/console/modules/documents"
	"github.com/simple-lms/console/modules/orgchart"
	"github.com/simple-lms/console/modules/orgchart/services"
	"github.com/simple-lms/console/pkg/application"
	"github.com/simple-lms/console/pkg/configuration"
)

// BuiltIn returns the console modules in registration order. Core comes
// first: documents and orgchart read its repositories and services.
func BuiltIn(conf *configuration.Configuration) []application.Module {
	return []application.Module{
		core.NewModule(),
		documents.NewModule(),
		orgchart.NewModule(services.Options{
			LinesPerPage: conf.OrgChart.PDFLinesPerPage,
			MaxDepth:     conf.OrgChart.MaxRenderDepth,
		}),
	}
}

func Load(app application.Application, modules ...application.Module) error {
	return application.LoadModules(app, modules...)
}
