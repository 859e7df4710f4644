package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simple-lms/console/modules/core"
	"github.com/simple-lms/console/modules/core/seed"
	"github.com/simple-lms/console/modules/documents"
	"github.com/simple-lms/console/modules/orgchart"
	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
	"github.com/simple-lms/console/modules/orgchart/infrastructure/export"
	"github.com/simple-lms/console/modules/orgchart/services"
	"github.com/simple-lms/console/pkg/application"
	"github.com/simple-lms/console/pkg/logging"
)

type rootFlags struct {
	seedPath    string
	location    string
	departments []string
	query       string
	color       bool
	verbose     bool
	linesPerPg  int
	maxDepth    int
}

func (f *rootFlags) filter() hierarchy.Filter {
	return hierarchy.Filter{LocationID: f.location, DepartmentIDs: f.departments, Query: f.query}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:          "orgchart",
		Short:        "Render, export and check the org chart built from seed data",
		SilenceUsage: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.seedPath, "seed", "", "Seed file (.yaml or .toml); defaults to the embedded demo data")
	pf.StringVar(&flags.location, "location", "", "Only people at this location id")
	pf.StringSliceVar(&flags.departments, "department", nil, "Only people in these department ids")
	pf.StringVarP(&flags.query, "query", "q", "", "Fuzzy match on name or role")
	pf.BoolVar(&flags.color, "color", false, "Colorize terminal output")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Debug logging")
	pf.IntVar(&flags.linesPerPg, "lines-per-page", export.DefaultLinesPerPage, "PDF lines per page")
	pf.IntVar(&flags.maxDepth, "max-depth", 0, "Truncate the rendered tree below this depth (0 = unlimited)")

	cmd.AddCommand(
		newRenderCmd(flags),
		newExportCmd(flags),
		newValidateCmd(flags),
		newStatsCmd(flags),
	)
	return cmd
}

// loadApp registers the console modules in memory and seeds them.
func loadApp(ctx context.Context, flags *rootFlags) (*services.OrgChartService, error) {
	level := logrus.WarnLevel
	if flags.verbose {
		level = logrus.DebugLevel
	}
	logger := logging.ConsoleLogger(level)
	logger.SetOutput(os.Stderr)

	app := application.New(&application.ApplicationOptions{Logger: logger})
	err := application.LoadModules(app,
		core.NewModule(),
		documents.NewModule(),
		orgchart.NewModule(services.Options{LinesPerPage: flags.linesPerPg, MaxDepth: flags.maxDepth}),
	)
	if err != nil {
		return nil, err
	}
	data, err := seed.Load(flags.seedPath)
	if err != nil {
		return nil, err
	}
	if err := seed.Func(data)(ctx, app); err != nil {
		return nil, err
	}
	return app.Service(services.OrgChartService{}).(*services.OrgChartService), nil
}
