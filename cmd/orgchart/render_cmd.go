package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simple-lms/console/modules/orgchart/presentation/render"
	"github.com/simple-lms/console/modules/orgchart/services"
)

func newRenderCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the org chart as a text tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			opts := render.Options{MaxDepth: services.DefaultDepth}
			if flags.color {
				opts.Root = styleRoot
			}
			text, err := svc.Render(cmd.Context(), flags.filter(), opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
