package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd(flags *rootFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print span-of-control and headcount numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			st, err := svc.Stats(cmd.Context(), flags.filter())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return writeJSON(out, st, flags.color)
			case "text":
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "people\t%d\n", st.People)
				fmt.Fprintf(tw, "roots\t%d\n", st.Roots)
				fmt.Fprintf(tw, "max depth\t%d\n", st.MaxDepth)
				fmt.Fprintf(tw, "managers\t%d\n", st.Managers)
				fmt.Fprintf(tw, "widest span\t%d\n", st.WidestSpan)
				fmt.Fprintf(tw, "average span\t%s\n", st.AverageSpan.StringFixed(2))
				for _, l := range st.ByLocation {
					name := l.Name
					if name == "" {
						name = "(none)"
					}
					fmt.Fprintf(tw, "  %s\t%d\n", name, l.Count)
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unknown --format %q (expected text|json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}
