package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "export pdf|xlsx",
		Short:     "Write the org chart listing to a PDF or XLSX file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"pdf", "xlsx"},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			format := args[0]
			if output == "" {
				output = "orgchart." + format
			}
			svc, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			switch format {
			case "pdf":
				err = svc.ExportPDF(cmd.Context(), f, flags.filter())
			case "xlsx":
				err = svc.ExportXLSX(cmd.Context(), f, flags.filter())
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default orgchart.<format>)")
	return cmd
}
