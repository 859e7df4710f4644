package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
)

func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the manager chains for duplicate ids and cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			people, err := svc.People(cmd.Context())
			if err != nil {
				return err
			}
			people = flags.filter().Apply(people)
			if err := hierarchy.Validate(people); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d people\n", len(people))
			return err
		},
	}
}
