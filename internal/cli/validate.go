package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/orbit-simulator/catalog"
)

func newValidateCommand() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "validate [scenario]",
		Short: "Validate every body's orbit configuration in a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.NewCatalog()
			report, err := loadInto(cat, args, demo)
			if err != nil {
				return err
			}

			if report.Valid() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d bodies, all valid\n", len(report.BodyIDs))
				return nil
			}

			names := make([]string, 0, len(report.Findings))
			for name := range report.Findings {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				findings := report.Findings[name]
				fields := make([]string, 0, len(findings))
				for field := range findings {
					fields = append(fields, field)
				}
				sort.Strings(fields)

				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", name)
				for _, field := range fields {
					for _, msg := range findings[field] {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", field, msg)
					}
				}
			}
			return fmt.Errorf("%d of %d bodies invalid", len(report.Findings), len(report.BodyIDs))
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Validate the embedded demo scenario")
	return cmd
}
