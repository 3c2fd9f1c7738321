package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/orbit-simulator/catalog"
)

func newPositionsCommand() *cobra.Command {
	var (
		demo bool
		turn int64
		body string
	)

	cmd := &cobra.Command{
		Use:   "positions [scenario]",
		Short: "Print body positions at a given turn",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.NewCatalog()
			if _, err := loadInto(cat, args, demo); err != nil {
				return err
			}

			if body != "" {
				b, err := cat.BodyByName(body)
				if err != nil {
					return err
				}
				pos, err := cat.PositionAt(b.ID, turn)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s @ turn %d: (%.4f, %.4f)\n", b.Name, turn, pos.X, pos.Y)
				return nil
			}

			for _, bp := range cat.Snapshot(turn) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s @ turn %d: (%.4f, %.4f)\n", bp.Name, turn, bp.Pos.X, bp.Pos.Y)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Use the embedded demo scenario")
	cmd.Flags().Int64Var(&turn, "turn", 0, "Turn to query")
	cmd.Flags().StringVar(&body, "body", "", "Only print this body")
	return cmd
}
