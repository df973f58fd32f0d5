package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore [restaurant-id...]",
	Short: "Recompute RFM segments and churn risk, for every restaurant when none is named",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, cleanup, err := newService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		ids, err := targetRestaurants(ctx, svc, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, id := range ids {
			result, err := svc.Rescore(ctx, id)
			if err != nil {
				return fmt.Errorf("rescore for %s: %w", id, err)
			}
			fmt.Fprintf(out, "%s: %d customers rescored\n", id, result.Customers)
			segments := make([]string, 0, len(result.Segments))
			for segment := range result.Segments {
				segments = append(segments, segment)
			}
			sort.Strings(segments)
			for _, segment := range segments {
				fmt.Fprintf(out, "  %-20s %d\n", segment, result.Segments[segment])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)
}
