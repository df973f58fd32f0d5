package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forecastDays int

var forecastCmd = &cobra.Command{
	Use:   "forecast [restaurant-id...]",
	Short: "Regenerate demand forecasts, for every restaurant when none is named",
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
			report, err := svc.GenerateForecast(ctx, id, forecastDays)
			if err != nil {
				return fmt.Errorf("forecast for %s: %w", id, err)
			}
			fmt.Fprintf(out, "%s: %d covers over %d days (%d-%d), expected revenue %.2f\n",
				id, report.TotalPredicted, len(report.Days), report.TotalLow, report.TotalHigh, report.ExpectedRevenue)
		}
		return nil
	},
}

func init() {
	forecastCmd.Flags().IntVar(&forecastDays, "days", 14, "Days to forecast, starting tomorrow")
	rootCmd.AddCommand(forecastCmd)
}
