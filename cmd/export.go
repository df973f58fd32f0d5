package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/flavormetrics/internal/export"
)

var exportStart, exportEnd string

var exportCmd = &cobra.Command{
	Use:   "export [restaurant-id...]",
	Short: "Write stored forecasts and the menu-engineering report as Parquet files",
	Long: `export writes forecasts.parquet and menu_engineering.parquet per restaurant, into
export.output_folder locally or into the export.bucket S3 bucket when export.destination is s3.
Without --start/--end the range covers the last 30 days through the forecast horizon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start, err := parseFlagDate("start", exportStart)
		if err != nil {
			return err
		}
		end, err := parseFlagDate("end", exportEnd)
		if err != nil {
			return err
		}

		svc, cleanup, err := newService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		exporter, err := export.NewExporter(ctx, cfg.Export)
		if err != nil {
			return err
		}
		ids, err := targetRestaurants(ctx, svc, args)
		if err != nil {
			return err
		}

		bar := progressbar.NewOptions(len(ids),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("exporting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		var written []string
		for _, id := range ids {
			restaurant, err := svc.Restaurant(ctx, id)
			if err != nil {
				return err
			}
			r := svc.DefaultRange(restaurant)
			r.End = svc.Today(restaurant).AddDate(0, 0, cfg.Forecast.MaxDays)
			if !start.IsZero() {
				r.Start = start
			}
			if !end.IsZero() {
				r.End = end
			}
			if r.End.Before(r.Start) {
				return fmt.Errorf("--end %s is before --start %s", r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
			}

			bar.Describe(restaurant.Name)
			locations, err := svc.Export(ctx, exporter, id, r)
			if err != nil {
				return fmt.Errorf("export for %s: %w", id, err)
			}
			written = append(written, locations...)
			_ = bar.Add(1)
		}
		_ = bar.Finish()

		for _, location := range written {
			fmt.Fprintln(cmd.OutOrStdout(), location)
		}
		return nil
	},
}

func parseFlagDate(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be a YYYY-MM-DD date: %w", name, err)
	}
	return t, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportStart, "start", "", "First date of the export range (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Last date of the export range (YYYY-MM-DD)")
	exportCmd.Flags().String("destination", "local", "Export destination: local or s3")
	exportCmd.Flags().String("output-folder", "exports", "Local folder, or key prefix in the bucket")
	exportCmd.Flags().String("bucket", "", "S3 bucket for the s3 destination")
	cobra.CheckErr(viper.BindPFlag("export.destination", exportCmd.Flags().Lookup("destination")))
	cobra.CheckErr(viper.BindPFlag("export.output_folder", exportCmd.Flags().Lookup("output-folder")))
	cobra.CheckErr(viper.BindPFlag("export.bucket", exportCmd.Flags().Lookup("bucket")))
	rootCmd.AddCommand(exportCmd)
}
