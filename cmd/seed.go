package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/flavormetrics/internal/factories"
)

// number of tables Store.Load writes
const seedTables = 10

var seedOpts factories.Options

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate demo restaurants with order history and load them into Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.InMemory {
			return fmt.Errorf("seed writes to Postgres; use serve --in-memory for a throwaway demo store")
		}
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		started := time.Now()
		genBar := progressbar.NewOptions(seedOpts.Restaurants,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("generating restaurants"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		d := factories.NewGenerator(cfg.Seed, seedOpts).Generate(func(name string) {
			genBar.Describe(name)
			_ = genBar.Add(1)
		})
		_ = genBar.Finish()

		loadBar := progressbar.NewOptions(seedTables,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("loading"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		err = store.Load(ctx, d, func(table string) {
			loadBar.Describe(table)
			_ = loadBar.Add(1)
		})
		_ = loadBar.Finish()
		if err != nil {
			return fmt.Errorf("failed to load generated data: %w", err)
		}

		log.Info().
			Int64("seed", cfg.Seed).
			Int("restaurants", len(d.Restaurants)).
			Int("customers", len(d.Customers)).
			Int("orders", len(d.Orders)).
			Int("order_items", len(d.OrderItems)).
			Int("shifts", len(d.Shifts)).
			Int("reviews", len(d.Reviews)).
			Dur("took", time.Since(started)).
			Msg("seed complete")
		for _, r := range d.Restaurants {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.ID, r.Name, r.Timezone)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Restaurants, "restaurants", 3, "Number of restaurants to generate")
	seedCmd.Flags().IntVar(&seedOpts.Days, "days", 90, "Days of order history per restaurant")
	seedCmd.Flags().IntVar(&seedOpts.CustomersPer, "customers", 200, "Customers per restaurant")
	rootCmd.AddCommand(seedCmd)
}
