package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/flavormetrics/internal/logging"
	"github.com/chrisdamba/flavormetrics/internal/models"
)

var (
	cfgFile string
	cfg     *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "flavormetrics",
	Short: "Restaurant analytics over point-of-sale data",
	Long: `flavormetrics turns point-of-sale history (orders, menu items, shifts, inventory and reviews)
into menu engineering, demand forecasts, customer segments, labor suggestions and food-cost reports.
It serves them over a JSON API and runs the same analytics as batch commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return logging.Init(cfg.Log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./flavormetrics.yaml or ./configs/flavormetrics.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string")
	rootCmd.PersistentFlags().Bool("in-memory", false, "Use an in-memory store filled with generated demo data instead of Postgres")
	rootCmd.PersistentFlags().Int64("seed", 42, "Random seed for generated demo data")
	rootCmd.PersistentFlags().Bool("kafka-enabled", false, "Publish analytics events to Kafka")
	rootCmd.PersistentFlags().String("kafka-broker-list", "", "Kafka broker list")

	flags := rootCmd.PersistentFlags()
	cobra.CheckErr(viper.BindPFlag("log.verbose", flags.Lookup("verbose")))
	cobra.CheckErr(viper.BindPFlag("database_url", flags.Lookup("database-url")))
	cobra.CheckErr(viper.BindPFlag("in_memory", flags.Lookup("in-memory")))
	cobra.CheckErr(viper.BindPFlag("seed", flags.Lookup("seed")))
	cobra.CheckErr(viper.BindPFlag("kafka.enabled", flags.Lookup("kafka-enabled")))
	cobra.CheckErr(viper.BindPFlag("kafka.broker_list", flags.Lookup("kafka-broker-list")))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
