package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/flavormetrics/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, cleanup, err := newService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		handler := api.NewRouter(api.NewHandler(svc, cfg.Forecast.MaxDays), log.Logger)
		return api.NewServer(cfg.HTTPAddr, handler).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("http-addr", ":8080", "Address the API listens on")
	cobra.CheckErr(viper.BindPFlag("http_addr", serveCmd.Flags().Lookup("http-addr")))
	rootCmd.AddCommand(serveCmd)
}
