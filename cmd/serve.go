package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/insight-cli/internal/analysis"
	"github.com/KaramelBytes/insight-cli/internal/dataset"
	"github.com/KaramelBytes/insight-cli/internal/regression"
	"github.com/KaramelBytes/insight-cli/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP service",
	Long: `Serve exposes POST /analyze (multipart upload), GET /health, GET / and GET /metrics.
The service stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		addr := c.ServerAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		dopt := dataset.DefaultOptions()
		if c.MaxRows > 0 {
			dopt.MaxRows = c.MaxRows
		}
		srv := server.New(server.Config{
			Addr:           addr,
			MaxUploadBytes: int64(c.MaxUploadMB) << 20,
			ReadTimeout:    time.Duration(c.ReadTimeoutSec) * time.Second,
			WriteTimeout:   time.Duration(c.WriteTimeoutSec) * time.Second,
			CORSOrigin:     c.CORSOrigin,
			Forecast: analysis.ForecastOptions{
				Model:   regression.ParseKind(c.DefaultModel),
				Seed:    c.RandomSeed,
				Trees:   c.ForestTrees,
				Horizon: c.ForecastHorizon,
			},
			Decode: dopt,
		}, logger)

		ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Serve(ctx)
	},
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, e.g. :5000)")
}
