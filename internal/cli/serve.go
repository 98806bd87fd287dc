package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Chandru1806/MCA/internal/api"
	"github.com/Chandru1806/MCA/internal/categorizer"
	"github.com/Chandru1806/MCA/internal/ingest"
	"github.com/Chandru1806/MCA/internal/metrics"
	"github.com/Chandru1806/MCA/internal/store"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			log := opts.log
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cls, err := newClassifier(ctx, cfg.Category)
			if err != nil {
				return err
			}
			db, err := store.New(cfg.Statement.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			rec := metrics.NewWithRegistry(reg)

			pipe := ingest.New(cfg.Statement.OutputDir, cfg.Statement.Workers)
			pipe.Workbook = cfg.Statement.Workbook
			pipe.Recorder = rec

			h := &api.Handler{
				Pipeline:    pipe,
				Categorizer: categorizer.NewService(cls, db, rec, cfg.Statement.Workers),
				Predictions: db,
				UploadDir:   cfg.Statement.UploadDir,
				Log:         &log,
			}
			if cfg.Server.MetricsEnabled {
				h.Gatherer = reg
			}
			app := api.NewApp(h, cfg.Server.BodyLimitMB)

			if addr == "" {
				addr = cfg.Server.Addr()
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Msg("listening")
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info().Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return app.ShutdownWithContext(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default SERVER_HOST:SERVER_PORT)")
	return cmd
}
