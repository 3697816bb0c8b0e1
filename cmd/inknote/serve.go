package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"inknote/internal/app"
	"inknote/internal/editor"
	"inknote/internal/note"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the note editor HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg
			if addr != "" {
				cfg.Addr = addr
			}
			log := e.log
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			persister := newPersister(store, cfg, log)
			doc := persister.Load(ctx)

			exporter, err := newExporter(ctx, cfg, log)
			if err != nil {
				return err
			}

			coordinator := editor.New(doc, editor.Deps{
				Persister:   persister,
				Transformer: newGateway(cfg, log),
				Clipboard:   newClipboard(cfg),
			}, editor.Options{
				PreviewDelay: cfg.PreviewDelay,
				HistoryLimit: cfg.HistoryLimit,
				Logger:       log,
			})
			coordinator.OnPreview(func(s note.Settings) {
				log.Debug().Str("font", s.FontID).Float64("size", s.FontSize).Msg("preview settled")
			})

			service := app.New(coordinator, store, exporter, log)
			httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, log).RequireToken([]byte(cfg.APISecret))
			if cfg.APISecret == "" {
				log.Warn().Msg("no API secret configured, the API accepts unauthenticated requests")
			}
			server := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpServer.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      cfg.ExportTimeout + cfg.AITimeout + 15*time.Second,
				IdleTimeout:       60 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info().
					Str("addr", cfg.Addr).
					Str("store", cfg.StoreDriver).
					Bool("export_upload", exporter.HasSink()).
					Msg("inknote listening")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case err := <-serveErr:
				if err != nil {
					_ = coordinator.Close(context.Background())
					return err
				}
			case sig := <-sigCh:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown error")
			}
			if err := coordinator.Close(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("final save failed")
				return err
			}
			log.Info().Msg("document saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
