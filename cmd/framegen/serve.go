package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"davitframe/internal/handler"
	"davitframe/internal/hub"
	"davitframe/internal/render"
	"davitframe/internal/service"
	"davitframe/internal/watcher"

	"github.com/spf13/cobra"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the frame preview API",
		Long: `Serve the current frame over HTTP: spec, assembly, cut list, downloads
in every export format, a PNG still and the rotating GIF.

When a config file is in use it is watched and the served frame is
rebuilt on change. Progress events stream from /events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := flags.loadConfig()
			if err != nil {
				return err
			}
			spec, err := flags.specFor(cfg)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			eventBus := service.NewEventBus()

			// Initialize SSE hub
			sseHub := hub.New()
			go sseHub.Run(ctx)
			sseHub.Attach(ctx, eventBus)

			gen := service.NewGenerator(render.New(cfg.RenderOptions()), eventBus)
			preview, err := handler.NewPreviewHandler(gen, spec)
			if err != nil {
				return err
			}

			if path = flags.watchPath(path); path != "" {
				w := watcher.New(path, func(ctx context.Context) error {
					_, spec, err := flags.loadSpec()
					if err != nil {
						return err
					}
					if err := preview.SetSpec(spec); err != nil {
						return err
					}
					log.Printf("Reloaded frame from %s", path)
					return nil
				}).WithDebounce(cfg.Watch.Debounce.Duration()).WithEventBus(eventBus)

				go func() {
					if err := w.Watch(ctx); err != nil && ctx.Err() == nil {
						log.Printf("Config watcher stopped: %v", err)
					}
				}()
			}

			// Setup routes
			mux := http.NewServeMux()
			preview.Register(mux)
			mux.Handle("GET /events", sseHub)

			// Apply middleware
			finalHandler := handler.Chain(mux,
				handler.Recover,
				handler.CORS,
				handler.Logger,
			)

			server := &http.Server{
				Addr:         addr,
				Handler:      finalHandler,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Printf("Server listening on %s", addr)
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			// Wait for interrupt signal
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case <-quit:
			case err := <-serveErr:
				return err
			}

			log.Println("Shutting down server...")

			// Stop the watcher and close event streams before draining
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server shutdown error: %v", err)
			}

			log.Println("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default server.addr, :8080)")
	return cmd
}
