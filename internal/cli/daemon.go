package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/config"
	"github.com/justyntemme/skiff/internal/log"
	"github.com/justyntemme/skiff/internal/server"
	"github.com/justyntemme/skiff/internal/store"
)

// NewDaemonCmd builds the skiffd command, which serves backend sessions over
// a websocket.
func NewDaemonCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		debugLog   bool
	)
	cmd := &cobra.Command{
		Use:          "skiffd",
		Short:        "Serve the skiff backend over a websocket",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debugLog {
				log.SetLevel("debug")
			}
			m := config.NewManager(configPath)
			if err := m.Load(); err != nil {
				return err
			}
			cfg := m.Get()
			if listen != "" {
				cfg.Server.Listen = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.config/skiff/config.json)")
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config)")
	cmd.Flags().BoolVar(&debugLog, "debug", false, "verbose logging")
	return cmd
}

// serve runs until ctx is done. Sessions share the settings store and cloud
// providers but each gets its own backend and current directory.
func serve(ctx context.Context, cfg config.Config) error {
	db := store.NewDB()
	if err := db.Open(cfg.DBPath()); err != nil {
		return err
	}
	go db.Start()
	defer db.Close()

	providers, err := cloudProviders(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Backend: func() backend.Options { return backendOptions(cfg, db, providers) },
	})
	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("skiffd listening on %s", cfg.Server.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("skiffd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown()
	return httpSrv.Shutdown(shutdownCtx)
}
