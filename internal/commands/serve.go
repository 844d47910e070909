package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hongminglow/myrent-be/internal/config"
	"github.com/hongminglow/myrent-be/internal/server"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			defer store.Close()

			images, release, err := openMedia(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init media store: %w", err)
			}
			defer release()

			srv := server.New(cfg, store, images)
			errCh := make(chan error, 1)
			go func() {
				log.Printf("myrent backend listening on %s (db=%s, media=%s)", cfg.HTTPAddress(), cfg.DatabaseDriver, cfg.MediaBackend)
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			select {
			case err := <-errCh:
				return fmt.Errorf("http server error: %w", err)
			case <-sigCh:
			}

			ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctxShutdown); err != nil {
				log.Printf("graceful shutdown error: %v", err)
			}
			return nil
		},
	}
}
