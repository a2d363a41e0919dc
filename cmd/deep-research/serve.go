package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/deep-research/internal/session"
	"github.com/pdiddy/deep-research/internal/transport"
	"github.com/pdiddy/deep-research/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the update collector",
	Long: `Serve runs the update collector: pipeline stages POST research_update
frames to /updates, consumers subscribe on /ws for live delivery, and
/session returns the coalesced view. With --session-dir the stream is
also journaled to SQLite for later replay.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		pipeline := loadPipelineConfig()
		cfg := pipeline.Server
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}
		if cfg.Listen == "" {
			cfg.Listen = ":8085"
		}

		var store *session.Store
		sessionDir, _ := cmd.Flags().GetString("session-dir")
		if sessionDir == "" {
			sessionDir = pipeline.Store.SessionDir
		}
		if sessionDir != "" {
			store, err = session.Open(types.StoreConfig{SessionDir: sessionDir})
			if err != nil {
				return err
			}
			defer store.Close()
			logger.Info("journaling to session store", zap.String("dir", sessionDir))
		}

		srv := transport.NewServer(cfg, store, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default :8085)")
	serveCmd.Flags().String("session-dir", "", "journal updates to this session directory")

	rootCmd.AddCommand(serveCmd)
}
