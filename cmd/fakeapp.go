package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"webverify/internal/config"
	"webverify/internal/fakeapp"
	"webverify/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveFakeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-fake",
		Short: "Serves a local stand-in of the application to try the flows against",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              cfg.FakeApp.Addr,
				Handler:           fakeapp.New().Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				logger.Info(ctx, "starting fake application...", zap.String("addr", cfg.FakeApp.Addr))
				if err := server.ListenAndServe(); err != nil {
					if !errors.Is(err, http.ErrServerClosed) {
						logger.Error(ctx, "could not start fake application", zap.Error(err))
						stop()
					}
				}
			}()

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.FakeApp.GracefulShutdownTimeout)
			defer cancel()

			logger.Info(ctx, "stopping fake application...")
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error(ctx, "could not stop fake application", zap.Error(err))
			}
		},
	}
}
