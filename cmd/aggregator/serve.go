// cmd/aggregator/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tamzrod/status-aggregator/internal/api"
)

const shutdownGrace = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a fresh snapshot per request over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := a.buildAggregator()
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			router := api.NewRouter(api.NewHandler(agg, a.log))

			srv := &http.Server{
				Addr:              a.v.GetString("listen"),
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.log.Infof(ctx, "listening on %s (providers=%d)", srv.Addr, len(agg.ProviderIDs()))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Infof(context.Background(), "shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("listen", ":8080", "HTTP listen address")
	return cmd
}
