package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/npezzotti/go-office/internal/api"
	"github.com/npezzotti/go-office/internal/presence"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the office views over HTTP and follow presence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				rt.cfg.ServerAddr = addr
			}
			return serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env OFFICE_SERVER_ADDR)")
	return cmd
}

func serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := rt.log
	mux := http.NewServeMux()

	mux.Handle("GET /debug/vars", rt.stats.Handler())

	srv := api.NewOfficeApp(mux, logger, rt.state, rt.sess, rt.cfg)
	if err := srv.Refresh(ctx); err != nil {
		logger.WithError(err).Warn("initial refresh incomplete")
	}

	if rt.cfg.PresenceURL != "" {
		feed := presence.NewFeed(rt.cfg.PresenceURL, rt.sess, rt.state, logger, rt.stats)
		go func() {
			if err := feed.Run(ctx); err != nil {
				logger.WithError(err).Error("presence feed stopped")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s", sig)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Println("server:", err)
		}
	}
	cancel()

	shutDownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer shutdownCancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		return err
	}

	logger.Println("shutdown complete")
	return nil
}
