package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"github.com/BDubDesigns/git-rich-quick/internal/server"
	"github.com/BDubDesigns/git-rich-quick/internal/telemetry"
	"github.com/BDubDesigns/git-rich-quick/internal/ticker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server and its tick loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
	cmd.Flags().StringVar(&settings.Addr, "addr", settings.Addr, "listen address")
	cmd.Flags().StringVar(&settings.TelemetryDSN, "telemetry", settings.TelemetryDSN, "SQLite DSN for telemetry (in-memory when empty)")
	return cmd
}

func serve(ctx context.Context) error {
	tables, err := settings.Tables()
	if err != nil {
		return err
	}

	var repo telemetry.Repository
	if settings.TelemetryDSN != "" {
		sq, err := telemetry.OpenSQLite(settings.TelemetryDSN)
		if err != nil {
			return fmt.Errorf("open telemetry: %w", err)
		}
		defer sq.Close()
		repo = sq
	} else {
		repo = telemetry.NewMemoryRepository()
	}

	store := game.NewStore(tables,
		game.WithLogger(logger.Named("game")),
		game.WithRecorder(telemetry.NewRecorder(repo)))

	handler, err := server.NewHandler(server.Options{
		Store:     store,
		Telemetry: repo,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ticker.Run(ctx, store, store.TickInterval(), ticker.WithLogger(logger.Named("ticker")))
	})
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", settings.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
