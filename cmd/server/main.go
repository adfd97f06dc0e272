package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/bpl-pickems/internal/board"
	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/config"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/httpapi"
	"github.com/DoyleJ11/bpl-pickems/internal/hub"
	"github.com/DoyleJ11/bpl-pickems/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() {
		// Sync on stderr returns EINVAL on some platforms; nothing to act on.
		_ = logger.Sync()
	}()

	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	opts := board.Options{
		Catalog:     c,
		SettleDelay: cfg.Export.SettleDelay,
		Logger:      logger,
	}
	if cfg.Export.Enabled {
		r, err := export.NewRenderer(c, export.Options{Scale: cfg.Export.Scale, Background: cfg.Export.Background})
		if err != nil {
			return err
		}
		opts.Exporter = r
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the router *with* the hub injected
	h := hub.NewHub(ctx, opts)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.New(h, c, httpapi.Options{AllowedOrigins: cfg.AllowedOrigins, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.Addr),
			zap.String("catalog", c.Title),
			zap.Bool("export", cfg.Export.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var errs error
		errs = multierr.Append(errs, srv.Shutdown(shutdownCtx))
		select {
		case h.Inbox() <- hub.ShutdownHub{}:
		case <-shutdownCtx.Done():
			errs = multierr.Append(errs, fmt.Errorf("hub shutdown: %w", shutdownCtx.Err()))
		}
		return errs
	})

	return g.Wait()
}
