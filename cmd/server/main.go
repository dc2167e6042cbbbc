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

	"github.com/DoyleJ11/prize-wheel/internal/config"
	"github.com/DoyleJ11/prize-wheel/internal/history"
	"github.com/DoyleJ11/prize-wheel/internal/httpapi"
	"github.com/DoyleJ11/prize-wheel/internal/hub"
	"github.com/DoyleJ11/prize-wheel/internal/logging"
	"github.com/DoyleJ11/prize-wheel/internal/render"
	"github.com/DoyleJ11/prize-wheel/internal/wheel"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	palette, err := render.NewPalette(cfg.Wheel.Palette)
	if err != nil {
		return err
	}

	store, err := openHistory(cfg, log)
	if err != nil {
		return err
	}
	recorder := history.NewRecorder(store, 256, log.Named("history"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the hub with a factory that stamps out wheels from the configured defaults
	wheelLog := log.Named("wheel")
	factory := func(ctx context.Context, code string) *wheel.Controller {
		wc := wheel.Config{
			Spin:                  cfg.Wheel.SpinConfig(),
			MaxEntrants:           cfg.Wheel.MaxEntrants,
			LockListWhileSpinning: cfg.Wheel.LockListWhileSpinning,
			TickInterval:          cfg.Wheel.TickInterval,
		}
		hooks := wheel.Hooks{OnSpinComplete: recorder.OnSpinComplete}
		return wheel.New(ctx, code, wc, hooks, wheelLog, cfg.Wheel.DefaultEntrants...)
	}
	h := hub.NewHub(ctx, factory, log.Named("hub"))

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:          h,
			History:      store,
			Palette:      palette,
			PointerAngle: cfg.Wheel.PointerAngle,
			Log:          log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return recorder.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return multierr.Combine(
			srv.Shutdown(sctx),
			h.Shutdown(sctx),
		)
	})

	err = g.Wait()
	// The recorder has drained by now; nothing else writes to the store.
	return multierr.Append(err, store.Close())
}

func openHistory(cfg config.Config, log *zap.Logger) (history.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info("history: in memory")
		return history.NewMemoryStore(), nil
	}
	store, err := history.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info("history: postgres")
	return store, nil
}
