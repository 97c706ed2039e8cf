// Command kestrel-server serves a kestrel database over HTTP.
//
// One database is opened at startup and exposed on a small JSON API:
// POST /query runs a script, POST /backup and /restore manage snapshots,
// GET /healthz reports liveness. Configuration comes from flags, an
// optional YAML file, and KESTREL_* environment variables.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kestreldb/kestrel/engine"
	"github.com/kestreldb/kestrel/gateway"
	"github.com/kestreldb/kestrel/internal/config"
	"github.com/kestreldb/kestrel/registry"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to YAML config file")
		dbPath     = pflag.StringP("path", "p", "", "database path (overrides config)")
		bind       = pflag.StringP("bind", "b", "", "address to bind (overrides config)")
		port       = pflag.Int("port", 0, "port to use (overrides config)")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *bind != "" {
		cfg.HTTP.Bind = *bind
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	engine.SetLogger(logger.Named("engine"))

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// registryLogger reports handle lifecycle events through zap.
type registryLogger struct {
	log *zap.Logger
}

func (l registryLogger) OnRegistryEvent(e registry.Event) {
	switch e.Type {
	case registry.EventOpened:
		l.log.Info("database opened", zap.Int32("handle", int32(e.Handle)))
	case registry.EventClosed:
		l.log.Info("database closed", zap.Int32("handle", int32(e.Handle)))
	case registry.EventDropped:
		l.log.Info("database released", zap.Int32("handle", int32(e.Handle)), zap.Error(e.Err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := engine.Open(cfg.Database.Path)
	if err != nil {
		return err
	}

	g := gateway.NewWith(func(string) (gateway.Instance, error) {
		return gateway.WrapEngine(db), nil
	})
	g.Registry().Subscribe(registryLogger{log: logger.Named("registry")})

	h, err := g.Open(cfg.Database.Path)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      newHandler(g, h, db, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTP.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("serving database",
		zap.String("addr", cfg.HTTP.Addr()),
		zap.String("path", cfg.Database.Path))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		g.Registry().CloseAll()
		return nil
	}
}
