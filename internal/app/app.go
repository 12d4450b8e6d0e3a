// Package app wires the relay core to its transport and manages the
// process lifecycle.
package app

import (
	"context"
	stdhttp "net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/roomcast/roomcast-server/internal/config"
	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/metrics"
	transporthttp "github.com/roomcast/roomcast-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	useTLS          bool
	certFile        string
	keyFile         string
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promReg)

	hub := core.NewHub(m, logger, cfg.RoomCap)
	server := transporthttp.NewServer(hub, cfg, promReg, logger)

	useTLS := haveTLSMaterial(cfg)
	if useTLS {
		logger.Info().Str("cert", cfg.TLSCertFile).Msg("serving signaling over https")
	} else {
		logger.Info().Msg("serving signaling over http")
	}

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		useTLS:          useTLS,
		certFile:        cfg.TLSCertFile,
		keyFile:         cfg.TLSKeyFile,
		log:             logger,
	}
}

// Run starts the hub and HTTP server and blocks until context
// cancellation or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		var err error
		if a.useTLS {
			err = a.server.ListenAndServeTLS(a.certFile, a.keyFile)
		} else {
			err = a.server.ListenAndServe()
		}
		if err != nil && err != stdhttp.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// haveTLSMaterial reports whether both configured TLS files exist.
// Encryption is selected purely by the presence of that material.
func haveTLSMaterial(cfg config.Config) bool {
	if cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		return false
	}
	if _, err := os.Stat(cfg.TLSCertFile); err != nil {
		return false
	}
	if _, err := os.Stat(cfg.TLSKeyFile); err != nil {
		return false
	}
	return true
}
