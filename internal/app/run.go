package app

import (
	"context"
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nickymarino/virgo/internal/build"
	"github.com/nickymarino/virgo/internal/config"
	"github.com/nickymarino/virgo/internal/health"
	"github.com/nickymarino/virgo/internal/janitor"
	"github.com/nickymarino/virgo/internal/logging"
	"github.com/nickymarino/virgo/internal/metrics"
	"github.com/nickymarino/virgo/internal/server"
	"github.com/nickymarino/virgo/internal/service"
	"github.com/nickymarino/virgo/internal/tools"
	"github.com/nickymarino/virgo/internal/wallpaper"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

func Run(cmd *cobra.Command, configFile string) {
	dotEnvUsed := false
	if tools.FileExists(".env") {
		err := godotenv.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("error loading .env file")
		}
		dotEnvUsed = true
	}
	cfg, cfgMeta, err := config.GetConfig(cmd, configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting config")
	}

	ctx, serviceCancel := context.WithCancel(context.Background())
	defer serviceCancel()

	logCloseFn, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("error setting up logging")
	}
	if logCloseFn != nil {
		defer logCloseFn()
	}
	if cfgMeta.FileNotFound {
		log.Warn().Msg("config file not found, continue using environment and flag options")
	} else {
		absConfPath, _ := filepath.Abs(configFile)
		log.Info().Str("path", absConfPath).Msg("using config file")
	}
	if dotEnvUsed {
		log.Info().Msg("environment variables have been loaded from .env file")
	}

	err = cfg.Validate()
	if err != nil {
		log.Fatal().Err(err).Msg("error validating config")
	}
	err = tools.WritePidFile(cfg.PidFile)
	if err != nil {
		log.Fatal().Err(err).Msg("error writing PID")
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, i ...interface{}) {
		log.Info().Msgf(strings.ToLower(s), i...)
	}))

	log.Info().
		Str("version", build.Version).
		Str("runtime", runtime.Version()).
		Int("pid", os.Getpid()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Msg("starting virgo")

	if build.Version == "0.0.0" {
		log.Warn().Msg("running a development build of virgo (version 0.0.0)")
	}

	if cfg.Prometheus.Enabled || cfg.Graphite.Enabled {
		if err := metrics.Init(metrics.Config{Registerer: prometheus.DefaultRegisterer}); err != nil {
			log.Fatal().Err(err).Msg("error initializing metrics")
		}
	}

	if err := os.MkdirAll(cfg.Walls.Dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Walls.Dir).Msg("error creating walls directory")
	}

	// Registered services run until shutdown, after HTTP server stopped.
	serviceManager := service.NewManager()
	if cfg.Walls.TTL > 0 {
		serviceManager.Register(janitor.New(janitor.Config{
			Dir:      cfg.Walls.Dir,
			TTL:      cfg.Walls.TTL.ToDuration(),
			Interval: cfg.Walls.CleanupInterval.ToDuration(),
		}))
	}
	if cfg.Graphite.Enabled {
		serviceManager.Register(graphiteExporter(cfg, prometheus.DefaultGatherer))
	}

	engine := wallpaper.NewEngine(server.EngineOptions(cfg))
	handler, err := server.NewHandler(engine, server.HandlerConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("error creating HTTP handler")
	}

	serviceManager.Run(ctx)

	httpServer := runHTTPServer(cfg, handler)

	logStartWarnings(cfg, cfgMeta)

	handleSignals(cmd, configFile, cfg, httpServer, serviceManager, serviceCancel)
}

func wallsDirCheck(dir string) health.Check {
	return func(_ context.Context) error {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return errors.New("walls path is not a directory")
		}
		return nil
	}
}

func runHTTPServer(cfg config.Config, handler *server.Handler) *http.Server {
	addr := net.JoinHostPort(cfg.HTTP.Address, strconv.Itoa(cfg.HTTP.Port))
	flags := server.Flags(cfg)
	mux := server.Mux(handler, cfg, flags, wallsDirCheck(cfg.Walls.Dir))

	log.Info().Msgf("serving %s endpoints on %s", flags, addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.ToDuration(),
		ErrorLog:          stdlog.New(&httpErrorLogWriter{Logger: log.Logger}, "", 0),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("error ListenAndServe")
			}
		}
	}()

	return srv
}

func handleSignals(
	cmd *cobra.Command, configFile string, cfg config.Config, httpServer *http.Server,
	serviceManager *service.Manager, serviceCancel context.CancelFunc,
) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, os.Interrupt, syscall.SIGTERM)
	for {
		sig := <-sigCh
		log.Info().Msgf("signal received: %v", sig)
		switch sig {
		case syscall.SIGHUP:
			// Only log level can be changed without restart.
			log.Info().Msg("reloading configuration")
			newCfg, _, err := config.GetConfig(cmd, configFile)
			if err != nil {
				log.Err(err).Msg("error reading config")
				continue
			}
			if err = newCfg.Validate(); err != nil {
				log.Error().Msgf("error validating config: %v", err)
				continue
			}
			zerolog.SetGlobalLevel(logging.Level(newCfg.Log.Level))
			log.Info().Str("level", newCfg.Log.Level).Msg("configuration successfully reloaded")
		case syscall.SIGINT, os.Interrupt, syscall.SIGTERM:
			log.Info().Msg("shutting down ...")
			pidFile := cfg.PidFile
			shutdownTimeout := cfg.Shutdown.Timeout
			if shutdownTimeout > 0 {
				go time.AfterFunc(shutdownTimeout.ToDuration(), func() {
					if pidFile != "" {
						_ = os.Remove(pidFile)
					}
					log.Fatal().Msg("shutdown timeout reached")
				})
			}

			_ = httpServer.Shutdown(context.Background()) // We have a separate timeout goroutine.

			serviceCancel()
			_ = serviceManager.Wait()

			if pidFile != "" {
				_ = os.Remove(pidFile)
			}
			os.Exit(0)
		}
	}
}
