package server

import (
	"net/http"
	"strings"

	"github.com/nickymarino/virgo/internal/config"
	"github.com/nickymarino/virgo/internal/health"
	"github.com/nickymarino/virgo/internal/middleware"
	"github.com/nickymarino/virgo/internal/wallpaper"

	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HandlerFlag is a bit mask of handlers that must be enabled in mux.
type HandlerFlag int

const (
	// HandlerWeb enables web form and its wallpaper generation endpoint.
	HandlerWeb HandlerFlag = 1 << iota
	// HandlerWalls enables serving of saved wallpapers.
	HandlerWalls
	// HandlerAPI enables render and themes API.
	HandlerAPI
	// HandlerPrometheus enables Prometheus handler.
	HandlerPrometheus
	// HandlerHealth enables Health check endpoint.
	HandlerHealth
)

var handlerText = map[HandlerFlag]string{
	HandlerWeb:        "web",
	HandlerWalls:      "walls",
	HandlerAPI:        "api",
	HandlerPrometheus: "prometheus",
	HandlerHealth:     "health",
}

func (flags HandlerFlag) String() string {
	flagsOrdered := []HandlerFlag{HandlerWeb, HandlerWalls, HandlerAPI, HandlerPrometheus, HandlerHealth}
	var endpoints []string
	for _, flag := range flagsOrdered {
		text, ok := handlerText[flag]
		if !ok {
			continue
		}
		if flags&flag != 0 {
			endpoints = append(endpoints, text)
		}
	}
	return strings.Join(endpoints, ", ")
}

// HandlerConfig builds Handler configuration from application config.
func HandlerConfig(cfg config.Config) Config {
	return Config{
		Defaults:      cfg.Defaults,
		WallsDir:      cfg.Walls.Dir,
		WallsPrefix:   cfg.Walls.HandlerPrefix,
		RenderTimeout: cfg.HTTP.RenderTimeout.ToDuration(),
	}
}

// EngineOptions builds wallpaper engine options from application config.
func EngineOptions(cfg config.Config) wallpaper.Options {
	return wallpaper.Options{
		Spread:        cfg.Render.Spread,
		MaxRejections: cfg.Render.MaxRejections,
		MaxCells:      cfg.Render.MaxCells,
	}
}

// Flags returns handlers enabled by cfg.
func Flags(cfg config.Config) HandlerFlag {
	flags := HandlerWeb | HandlerWalls | HandlerAPI
	if cfg.Prometheus.Enabled {
		flags |= HandlerPrometheus
	}
	if cfg.Health.Enabled {
		flags |= HandlerHealth
	}
	return flags
}

// Mux returns a mux with wallpaper handlers.
func Mux(h *Handler, cfg config.Config, flags HandlerFlag, healthChecks ...health.Check) *http.ServeMux {
	mux := http.NewServeMux()

	commonMiddlewares := []alice.Constructor{middleware.RequestID}

	useLoggingMW := zerolog.GlobalLevel() <= zerolog.DebugLevel
	if useLoggingMW {
		commonMiddlewares = append(commonMiddlewares, middleware.LogRequest)
	}

	chain := func(path string, extra ...alice.Constructor) alice.Chain {
		middlewares := append([]alice.Constructor{}, commonMiddlewares...)
		if cfg.Prometheus.Enabled {
			middlewares = append(middlewares, func(next http.Handler) http.Handler {
				return middleware.HTTPServerInstrumentation(path, next)
			})
		}
		middlewares = append(middlewares, extra...)
		return alice.New(middlewares...)
	}

	rateLimit := cfg.HTTP.RateLimit
	limitCfg := middleware.RenderLimitConfig{MaxConcurrent: cfg.HTTP.MaxConcurrentRenders}
	if rateLimit.Enabled {
		limitCfg.Rate = rateLimit.Rate
		limitCfg.Burst = rateLimit.Burst
	}
	renderLimit := middleware.NewRenderLimit(limitCfg)

	if flags&HandlerWeb != 0 {
		mux.Handle("/", chain("/", middleware.Get).ThenFunc(h.Index))
		mux.Handle("/gen-wallpaper", chain("/gen-wallpaper", middleware.Post, renderLimit.Middleware).ThenFunc(h.GenWallpaper))
	}

	if flags&HandlerWalls != 0 {
		wallsPrefix := strings.TrimRight(cfg.Walls.HandlerPrefix, "/") + "/"
		mux.Handle(wallsPrefix, chain(wallsPrefix, middleware.Get).Then(h.Walls()))
	}

	if flags&HandlerAPI != 0 {
		renderMethods := func(next http.Handler) http.Handler {
			return middleware.Method(next, http.MethodGet, http.MethodHead, http.MethodPost)
		}
		mux.Handle("/api/wallpaper", chain("/api/wallpaper", renderMethods, renderLimit.Middleware).ThenFunc(h.Wallpaper))
		mux.Handle("/api/themes", chain("/api/themes", middleware.Get).ThenFunc(h.Themes))
	}

	if flags&HandlerPrometheus != 0 {
		// register Prometheus metrics export endpoint.
		prometheusPrefix := strings.TrimRight(cfg.Prometheus.HandlerPrefix, "/")
		if prometheusPrefix == "" {
			prometheusPrefix = "/"
		}
		mux.Handle(prometheusPrefix, alice.New(commonMiddlewares...).Then(promhttp.Handler()))
	}

	if flags&HandlerHealth != 0 {
		healthPrefix := strings.TrimRight(cfg.Health.HandlerPrefix, "/")
		if healthPrefix == "" {
			healthPrefix = "/"
		}
		mux.Handle(healthPrefix, alice.New(commonMiddlewares...).Then(health.NewHandler(health.Config{Checks: healthChecks})))
	}

	return mux
}
