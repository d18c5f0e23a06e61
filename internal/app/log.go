package app

import (
	"strings"

	"github.com/nickymarino/virgo/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func logStartWarnings(cfg config.Config, cfgMeta config.Meta) {
	if cfg.HTTP.MaxConcurrentRenders == 0 {
		log.Warn().Msg("concurrent render limit disabled, large renders may exhaust memory")
	}
	if cfg.Walls.TTL == 0 {
		log.Warn().Str("dir", cfg.Walls.Dir).Msg("saved wallpapers are never removed")
	}

	for _, key := range cfgMeta.UnknownKeys {
		log.Warn().Str("key", key).Msg("unknown key in configuration file")
	}
	for _, key := range cfgMeta.UnknownEnvs {
		log.Warn().Str("var", key).Msg("unknown var in environment")
	}
}

type httpErrorLogWriter struct {
	zerolog.Logger
}

func (w *httpErrorLogWriter) Write(data []byte) (int, error) {
	w.Logger.Warn().Msg(strings.TrimSpace(string(data)))
	return len(data), nil
}
