// Package server contains HTTP handlers of wallpaper web app and API.
package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nickymarino/virgo/internal/configtypes"
	"github.com/nickymarino/virgo/internal/imageio"
	"github.com/nickymarino/virgo/internal/metrics"
	"github.com/nickymarino/virgo/internal/middleware"
	"github.com/nickymarino/virgo/internal/palette"
	"github.com/nickymarino/virgo/internal/wallpaper"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/encoding/json"
)

//go:embed templates/index.html
var content embed.FS

var indexTemplate = template.Must(template.ParseFS(content, "templates/index.html"))

// wallNameTemplate is a file name of wallpaper saved by web form.
const wallNameTemplate = "{id}{ext}"

// maxBodySize limits JSON render requests.
const maxBodySize = 64 * 1024

// Response headers describing rendered wallpaper.
const (
	HeaderSeed     = "X-Seed"
	HeaderBlocks   = "X-Blocks"
	HeaderFallback = "X-Density-Fallback"
)

// Config of Handler.
type Config struct {
	// Defaults for parameters missing in request.
	Defaults configtypes.Defaults
	// WallsDir is a directory for wallpapers generated by web form.
	WallsDir string
	// WallsPrefix is a URL prefix under which WallsDir is served.
	WallsPrefix string
	// RenderTimeout bounds a single render, zero means no timeout.
	RenderTimeout time.Duration
}

// Handler serves web form, saved wallpapers and render API.
type Handler struct {
	config Config
	engine *wallpaper.Engine
	names  *imageio.NameTemplate
}

// NewHandler creates new Handler.
func NewHandler(engine *wallpaper.Engine, c Config) (*Handler, error) {
	names, err := imageio.NewNameTemplate(wallNameTemplate)
	if err != nil {
		return nil, err
	}
	return &Handler{
		config: c,
		engine: engine,
		names:  names,
	}, nil
}

type indexData struct {
	Backgrounds []palette.Preset
	Foregrounds []palette.PresetSet
	Defaults    configtypes.Defaults
}

// Index serves the wallpaper form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexData{
		Backgrounds: palette.Backgrounds,
		Foregrounds: palette.Foregrounds,
		Defaults:    h.config.Defaults,
	})
	if err != nil {
		log.Error().Err(err).Msg("error executing index template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// GenWallpaper renders wallpaper from form values, saves it into walls
// directory and responds with a relative link to it.
func (h *Handler) GenWallpaper(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, badParam("form", err))
		return
	}
	p := defaultParams(h.config.Defaults)
	if err := parseValues(r.Form, &p); err != nil {
		h.writeError(w, r, err)
		return
	}
	wp, format, err := p.build()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	img, res, err := h.render(r.Context(), wp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	name := h.names.Execute(map[string]string{
		"id":  uuid.NewString(),
		"ext": format.Ext(),
	})
	if err := imageio.Save(filepath.Join(h.config.WallsDir, name), img, format); err != nil {
		h.writeError(w, r, err)
		return
	}
	link := strings.Trim(h.config.WallsPrefix, "/") + "/" + name
	log.Debug().Str("path", link).Uint64("seed", res.Seed).Msg("wallpaper saved")
	setResultHeaders(w, res)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, link)
}

// Wallpaper renders wallpaper from query string (GET) or JSON body (POST) and
// writes encoded image into response.
func (h *Handler) Wallpaper(w http.ResponseWriter, r *http.Request) {
	p := defaultParams(h.config.Defaults)
	if r.Method == http.MethodPost {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			h.writeError(w, r, badParam("body", err))
			return
		}
		if err := parseJSON(data, &p); err != nil {
			h.writeError(w, r, err)
			return
		}
	} else if err := parseValues(r.URL.Query(), &p); err != nil {
		h.writeError(w, r, err)
		return
	}
	wp, format, err := p.build()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	img, res, err := h.render(r.Context(), wp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, format); err != nil {
		h.writeError(w, r, err)
		return
	}
	setResultHeaders(w, res)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}

type themesResponse struct {
	Backgrounds []palette.Preset    `json:"backgrounds"`
	Foregrounds []palette.PresetSet `json:"foregrounds"`
	Curated     []palette.Theme     `json:"curated"`
}

// Themes responds with preset tables. Optional match query parameter is a
// glob pattern filtering presets by name.
func (h *Handler) Themes(w http.ResponseWriter, r *http.Request) {
	match := func(string) bool { return true }
	if pattern := r.URL.Query().Get("match"); pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			h.writeError(w, r, badParam("match", err))
			return
		}
		match = g.Match
	}
	resp := themesResponse{
		Backgrounds: make([]palette.Preset, 0, len(palette.Backgrounds)),
		Foregrounds: make([]palette.PresetSet, 0, len(palette.Foregrounds)),
		Curated:     make([]palette.Theme, 0, len(palette.CuratedThemes)),
	}
	for _, p := range palette.Backgrounds {
		if match(p.Name) {
			resp.Backgrounds = append(resp.Backgrounds, p)
		}
	}
	for _, p := range palette.Foregrounds {
		if match(p.Name) {
			resp.Foregrounds = append(resp.Foregrounds, p)
		}
	}
	for _, t := range palette.CuratedThemes {
		if match(t.Background) || match(t.Foregrounds) {
			resp.Curated = append(resp.Curated, t)
		}
	}
	data, err := json.Marshal(resp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// Walls serves saved wallpapers. Directory listings are not exposed.
func (h *Handler) Walls() http.Handler {
	prefix := strings.TrimRight(h.config.WallsPrefix, "/") + "/"
	files := http.FileServer(http.Dir(h.config.WallsDir))
	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}

func (h *Handler) render(ctx context.Context, wp wallpaper.Wallpaper) (*image.RGBA, wallpaper.Result, error) {
	if h.config.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.RenderTimeout)
		defer cancel()
	}
	started := time.Now()
	img, res, err := h.engine.Render(ctx, wp)
	if err != nil {
		metrics.ObserveRender(metrics.SourceHTTP, started, "error", 0, 0, false)
		return nil, res, err
	}
	metrics.ObserveRender(metrics.SourceHTTP, started, "ok", res.Blocks, wp.Width*wp.Height, res.Fallback)
	return img, res, nil
}

func setResultHeaders(w http.ResponseWriter, res wallpaper.Result) {
	w.Header().Set(HeaderSeed, strconv.FormatUint(res.Seed, 10))
	w.Header().Set(HeaderBlocks, strconv.Itoa(res.Blocks))
	w.Header().Set(HeaderFallback, strconv.FormatBool(res.Fallback))
}

type errorResponse struct {
	Error string `json:"error"`
}

// errorStatus maps render errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, wallpaper.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, wallpaper.ErrAllocation):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID, _ := middleware.GetRequestIDFromContext(r.Context())
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		log.Debug().Str("path", r.URL.Path).Str("request_id", requestID).Msg("client gone before render finished")
		return
	}
	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", requestID).Msg("error handling request")
		message = http.StatusText(status)
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Str("request_id", requestID).Int("status", status).Msg("request rejected")
	}
	if status == http.StatusServiceUnavailable {
		message = "render timeout"
	}
	data, _ := json.Marshal(errorResponse{Error: message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
