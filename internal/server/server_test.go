package server

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nickymarino/virgo/internal/config"
	"github.com/nickymarino/virgo/internal/wallpaper"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T, modify func(c *config.Config)) (*http.ServeMux, config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Walls.Dir = t.TempDir()
	cfg.Defaults.Width = 20
	cfg.Defaults.Height = 10
	if modify != nil {
		modify(&cfg)
	}
	h, err := NewHandler(wallpaper.NewEngine(EngineOptions(cfg)), HandlerConfig(cfg))
	require.NoError(t, err)
	return Mux(h, cfg, Flags(cfg)), cfg
}

func do(mux http.Handler, method string, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestIndex(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := do(mux, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	require.Contains(t, body, `id="wallpaper-form"`)
	require.Contains(t, body, `<option value="dark_blue"`)
	require.Contains(t, body, `<option value="ruby" selected>`)

	rec = do(mux, http.MethodGet, "/unknown", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(mux, http.MethodPost, "/", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenWallpaper(t *testing.T) {
	mux, cfg := newTestMux(t, nil)

	rec := do(mux, http.MethodPost, "/gen-wallpaper?background=white&foreground=%23e0115f&width=30&height=12", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	link := rec.Body.String()
	require.True(t, strings.HasPrefix(link, "walls/"), link)
	require.True(t, strings.HasSuffix(link, ".png"), link)
	require.NotEmpty(t, rec.Header().Get(HeaderSeed))

	name := strings.TrimPrefix(link, "walls/")
	data, err := os.ReadFile(filepath.Join(cfg.Walls.Dir, name))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 30, img.Bounds().Dx())
	require.Equal(t, 12, img.Bounds().Dy())

	rec = do(mux, http.MethodGet, "/"+link, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, data, rec.Body.Bytes())
}

func TestGenWallpaperFormBody(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/gen-wallpaper", strings.NewReader("background=gray&foreground=gothic&density=50&diameter=2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "100", rec.Header().Get(HeaderBlocks))
}

func TestGenWallpaperErrors(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"zero width", http.MethodPost, "/gen-wallpaper?width=0", http.StatusBadRequest},
		{"width not a number", http.MethodPost, "/gen-wallpaper?width=wide", http.StatusBadRequest},
		{"unknown background", http.MethodPost, "/gen-wallpaper?background=plaid", http.StatusBadRequest},
		{"diameter larger than image", http.MethodPost, "/gen-wallpaper?diameter=40", http.StatusBadRequest},
		{"get not allowed", http.MethodGet, "/gen-wallpaper", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(mux, tt.method, tt.target, "")
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusBadRequest {
				require.NotEmpty(t, decodeError(t, rec))
			}
		})
	}
}

func TestWallpaperGet(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	target := "/api/wallpaper?width=40&height=30&density=25&diameter=2&background=chalkboard&foregrounds=primaries&seed=42&x_mean=10"
	first := do(mux, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	require.Equal(t, "image/png", first.Header().Get("Content-Type"))
	require.Equal(t, "42", first.Header().Get(HeaderSeed))
	require.Equal(t, "300", first.Header().Get(HeaderBlocks))
	require.Equal(t, "false", first.Header().Get(HeaderFallback))

	second := do(mux, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, first.Body.Bytes(), second.Body.Bytes())

	img, err := png.Decode(bytes.NewReader(first.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 40, img.Bounds().Dx())
}

func TestWallpaperHead(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodHead, "/api/wallpaper?seed=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, rec.Body.Len())
	require.NotEmpty(t, rec.Header().Get("Content-Length"))
}

func TestWallpaperPostJSON(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	body := `{"width": 16, "height": 8, "density": 0.1, "foregrounds": ["#ffffff", "#e0115f"], "format": "bmp", "seed": 18446744073709551615}`
	rec := do(mux, http.MethodPost, "/api/wallpaper", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "image/bmp", rec.Header().Get("Content-Type"))
	require.Equal(t, "18446744073709551615", rec.Header().Get(HeaderSeed))
	// 128 cells at 0.1% is less than a block, fallback stamps 10% of cells.
	require.Equal(t, "true", rec.Header().Get(HeaderFallback))
	require.Equal(t, "12", rec.Header().Get(HeaderBlocks))
}

func TestWallpaperPostJSONErrors(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"width": `},
		{"not an object", `[1, 2]`},
		{"fractional width", `{"width": 10.5}`},
		{"foregrounds number", `{"foregrounds": 7}`},
		{"empty foregrounds", `{"foregrounds": []}`},
		{"bad hex in array", `{"foregrounds": ["#ffffff", "#zzzzzz"]}`},
		{"negative seed", `{"seed": -1}`},
		{"unknown format", `{"format": "gif"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(mux, http.MethodPost, "/api/wallpaper", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotEmpty(t, decodeError(t, rec))
		})
	}
}

func TestWallpaperTooLarge(t *testing.T) {
	mux, _ := newTestMux(t, func(c *config.Config) {
		c.Render.MaxCells = 100
	})
	rec := do(mux, http.MethodGet, "/api/wallpaper?width=20&height=20", "")
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, decodeError(t, rec), "too large")
}

func TestThemes(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := do(mux, http.MethodGet, "/api/themes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all themesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all.Backgrounds, 10)
	require.Len(t, all.Foregrounds, 10)
	require.NotEmpty(t, all.Curated)

	rec = do(mux, http.MethodGet, "/api/themes?match=gr*", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered themesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered.Backgrounds, 2)
	require.Equal(t, "gray", filtered.Backgrounds[0].Name)
	require.Equal(t, "gray_green", filtered.Backgrounds[1].Name)
	require.Empty(t, filtered.Foregrounds)
	require.Contains(t, rec.Body.String(), `"foregrounds":[]`)
}

func TestWallsNoListing(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodGet, "/walls/", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptionalHandlers(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	mux, _ = newTestMux(t, func(c *config.Config) {
		c.Health.Enabled = true
	})
	rec = do(mux, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{}`, rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodGet, "/api/themes", "")
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestHandlerFlagString(t *testing.T) {
	require.Equal(t, "web, walls, api", (HandlerWeb | HandlerWalls | HandlerAPI).String())
	require.Equal(t, "api, health", (HandlerHealth | HandlerAPI).String())
}
