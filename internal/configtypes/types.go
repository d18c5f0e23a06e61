package configtypes

// Log configuration.
type Log struct {
	// Level is a log level: trace, debug, info, warn, error, fatal or none.
	Level string `mapstructure:"level" json:"level" toml:"level" yaml:"level" default:"info"`
	// File is an optional log file, logs go to STDOUT if not set.
	File string `mapstructure:"file" json:"file" toml:"file" yaml:"file"`
}

// HTTPServer is a configuration of wallpaper HTTP server.
type HTTPServer struct {
	// Address to bind HTTP server to.
	Address string `mapstructure:"address" json:"address" toml:"address" yaml:"address"`
	// Port to bind HTTP server to.
	Port int `mapstructure:"port" json:"port" toml:"port" yaml:"port" default:"8000"`
	// MaxConcurrentRenders limits renders running at the same time. Zero means no limit.
	MaxConcurrentRenders int `mapstructure:"max_concurrent_renders" json:"max_concurrent_renders" toml:"max_concurrent_renders" yaml:"max_concurrent_renders" default:"4"`
	// RenderTimeout bounds a single render started by HTTP request.
	RenderTimeout Duration `mapstructure:"render_timeout" json:"render_timeout" toml:"render_timeout" yaml:"render_timeout" default:"30s"`
	// ReadHeaderTimeout of http.Server.
	ReadHeaderTimeout Duration `mapstructure:"read_header_timeout" json:"read_header_timeout" toml:"read_header_timeout" yaml:"read_header_timeout" default:"10s"`
	// RateLimit of render endpoints.
	RateLimit RateLimit `mapstructure:"rate_limit" json:"rate_limit" toml:"rate_limit" yaml:"rate_limit"`
}

// RateLimit is a token bucket configuration.
type RateLimit struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" toml:"enabled" yaml:"enabled"`
	// Rate is a number of allowed requests per second.
	Rate float64 `mapstructure:"rate" json:"rate" toml:"rate" yaml:"rate" default:"10"`
	// Burst is a maximum number of requests allowed at once.
	Burst int `mapstructure:"burst" json:"burst" toml:"burst" yaml:"burst" default:"20"`
}

// Render configures wallpaper engine.
type Render struct {
	// Spread is a fraction of axis extent used as standard deviation when axis mean is set.
	Spread float64 `mapstructure:"spread" json:"spread" toml:"spread" yaml:"spread" default:"0.125"`
	// MaxRejections is how many out of range normal draws are tolerated for a single coordinate.
	MaxRejections int `mapstructure:"max_rejections" json:"max_rejections" toml:"max_rejections" yaml:"max_rejections" default:"1000000"`
	// MaxCells limits width*height of a wallpaper. Zero means no limit.
	MaxCells int `mapstructure:"max_cells" json:"max_cells" toml:"max_cells" yaml:"max_cells" default:"100000000"`
}

// Defaults are used when a request does not specify a parameter.
type Defaults struct {
	Background  string  `mapstructure:"background" json:"background" toml:"background" yaml:"background" default:"black"`
	Foregrounds string  `mapstructure:"foregrounds" json:"foregrounds" toml:"foregrounds" yaml:"foregrounds" default:"ruby"`
	Width       int     `mapstructure:"width" json:"width" toml:"width" yaml:"width" default:"100"`
	Height      int     `mapstructure:"height" json:"height" toml:"height" yaml:"height" default:"100"`
	Density     float64 `mapstructure:"density" json:"density" toml:"density" yaml:"density" default:"1"`
	Diameter    int     `mapstructure:"diameter" json:"diameter" toml:"diameter" yaml:"diameter" default:"1"`
	Format      string  `mapstructure:"format" json:"format" toml:"format" yaml:"format" default:"png"`
}

// Walls configures storage of wallpapers generated by web form.
type Walls struct {
	// Dir where wallpapers are saved.
	Dir string `mapstructure:"dir" json:"dir" toml:"dir" yaml:"dir" default:"walls"`
	// HandlerPrefix under which saved wallpapers are served.
	HandlerPrefix string `mapstructure:"handler_prefix" json:"handler_prefix" toml:"handler_prefix" yaml:"handler_prefix" default:"/walls"`
	// TTL of a saved wallpaper. Zero disables cleanup.
	TTL Duration `mapstructure:"ttl" json:"ttl" toml:"ttl" yaml:"ttl" default:"24h"`
	// CleanupInterval is how often expired wallpapers are looked for.
	CleanupInterval Duration `mapstructure:"cleanup_interval" json:"cleanup_interval" toml:"cleanup_interval" yaml:"cleanup_interval" default:"10m"`
}

type Prometheus struct {
	Enabled       bool   `mapstructure:"enabled" json:"enabled" toml:"enabled" yaml:"enabled"`
	HandlerPrefix string `mapstructure:"handler_prefix" json:"handler_prefix" toml:"handler_prefix" yaml:"handler_prefix" default:"/metrics"`
}

type Health struct {
	Enabled       bool   `mapstructure:"enabled" json:"enabled" toml:"enabled" yaml:"enabled"`
	HandlerPrefix string `mapstructure:"handler_prefix" json:"handler_prefix" toml:"handler_prefix" yaml:"handler_prefix" default:"/health"`
}

type Shutdown struct {
	Timeout Duration `mapstructure:"timeout" json:"timeout" toml:"timeout" yaml:"timeout" default:"30s"`
}

// Graphite is a configuration for periodic export of metrics to Graphite.
type Graphite struct {
	Enabled  bool     `mapstructure:"enabled" json:"enabled" toml:"enabled" yaml:"enabled"`
	Host     string   `mapstructure:"host" json:"host" toml:"host" yaml:"host" default:"localhost"`
	Port     int      `mapstructure:"port" json:"port" toml:"port" yaml:"port" default:"2003"`
	Prefix   string   `mapstructure:"prefix" json:"prefix" toml:"prefix" yaml:"prefix" default:"virgo"`
	Interval Duration `mapstructure:"interval" json:"interval" toml:"interval" yaml:"interval" default:"10s"`
	Tags     bool     `mapstructure:"tags" json:"tags" toml:"tags" yaml:"tags"`
}
