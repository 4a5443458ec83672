package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Trivia    TriviaConfig    `mapstructure:"trivia"`
	Map       MapConfig       `mapstructure:"map"`
	Display   DisplayConfig   `mapstructure:"display"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	AllowOrigins string `mapstructure:"allow_origins"`
	DocsPath     string `mapstructure:"docs_path"`
}

// TriviaConfig points at the geography trivia endpoint.
type TriviaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MapConfig describes the features resource and the map canvas.
type MapConfig struct {
	Resource       string        `mapstructure:"resource"`
	TopologyObject string        `mapstructure:"topology_object"`
	PublicPath     string        `mapstructure:"public_path"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	Width          float64       `mapstructure:"width"`
	Height         float64       `mapstructure:"height"`
	Scale          float64       `mapstructure:"scale"`
}

// DisplayConfig controls how the "Updated" timestamp is rendered.
type DisplayConfig struct {
	Locale   string `mapstructure:"locale"`
	Timezone string `mapstructure:"timezone"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Prefix  string `mapstructure:"prefix"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GEOFUN_TRIVIA_BASE_URL → trivia.base_url
	v.SetEnvPrefix("GEOFUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("server.docs_path", "api/openapi.yaml")
	v.SetDefault("trivia.base_url", "http://localhost:8000")
	v.SetDefault("trivia.path", "/api/geo_fun")
	v.SetDefault("trivia.timeout", 10*time.Second)
	v.SetDefault("map.resource", "https://cdn.jsdelivr.net/npm/world-atlas@2/countries-110m.json")
	v.SetDefault("map.topology_object", "countries")
	v.SetDefault("map.public_path", "/world-110m.json")
	v.SetDefault("map.cache_ttl", 24*time.Hour)
	v.SetDefault("map.width", 800.0)
	v.SetDefault("map.height", 600.0)
	v.SetDefault("map.scale", 150.0)
	v.SetDefault("display.locale", "en-US")
	v.SetDefault("display.timezone", "Local")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.prefix", "geofun:")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if u, err := url.Parse(c.Trivia.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("trivia.base_url must be an absolute URL, got %q", c.Trivia.BaseURL))
	}
	if !strings.HasPrefix(c.Trivia.Path, "/") {
		errs = append(errs, "trivia.path must start with /")
	}
	if c.Trivia.Timeout <= 0 {
		errs = append(errs, "trivia.timeout must be positive")
	}
	if c.Map.Resource == "" {
		errs = append(errs, "map.resource is required")
	}
	if !strings.HasPrefix(c.Map.PublicPath, "/") {
		errs = append(errs, "map.public_path must start with /")
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 || c.Map.Scale <= 0 {
		errs = append(errs, "map.width, map.height and map.scale must be positive")
	}
	if c.Display.Locale == "" {
		errs = append(errs, "display.locale is required")
	}
	if c.Display.Timezone != "" {
		if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
			errs = append(errs, fmt.Sprintf("display.timezone: %v", err))
		}
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
