package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Defaults for the synchronization engine.
const (
	DefaultServer         = "http://localhost:8080"
	DefaultPollInterval   = 5 * time.Second
	DefaultReconnectDelay = 3 * time.Second
	DefaultFeedCapacity   = 20
	DefaultTheme          = ThemeAuto
)

// Limits enforced by Validate.
const (
	MinPollInterval   = 500 * time.Millisecond
	MinReconnectDelay = 100 * time.Millisecond
	MaxFeedCapacity   = 1000
)

// Theme values accepted by the theme setting.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config represents the complete .mcpdash.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Server is the backend base URL. The pull endpoint is <server>/api/metrics
	// and the push channel is the same host at /ws.
	Server string `yaml:"server" mapstructure:"server"`

	// PollInterval is how often a snapshot is pulled regardless of push health.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// ReconnectDelay is the fixed delay before re-dialing the push channel.
	ReconnectDelay time.Duration `yaml:"reconnect_delay" mapstructure:"reconnect_delay"`

	// FeedCapacity bounds the live feed.
	FeedCapacity int `yaml:"feed_capacity" mapstructure:"feed_capacity"`

	// Theme is "auto", "light", or "dark".
	Theme string `yaml:"theme" mapstructure:"theme"`

	// PushRefreshLimit caps push-triggered pulls per second. 0 means every
	// push arrival triggers a pull.
	PushRefreshLimit float64 `yaml:"push_refresh_limit" mapstructure:"push_refresh_limit"`

	Charts      ChartsConfig      `yaml:"charts" mapstructure:"charts"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" mapstructure:"diagnostics"`
	Tracing     TracingConfig     `yaml:"tracing" mapstructure:"tracing"`
}

// ChartsConfig holds the initial render kind for each chart.
type ChartsConfig struct {
	ToolUsage        string `yaml:"tool_usage" mapstructure:"tool_usage"`
	ActivityTimeline string `yaml:"activity_timeline" mapstructure:"activity_timeline"`
	BranchActivity   string `yaml:"branch_activity" mapstructure:"branch_activity"`
}

// LogConfig controls where the dashboard writes its log.
type LogConfig struct {
	// File is the log destination. Supports ~ expansion. Empty uses the
	// state directory default.
	File string `yaml:"file" mapstructure:"file"`

	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`
}

// DiagnosticsConfig controls the optional local diagnostics HTTP server.
type DiagnosticsConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:9464". Empty disables it.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// TracingConfig controls OTLP trace export of pull requests.
type TracingConfig struct {
	// Endpoint is the OTLP/HTTP collector host:port. Empty disables export.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure exports over plain HTTP, for a local collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		Server:         DefaultServer,
		PollInterval:   DefaultPollInterval,
		ReconnectDelay: DefaultReconnectDelay,
		FeedCapacity:   DefaultFeedCapacity,
		Theme:          DefaultTheme,
		Charts: ChartsConfig{
			ToolUsage:        "bar",
			ActivityTimeline: "line",
			BranchActivity:   "doughnut",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
