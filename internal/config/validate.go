package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"go.uber.org/zap/zapcore"
)

// ChartNames lists the chart settings keys in display order.
var ChartNames = []string{"tool_usage", "activity_timeline", "branch_activity"}

// chartKinds mirrors the render kinds the chart controller accepts.
var chartKinds = map[string]bool{
	"bar":      true,
	"line":     true,
	"doughnut": true,
	"pie":      true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig, "No config to validate", "This is a bug, please report it")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but mcpdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest mcpdash release")
	}

	if err := validateServer(cfg.Server); err != nil {
		return err
	}

	if cfg.PollInterval < MinPollInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll_interval of %s is too short", cfg.PollInterval),
			fmt.Sprintf("Use at least %s, the backend doesn't need hammering.", MinPollInterval))
	}

	if cfg.ReconnectDelay < MinReconnectDelay {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("reconnect_delay of %s is too short", cfg.ReconnectDelay),
			fmt.Sprintf("Use at least %s.", MinReconnectDelay))
	}

	if cfg.FeedCapacity < 1 || cfg.FeedCapacity > MaxFeedCapacity {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("feed_capacity must be between 1 and %d, got %d", MaxFeedCapacity, cfg.FeedCapacity),
			"The default of 20 works for most terminals.")
	}

	switch cfg.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown theme '%s'", cfg.Theme),
			"Use 'auto', 'light', or 'dark'.")
	}

	if cfg.PushRefreshLimit < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("push_refresh_limit can't be negative, got %g", cfg.PushRefreshLimit),
			"Use 0 to refresh on every push event.")
	}

	if err := validateCharts(cfg.Charts); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'charts' section in your .mcpdash.yaml.")
	}

	if cfg.Log.Level != "" {
		if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown log level '%s'", cfg.Log.Level),
				"Use debug, info, warn, or error.")
		}
	}

	return nil
}

func validateServer(server string) error {
	if strings.TrimSpace(server) == "" {
		return errors.New(errors.ErrConfig, "No server configured",
			"Set 'server' in .mcpdash.yaml or pass --server http://host:port")
	}
	u, err := url.Parse(server)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Server '%s' isn't a valid URL", server),
			"Use something like http://localhost:8080")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' needs an http or https scheme", server),
			"Use something like http://localhost:8080")
	}
	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' is missing a host", server),
			"Use something like http://localhost:8080")
	}
	return nil
}

func validateCharts(c ChartsConfig) error {
	values := map[string]string{
		"tool_usage":        c.ToolUsage,
		"activity_timeline": c.ActivityTimeline,
		"branch_activity":   c.BranchActivity,
	}
	for _, name := range ChartNames {
		kind := values[name]
		if kind == "" {
			continue
		}
		if !chartKinds[kind] {
			return fmt.Errorf("charts.%s: unknown kind '%s' (want bar, line, doughnut, or pie)", name, kind)
		}
	}
	return nil
}
