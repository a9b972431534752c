package cli

import (
	"fmt"
	"time"

	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/config"
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/spf13/cobra"
)

// GlobalFlags are registered on the root command and inherited by every
// subcommand.
type GlobalFlags struct {
	ConfigPath string
	Server     string
}

// AddGlobalFlags registers --config and --server as persistent flags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "config file (default: .mcpdash.yaml, then ~/.config/mcpdash/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.Server, "server", "", "backend base URL (e.g., http://localhost:8080)")
}

// DashboardFlags holds the overrides accepted by the dashboard command.
type DashboardFlags struct {
	Interval string
	Theme    string
	LogFile  string
	DiagAddr string
}

// AddDashboardFlags registers the dashboard overrides.
func AddDashboardFlags(cmd *cobra.Command, flags *DashboardFlags) {
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "snapshot poll interval (e.g., 5s, 1m)")
	cmd.Flags().StringVar(&flags.Theme, "theme", "", "color theme: auto, light, or dark")
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "log destination (default: $XDG_STATE_HOME/mcpdash/mcpdash.log)")
	cmd.Flags().StringVar(&flags.DiagAddr, "diag-addr", "", "serve /healthz, /metrics and /api/state on this address")
}

// loadConfig loads the config, applies the global overrides, and validates.
func loadConfig(global GlobalFlags, apply func(*config.Config) error) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(global.ConfigPath)
	if err != nil {
		return nil, "", err
	}
	if global.Server != "" {
		cfg.Server = global.Server
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, "", err
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Apply copies the non-empty flags onto cfg.
func (f DashboardFlags) Apply(cfg *config.Config) error {
	if f.Interval != "" {
		interval, err := ParseInterval(f.Interval)
		if err != nil {
			return err
		}
		cfg.PollInterval = interval
	}
	if f.Theme != "" {
		cfg.Theme = f.Theme
	}
	if f.LogFile != "" {
		cfg.Log.File = config.ExpandTilde(f.LogFile)
	}
	if f.DiagAddr != "" {
		cfg.Diagnostics.Addr = f.DiagAddr
	}
	return nil
}

// ParseInterval parses a poll interval flag.
func ParseInterval(flag string) (time.Duration, error) {
	interval, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 5s, 30s, or 1m.")
	}
	return interval, nil
}

// ResolvePalette turns the theme setting into a palette mode. "auto" asks
// darkBackground, which reports the terminal's background.
func ResolvePalette(theme string, darkBackground func() bool) charts.PaletteMode {
	switch theme {
	case config.ThemeDark:
		return charts.Dark
	case config.ThemeLight:
		return charts.Light
	}
	if darkBackground != nil && darkBackground() {
		return charts.Dark
	}
	return charts.Light
}

// chartKinds maps the config's chart section onto chart ids. Validate has
// already rejected unknown kinds.
func chartKinds(c config.ChartsConfig) map[charts.ChartID]charts.Kind {
	kinds := make(map[charts.ChartID]charts.Kind, len(charts.IDs))
	for id, raw := range map[charts.ChartID]string{
		charts.ToolUsage:        c.ToolUsage,
		charts.ActivityTimeline: c.ActivityTimeline,
		charts.BranchActivity:   c.BranchActivity,
	} {
		if raw == "" {
			continue
		}
		if kind, err := charts.ParseKind(raw); err == nil {
			kinds[id] = kind
		}
	}
	return kinds
}
