package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".mcpdash.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/mcpdash"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix is the prefix for environment overrides (MCPDASH_SERVER, ...).
	EnvPrefix = "MCPDASH"
	// BackendPortEnv is the backend's own port variable. When no server is
	// configured, the dashboard targets localhost on that port.
	BackendPortEnv = "MCP_DASHBOARD_PORT"
)

// Load reads config from the specified path. Environment overrides apply on
// top of the file.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'mcpdash init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .mcpdash.yaml in current directory
// 3. .mcpdash.yaml in parent directories (stops at git root or home)
// 4. ~/.config/mcpdash/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		if isGitRoot(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults (with
// environment overrides) if no file exists.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env binding set up.
// Every key needs a default for AutomaticEnv to reach it during Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	// server defaults to "" in viper so an unset value is distinguishable here.
	if strings.TrimSpace(cfg.Server) == "" {
		if port := strings.TrimSpace(os.Getenv(BackendPortEnv)); port != "" {
			cfg.Server = "http://localhost:" + port
		}
	}
	if strings.TrimSpace(cfg.Server) == "" {
		cfg.Server = DefaultServer
	}
	cfg.Server = strings.TrimRight(cfg.Server, "/")
	cfg.Log.File = ExpandTilde(cfg.Log.File)

	return cfg, nil
}

// setDefaults registers every key with its default so that env overrides and
// partial files merge cleanly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("server", "")
	v.SetDefault("poll_interval", d.PollInterval.String())
	v.SetDefault("reconnect_delay", d.ReconnectDelay.String())
	v.SetDefault("feed_capacity", d.FeedCapacity)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("push_refresh_limit", d.PushRefreshLimit)
	v.SetDefault("charts.tool_usage", d.Charts.ToolUsage)
	v.SetDefault("charts.activity_timeline", d.Charts.ActivityTimeline)
	v.SetDefault("charts.branch_activity", d.Charts.BranchActivity)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("diagnostics.addr", "")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
}

// DefaultLogFile returns the dashboard log path under the XDG state directory.
func DefaultLogFile() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "mcpdash", "mcpdash.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mcpdash.log")
	}
	return filepath.Join(home, ".local", "state", "mcpdash", "mcpdash.log")
}

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}
