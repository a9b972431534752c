package config

import (
	"os"
	"path/filepath"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"gopkg.in/yaml.v3"
)

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't serialize config", "This is a bug, please report it")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't create config directory "+dir, "Check directory permissions")
		}
	}

	header := []byte("# mcpdash configuration\n# See 'mcpdash init --help' for details.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write "+path, "Check file permissions")
	}
	return nil
}
