package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the optional project configuration document. When RootPackage
// is set it overrides topology auto-detection entirely.
type Config struct {
	RootPackage     string            `yaml:"root_package"`
	ClusterMappings map[string]string `yaml:"cluster_mappings"`
}

// defaultFiles are probed, in order, when no explicit config path is given.
var defaultFiles = []string{
	"depviz.yml",
	"depviz.yaml",
	"import_analyzer.yml",
	"import_analyzer.yaml",
}

// Load reads the configuration. A missing or malformed file is never fatal:
// it logs a warning and returns an empty config so the caller falls back to
// auto-detection. Environment variables (optionally via .env) override the
// file.
func Load(path string, logger *log.Logger) *Config {
	// Pick up DEPVIZ_* overrides from a local .env if one exists.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if err := readInto(path, cfg); err != nil {
			logger.Warn("could not load config file", "path", path, "err", err)
		}
	} else {
		for _, name := range defaultFiles {
			if _, err := os.Stat(name); err != nil {
				continue
			}
			if err := readInto(name, cfg); err != nil {
				logger.Warn("could not load config file", "path", name, "err", err)
				continue
			}
			break
		}
	}

	if v := os.Getenv("DEPVIZ_ROOT_PACKAGE"); v != "" {
		cfg.RootPackage = v
	}
	return cfg
}

// HasTopology reports whether the config carries an explicit topology that
// should suppress auto-detection.
func (c *Config) HasTopology() bool {
	return c.RootPackage != ""
}

func readInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
