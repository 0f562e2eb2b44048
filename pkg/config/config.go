// Package config loads drafter settings with viper. Values come from,
// in increasing priority: built-in defaults, a YAML config file, and
// DRAFTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/chazu/drafter/pkg/kernel/sdfx"
	"github.com/chazu/drafter/pkg/views"
)

const (
	configFileName = "drafter"
	configFileType = "yaml"
	envPrefix      = "DRAFTER"

	KeyOutputPath = "output_path"
	KeyLogPath    = "log_path"
	KeyMeshCells  = "mesh_cells"
	KeyScale      = "scale"
	KeyKernel     = "kernel"

	DefaultOutputPath = "output.dxf"
	DefaultLogPath    = "drafter.log"

	KernelSdfx     = "sdfx"
	KernelManifold = "manifold"
)

// Config is the resolved configuration.
type Config struct {
	OutputPath string  `mapstructure:"output_path"`
	LogPath    string  `mapstructure:"log_path"`
	MeshCells  int     `mapstructure:"mesh_cells"`
	Scale      float64 `mapstructure:"scale"`
	Kernel     string  `mapstructure:"kernel"`
}

// Load reads configuration. With an explicit path the file must exist;
// otherwise drafter.yaml is looked up in the working directory and in
// the user config directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyOutputPath, DefaultOutputPath)
	v.SetDefault(KeyLogPath, DefaultLogPath)
	v.SetDefault(KeyMeshCells, sdfx.DefaultMeshCells)
	v.SetDefault(KeyScale, views.DefaultScale)
	v.SetDefault(KeyKernel, KernelSdfx)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "drafter"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.OutputPath == "" {
		return errors.New("config: output_path is empty")
	}
	if c.MeshCells <= 0 {
		return fmt.Errorf("config: mesh_cells must be positive, got %d", c.MeshCells)
	}
	if !(c.Scale > 0) {
		return fmt.Errorf("config: scale must be positive, got %g", c.Scale)
	}
	if c.Kernel != KernelSdfx && c.Kernel != KernelManifold {
		return fmt.Errorf("config: unknown kernel %q, expected %s or %s", c.Kernel, KernelSdfx, KernelManifold)
	}
	return nil
}
