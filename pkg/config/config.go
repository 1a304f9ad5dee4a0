// Package config loads the snapvcs configuration.
//
// Configuration is read by viper from a yaml file (the repository's own
// .snapvcs/config.yaml, then $HOME/.snapvcs/config.yaml) and from SNAPVCS_*
// environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	// EnvPrefix is the prefix of environment variables overriding the configuration
	EnvPrefix = "snapvcs"

	// EnvConfigFile names the environment variable pointing to an explicit config file
	EnvConfigFile = "SNAPVCS_CONFIG"

	configName = "config"
	configType = "yaml"

	keyIgnore   = "ignore"
	keyLogLevel = "loglevel"
	keyPager    = "pager"
	keyColor    = "color"
)

// Config describes the snapvcs configuration.
type Config struct {
	Ignore   []string `mapstructure:"ignore" json:"ignore" yaml:"ignore"`       // Names excluded from snapshots
	LogLevel string   `mapstructure:"loglevel" json:"loglevel" yaml:"loglevel"` // Logging level
	Pager    string   `mapstructure:"pager" json:"pager" yaml:"pager"`          // Pager command used by log
	Color    bool     `mapstructure:"color" json:"color" yaml:"color"`          // Colorized output
}

// Default configuration
func Default() Config {
	return Config{
		Ignore:   []string{".git"},
		LogLevel: "info",
		Pager:    "less -FX",
		Color:    true,
	}
}

// SetDefaults registers default values with a viper instance
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(keyIgnore, d.Ignore)
	v.SetDefault(keyLogLevel, d.LogLevel)
	v.SetDefault(keyPager, d.Pager)
	v.SetDefault(keyColor, d.Color)
}

// NewViper prepares a viper instance for a working tree rooted at repoRoot.
//
// An explicit config file may be given, otherwise SNAPVCS_CONFIG is honored,
// then the repository and user config directories are searched.
func NewViper(repoRoot, configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if configFile == "" {
		configFile = os.Getenv(EnvConfigFile)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(repoRoot, model.ControlDir))
		v.AddConfigPath(filepath.Join("$HOME", model.ControlDir))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads the configuration.
//
// A missing config file is not an error when none was explicitly required.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// IgnoreList yields the names excluded from snapshots.
//
// The control directory is always part of the list.
func (c *Config) IgnoreList() []string {
	seen := make(map[string]struct{}, len(c.Ignore)+1)
	list := make([]string, 0, len(c.Ignore)+1)
	for _, name := range append([]string{model.ControlDir}, c.Ignore...) {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		list = append(list, name)
	}
	return list
}

// YAML renders the configuration as a yaml document
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
