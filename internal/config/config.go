// Package config loads user settings and the tracked-changelist state.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"
)

const (
	// AppName names the configuration directory.
	AppName = "p"
	// ConfigFileName is the settings file inside the configuration directory.
	ConfigFileName = "config.yaml"
	// TrackedFileName holds changelists created by p.
	TrackedFileName = "tracked.yaml"

	envPrefix = "P"
)

// Config holds the CLI configuration.
type Config struct {
	// P4Command is the command line used to run Perforce, e.g. "p4" or
	// "p4 -p ssl:perforce:1666".
	P4Command string `mapstructure:"p4_command"`

	// PagerHeight caps the annotate viewport. Zero fills the terminal.
	PagerHeight int `mapstructure:"pager_height"`

	// DescribeWorkers bounds concurrent "p4 change -o" calls.
	DescribeWorkers int `mapstructure:"describe_workers"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// Dir is the directory holding the config and state files.
	Dir string

	// File is the settings file that was read, empty when none existed.
	File string
}

// LoadOptions overrides where configuration is read from.
type LoadOptions struct {
	// ConfigFilePath is set by --config. The file must exist.
	ConfigFilePath string

	// ConfigDirPath replaces the platform config directory.
	ConfigDirPath string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		P4Command:       "p4",
		DescribeWorkers: 4,
		LogLevel:        "warn",
	}
}

// Dir returns $XDG_CONFIG_HOME/p, defaulting to ~/.config/p.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// Load reads the settings file, then P_-prefixed environment overrides.
// A missing default file is not an error; a missing --config file is.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults := DefaultConfig()
	v.SetDefault("p4_command", defaults.P4Command)
	v.SetDefault("pager_height", defaults.PagerHeight)
	v.SetDefault("describe_workers", defaults.DescribeWorkers)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	dir := opts.ConfigDirPath
	if dir == "" {
		d, err := Dir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	path := opts.ConfigFilePath
	if path != "" {
		if !fileExists(path) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		dir = filepath.Dir(path)
	} else {
		path = filepath.Join(dir, ConfigFileName)
	}

	resolved := ""
	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		resolved = path
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Dir = dir
	cfg.File = resolved

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PagerHeight < 0 {
		return fmt.Errorf("pager_height must not be negative, got %d", c.PagerHeight)
	}
	if c.DescribeWorkers < 1 {
		c.DescribeWorkers = 1
	}
	if _, err := c.P4Argv(); err != nil {
		return err
	}
	return nil
}

// P4Argv splits P4Command with shell quoting rules.
func (c *Config) P4Argv() ([]string, error) {
	argv, err := shellquote.Split(c.P4Command)
	if err != nil {
		return nil, fmt.Errorf("invalid p4_command %q: %w", c.P4Command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("p4_command is empty")
	}
	return argv, nil
}

// TrackedPath returns the location of the tracked-changelist file.
func (c *Config) TrackedPath() string {
	return filepath.Join(c.Dir, TrackedFileName)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
