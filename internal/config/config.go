package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port        int      `yaml:"port"`
	BasePath    string   `yaml:"base_path"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type LookupConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	ChainPause time.Duration `yaml:"chain_pause"`
	Coalesce   *bool         `yaml:"coalesce"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Lookup  LookupConfig  `yaml:"lookup"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	coalesce := true
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Lookup: LookupConfig{
			BaseURL:    "https://brasilapi.com.br",
			Timeout:    15 * time.Second,
			ChainPause: 300 * time.Millisecond,
			Coalesce:   &coalesce,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the
// defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := Decode(f, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Decode merges YAML from r into cfg and re-applies defaults for keys left
// empty.
func Decode(r io.Reader, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil target")
	}
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	cfg.applyDefaults()
	return cfg.Validate()
}

// CoalesceLookups reports whether concurrent identical lookups share one
// upstream request.
func (c *Config) CoalesceLookups() bool {
	return c.Lookup.Coalesce == nil || *c.Lookup.Coalesce
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	if c.Lookup.Timeout < 0 {
		return fmt.Errorf("config: negative lookup.timeout %s", c.Lookup.Timeout)
	}
	if c.Lookup.ChainPause < 0 {
		return fmt.Errorf("config: negative lookup.chain_pause %s", c.Lookup.ChainPause)
	}
	return nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = def.Server.CORSOrigins
	}
	if strings.TrimSpace(c.Lookup.BaseURL) == "" {
		c.Lookup.BaseURL = def.Lookup.BaseURL
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = def.Logging.Level
	}
}
