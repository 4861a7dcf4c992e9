// Package config holds the settings of the gophauth command line client.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gRPC endpoint.
//   - TokenFile: where the last issued access token is kept between runs.
//   - Timeout: deadline applied to every remote call.
type Config struct {
	ServerEndpointAddr string
	TokenFile          string
	Timeout            time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.TokenFile = ".gophauth/token"
	c.Timeout = 10 * time.Second
}

// LoadConfig applies defaults, then the JSON file at jsonPath (when not
// empty), then environment variables. Command line flags are applied by
// the caller on top of the result.
func LoadConfig(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerEndpointAddr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.TokenFile == "" {
		return fmt.Errorf("token file is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
