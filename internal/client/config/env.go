package config

import (
	"fmt"
	"os"
	"time"
)

const (
	envAddr      = "GOPHAUTH_ADDR"
	envTokenFile = "GOPHAUTH_TOKEN_FILE"
	envTimeout   = "GOPHAUTH_TIMEOUT"
)

func parseEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envAddr); ok && v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v, ok := os.LookupEnv(envTokenFile); ok && v != "" {
		cfg.TokenFile = v
	}
	if v, ok := os.LookupEnv(envTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTimeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}
