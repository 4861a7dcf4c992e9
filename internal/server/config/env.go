package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "GOPHAUTH_"

// parseEnv overlays GOPHAUTH_* environment variables. A dotenv file named by
// -env-file, or ./.env when present, is loaded first; variables already set
// in the process environment win over the file.
func parseEnv(config *Config) error {
	if err := loadDotenv(flagx.EnvFileFlag()); err != nil {
		return err
	}

	strs := map[string]*string{
		"GRPC_ADDR":       &config.EndpointAddrGRPC,
		"HTTP_ADDR":       &config.EndpointAddrHTTP,
		"DATABASE_DRIVER": &config.DatabaseDriver,
		"DATABASE_DSN":    &config.DatabaseDSN,
		"SECRET_KEY":      &config.SecretKey,
		"TOKEN_ISSUER":    &config.TokenIssuer,
		"HASH_ALGORITHM":  &config.HashAlgorithm,
		"LOG_FORMAT":      &config.LogFormat,
		"LOG_LEVEL":       &config.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HASH_COST":           &config.HashCost,
		"PASSWORD_MIN_LENGTH": &config.PasswordMinLength,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(envPrefix + "TOKEN_VALIDITY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTOKEN_VALIDITY: %w", envPrefix, err)
		}
		config.TokenValidityDuration = d
	}

	return nil
}

func loadDotenv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
