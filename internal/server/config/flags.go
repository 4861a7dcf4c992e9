package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      gRPC bind address (e.g., ":50051")
//	-w string      HTTP bind address; empty disables the HTTP API
//	-b string      database driver: postgres | sqlite
//	-d string      database DSN
//	-s string      JWT HMAC secret key
//	-t int         token validity, minutes
//	-i string      token issuer
//	-algo string   password hash algorithm: bcrypt | argon2id
//	-cost int      password hash cost
//	-min-password int  minimum password length
//	-log-format string json | text
//	-log-level string  debug | info | warn | error
//
// Unparseable values panic, matching the JSON loader.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-w", "-b", "-d", "-s", "-t", "-i",
		"-algo", "-cost", "-min-password", "-log-format", "-log-level",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.DatabaseDriver, "b", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")
	fs.StringVar(&config.HashAlgorithm, "algo", config.HashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.HashCost, "cost", config.HashCost, "password hash cost (0 = algorithm default)")
	fs.IntVar(&config.PasswordMinLength, "min-password", config.PasswordMinLength, "minimum password length")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t replaces a finer-grained duration from JSON or env
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
}
