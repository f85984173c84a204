// Package config provides functionality for managing configuration options
// for the client and the server using command-line flags, an optional JSON
// config file and environment variables.
//
// Precedence, lowest first: flag defaults, config file, explicit flags,
// environment.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinJWTSecretLength is the minimum length of the token signing secret.
const MinJWTSecretLength = 32

// ErrHelp is returned when -h or -help was requested.
var ErrHelp = flag.ErrHelp

// ClientOptions holds the configuration of the terminal client.
type ClientOptions struct {
	// BaseURL is the root of the WorkPlanner API.
	BaseURL string `json:"base_url" env:"WORKPLANNER_BASE_URL"`

	// CAFile is an extra CA bundle trusted for HTTPS.
	CAFile string `json:"ca_file" env:"WORKPLANNER_CA_FILE"`

	// Timeout bounds every API request.
	Timeout time.Duration `json:"-" env:"WORKPLANNER_TIMEOUT"`

	LogLevel string `json:"log_level" env:"WORKPLANNER_LOG_LEVEL"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	ShowVersion bool `json:"-"`
}

// ServerOptions holds the configuration of the reference API server.
type ServerOptions struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address" env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// JWTSecret signs and verifies access tokens.
	JWTSecret string        `json:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `json:"-" env:"TOKEN_TTL"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert" env:"TLS_CERT"`
	TLSKey  string `json:"tls_key" env:"TLS_KEY"`

	// AdminUsername and AdminPassword describe the account created at
	// startup when no user with that name exists.
	AdminUsername string `json:"admin_username" env:"ADMIN_USERNAME"`
	AdminPassword string `json:"admin_password" env:"ADMIN_PASSWORD"`

	// AuthRate and AuthBurst throttle /authenticate per client IP.
	AuthRate  float64 `json:"auth_rate" env:"AUTH_RATE"`
	AuthBurst int     `json:"auth_burst" env:"AUTH_BURST"`

	// PlanRetention is how long finished plan entries are kept; zero keeps
	// them forever.
	PlanRetention time.Duration `json:"-" env:"PLAN_RETENTION"`

	LogLevel string `json:"log_level" env:"LOG_LEVEL"`
}

// TLSEnabled reports whether the server should listen with HTTPS.
func (o *ServerOptions) TLSEnabled() bool {
	return o.TLSCert != "" && o.TLSKey != ""
}

// ParseClient builds the client options from args (without the program
// name) and the environment.
func ParseClient(args []string) (*ClientOptions, error) {
	opts := &ClientOptions{}
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&opts.BaseURL, "url", "http://localhost:8080", "WorkPlanner API base URL")
	fs.StringVar(&opts.CAFile, "ca", "", "path to an extra CA cert")
	fs.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "request timeout")
	fs.StringVar(&opts.LogLevel, "log-level", "warn", "log level")
	fs.StringVar(&opts.Config, "config", "", "path to config file")
	fs.StringVar(&opts.Config, "c", "", "path to config file (shorthand)")
	fs.BoolVar(&opts.ShowVersion, "version", false, "show build version and date")

	if err := load(fs, args, opts, &opts.Config, "WORKPLANNER_CONFIG"); err != nil {
		return nil, err
	}
	if opts.BaseURL == "" {
		return nil, errors.New("base URL must not be empty")
	}
	return opts, nil
}

// ParseServer builds the server options from args (without the program
// name) and the environment.
func ParseServer(args []string) (*ServerOptions, error) {
	opts := &ServerOptions{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&opts.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&opts.Config, "config", "config.json", "path to config file")
	fs.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	fs.DurationVar(&opts.TokenTTL, "token-ttl", 120*time.Minute, "access token lifetime")
	fs.StringVar(&opts.TLSCert, "tls-cert", "", "path to TLS certificate")
	fs.StringVar(&opts.TLSKey, "tls-key", "", "path to TLS key")
	fs.StringVar(&opts.AdminUsername, "admin", "", "bootstrap admin username")
	fs.Float64Var(&opts.AuthRate, "auth-rate", 1, "authentication attempts per second per client")
	fs.IntVar(&opts.AuthBurst, "auth-burst", 5, "authentication burst per client")
	fs.DurationVar(&opts.PlanRetention, "plan-retention", 0, "delete plan entries finished longer ago than this (0 disables)")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "log level")

	if err := load(fs, args, opts, &opts.Config, "CONFIG"); err != nil {
		return nil, err
	}

	if opts.DatabaseDSN == "" {
		return nil, errors.New("database DSN is required (-d or DATABASE_DSN)")
	}
	if len(opts.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes long, got %d bytes",
			MinJWTSecretLength, len(opts.JWTSecret))
	}
	if opts.TokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	if opts.PlanRetention < 0 {
		return nil, errors.New("plan retention must not be negative")
	}
	if (opts.TLSCert == "") != (opts.TLSKey == "") {
		return nil, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	if opts.AdminUsername != "" && opts.AdminPassword == "" {
		return nil, errors.New("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	return opts, nil
}

// load parses flags, merges the config file, re-applies the flags given
// explicitly and finally the environment (.env first).
func load(fs *flag.FlagSet, args []string, opts any, configPath *string, configEnv string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Override flags with environment variables if set
	if p := os.Getenv(configEnv); p != "" {
		*configPath = p
	}

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, opts); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
			if err := fs.Parse(args); err != nil {
				return err
			}
		case !os.IsNotExist(err):
			return fmt.Errorf("error while reading config file: %w", err)
		}
	}

	_ = godotenv.Load()
	if err := env.Parse(opts); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}
