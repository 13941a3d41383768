package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/messagely/internal/logger"
	"github.com/nkiryanov/messagely/internal/service/auth"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultWorkFactor   = auth.DefaultWorkFactor

	defaultDatabaseDSN     = "postgresql:///messagely"
	defaultTestDatabaseDSN = "postgresql:///messagely_test"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the messagely service will be run
	ListenAddr string

	// Database to connect to
	// If empty the default one for environment is used
	DatabaseDSN string

	// Secret key to sign tokens with, required
	SecretKey string

	// Bcrypt cost used to hash passwords
	WorkFactor int

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		WorkFactor:  defaultWorkFactor,
		Environment: defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*o = n
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":        setString(&c.ListenAddr),
		"DATABASE_URI":       setString(&c.DatabaseDSN),
		"SECRET_KEY":         setString(&c.SecretKey),
		"BCRYPT_WORK_FACTOR": setInt(&c.WorkFactor),
		"LOG_LEVEL":          setString(&c.LogLevel),
		"ENVIRONMENT":        setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s value. Err: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("messagely", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign tokens")
	fs.IntVarP(&c.WorkFactor, "work-factor", "w", c.WorkFactor, "Bcrypt work factor")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, test, prod)")

	return fs.Parse(args)
}

// Database to connect to: explicit one or the default for environment
func (c *Config) DatabaseURI() string {
	switch {
	case c.DatabaseDSN != "":
		return c.DatabaseDSN
	case c.Environment == logger.EnvTest:
		return defaultTestDatabaseDSN
	default:
		return defaultDatabaseDSN
	}
}

// Validate config is complete and consistent
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}

	switch c.Environment {
	case logger.EnvDevelopment, logger.EnvTest, logger.EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Environment))
	}

	if c.WorkFactor < bcrypt.MinCost || c.WorkFactor > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("work factor must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.WorkFactor))
	}

	return errors.Join(errs...)
}
