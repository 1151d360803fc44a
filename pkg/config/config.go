// Package config loads settings for the command-line front end. The matching core never
// reads the environment; the CLI turns this configuration into an explicit run config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Logging  LoggingConfig
	Matching MatchingConfig
	Columns  ColumnsConfig
	Metrics  MetricsConfig
}

type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
}

type MatchingConfig struct {
	AttachmentDir   string
	CollisionPolicy string
}

// ColumnsConfig names the four required ledger header cells.
type ColumnsConfig struct {
	Institution    string
	ContractType   string
	ContractNumber string
	Attachment     string
}

type MetricsConfig struct {
	Textfile string
}

// Load reads an optional .env file, then environment variables.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Logging: LoggingConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
			AddSource: getEnvAsBool("LOG_SOURCE", false),
		},
		Matching: MatchingConfig{
			AttachmentDir:   getEnv("CONTRACT_ATTACHMENT_DIR", "合同PDF附件"),
			CollisionPolicy: getEnv("CONTRACT_COLLISION_POLICY", "last"),
		},
		Columns: ColumnsConfig{
			Institution:    getEnv("CONTRACT_COL_INSTITUTION", "机构"),
			ContractType:   getEnv("CONTRACT_COL_TYPE", "合同类型"),
			ContractNumber: getEnv("CONTRACT_COL_NUMBER", "合同编号"),
			Attachment:     getEnv("CONTRACT_COL_ATTACHMENT", "合同原件"),
		},
		Metrics: MetricsConfig{
			Textfile: getEnv("METRICS_TEXTFILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the CLI cannot act on.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Logging.Format)
	}
	switch c.Matching.CollisionPolicy {
	case "first", "last":
	default:
		return fmt.Errorf("CONTRACT_COLLISION_POLICY must be first or last, got %q", c.Matching.CollisionPolicy)
	}
	if c.Matching.AttachmentDir == "" {
		return errors.New("CONTRACT_ATTACHMENT_DIR must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
