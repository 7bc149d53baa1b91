package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the startup configuration, sourced from the environment (.env
// supported) plus an optional ignore-pattern file.
type Config struct {
	Addr           string `validate:"required"`
	ResultsDir     string `validate:"required"`
	DBPath         string `validate:"required"`
	IgnoreFile     string
	IgnorePatterns []string
}

// ignoreFile is the YAML shape of the ignore-pattern file:
//
//	ignore_patterns:
//	  - '\.timestamp$'
//	  - 'request_id'
type ignoreFile struct {
	IgnorePatterns []string `yaml:"ignore_patterns"`
}

// Load reads configuration from the environment. Pattern strings are loaded
// here; compiling them (and failing fast on a malformed one) is the ignore
// filter's job at startup.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{
		Addr:       getEnv("APIDIFF_ADDR", ":8080"),
		ResultsDir: getEnv("APIDIFF_RESULTS_DIR", "results_to_compare"),
		DBPath:     getEnv("APIDIFF_DB_PATH", "progress.db"),
		IgnoreFile: os.Getenv("APIDIFF_IGNORE_FILE"),
	}

	if cfg.IgnoreFile != "" {
		patterns, err := loadIgnoreFile(cfg.IgnoreFile)
		if err != nil {
			return nil, err
		}
		cfg.IgnorePatterns = patterns
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadIgnoreFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}
	var parsed ignoreFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ignore file %s: %w", path, err)
	}
	return parsed.IgnorePatterns, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
