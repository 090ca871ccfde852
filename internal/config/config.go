// Package config loads processing settings from an optional YAML file,
// a .env file, and environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

var ErrConfig = errors.New("config")

// Config holds the directory layout and processing options shared by the
// command-line tools.
type Config struct {
	// DataDir is where input files are read from in batch mode.
	DataDir string `yaml:"data_dir"`
	// OutputDir is the base for the json and reports subdirectories.
	OutputDir string `yaml:"output_dir"`
	// Workers bounds concurrent file processing in batch mode.
	Workers int `yaml:"workers"`
	// StrictComposites reports composite elements that lack a
	// sub-element separator.
	StrictComposites bool `yaml:"strict_composites"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		DataDir:   "data",
		OutputDir: "output",
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
	}
}

// Load builds the configuration. A missing YAML file or .env file is not
// an error; a present but unreadable or malformed one is.
func Load(path string) (Config, error) {
	// .env values become regular environment variables without
	// overriding ones already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("%w: loading .env: %v", ErrConfig, err)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("%w: reading %s: %v", ErrConfig, path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("%w: parsing %s: %v", ErrConfig, path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("%w: workers must be at least 1, got %d", ErrConfig, cfg.Workers)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("X12_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("X12_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("X12_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: X12_WORKERS: %v", ErrConfig, err)
		}
		c.Workers = n
	}
	if v := os.Getenv("X12_STRICT_COMPOSITES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: X12_STRICT_COMPOSITES: %v", ErrConfig, err)
		}
		c.StrictComposites = b
	}
	if v := os.Getenv("X12_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// JSONDir is where converted documents are written.
func (c Config) JSONDir() string {
	return filepath.Join(c.OutputDir, "json")
}

// ReportsDir is where validation reports are written.
func (c Config) ReportsDir() string {
	return filepath.Join(c.OutputDir, "reports")
}

// JSONPath returns the output path for a converted input file.
func (c Config) JSONPath(inputName string) string {
	base := baseName(inputName)
	return filepath.Join(c.JSONDir(), base+".json")
}

// ReportPath returns the output path for an input file's validation
// report.
func (c Config) ReportPath(inputName string) string {
	base := baseName(inputName)
	return filepath.Join(c.ReportsDir(), base+"_validation.txt")
}

func baseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// EnsureDirectories creates the output tree.
func (c Config) EnsureDirectories() error {
	for _, dir := range []string{c.OutputDir, c.JSONDir(), c.ReportsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrConfig, dir, err)
		}
	}
	return nil
}
